package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCellsTSV(t *testing.T) {
	columns := []Column{
		CreateColumn("text", ColumnProps{Name: "name", Title: "Name"}),
		CreateColumn("number", ColumnProps{Name: "score", Title: "Score"}),
	}
	cells := [][]Cell{
		{
			{Kind: CellKindText, Text: "alpha", Display: "alpha"},
			{Kind: CellKindNumber, Number: 1, Display: "1"},
		},
		{
			{Kind: CellKindText, Text: "beta", Display: "beta"},
			{Kind: CellKindNumber, Number: 2.5, Display: "2.5"},
		},
	}

	t.Run("without headers", func(t *testing.T) {
		out := FormatCellsTSV(columns, cells, false)
		assert.Equal(t, "alpha\t1\nbeta\t2.5\n", out)
	})

	t.Run("with headers", func(t *testing.T) {
		out := FormatCellsTSV(columns, cells, true)
		assert.Equal(t, "Name\tScore\nalpha\t1\nbeta\t2.5\n", out)
	})

	t.Run("embedded tabs and newlines sanitized", func(t *testing.T) {
		dirty := [][]Cell{
			{{Kind: CellKindText, Display: "a\tb\nc"}},
		}
		out := FormatCellsTSV(columns[:1], dirty, false)
		assert.Equal(t, "a b c\n", out)
	})

	t.Run("empty selection", func(t *testing.T) {
		assert.Equal(t, "", FormatCellsTSV(nil, nil, false))
	})
}
