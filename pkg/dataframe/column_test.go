package dataframe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnKindFromArrowType(t *testing.T) {
	tests := []struct {
		arrowType string
		expected  string
	}{
		{"utf8", "text"},
		{"large_utf8", "text"},
		{"int64", "number"},
		{"uint8", "number"},
		{"float64", "number"},
		{"bool", "checkbox"},
		{"timestamp", "datetime"},
		{"date32", "date"},
		{"time64", "time"},
		{"list", "list"},
		{"struct", "json"},
		{"duration", "object"},
		{"", "object"},
	}

	for _, tt := range tests {
		t.Run(tt.arrowType, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColumnKindFromArrowType(tt.arrowType))
		})
	}
}

func TestCreateColumnUnknownKindFallsBack(t *testing.T) {
	col := CreateColumn("no-such-kind", ColumnProps{Name: "x"})
	assert.Equal(t, "object", col.Kind())
}

func TestNewColumnFromPropsOverrideWins(t *testing.T) {
	props := ColumnProps{Name: "score", ArrowType: "int64"}

	t.Run("inferred from arrow type", func(t *testing.T) {
		assert.Equal(t, "number", NewColumnFromProps(props, "").Kind())
	})

	t.Run("explicit override", func(t *testing.T) {
		assert.Equal(t, "progress", NewColumnFromProps(props, "progress").Kind())
	})
}

// Committed values must survive a cell round trip unchanged for every value
// the column accepts.
func TestColumnRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		column   Column
		input    any
		expected any
	}{
		{
			name:     "text",
			column:   CreateColumn("text", ColumnProps{}),
			input:    "hello",
			expected: "hello",
		},
		{
			name:     "number",
			column:   CreateColumn("number", ColumnProps{}),
			input:    3.5,
			expected: 3.5,
		},
		{
			name:     "checkbox",
			column:   CreateColumn("checkbox", ColumnProps{}),
			input:    true,
			expected: true,
		},
		{
			name:     "link",
			column:   CreateColumn("link", ColumnProps{}),
			input:    "https://example.com",
			expected: "https://example.com",
		},
		{
			name: "selectbox",
			column: CreateColumn("selectbox", ColumnProps{
				TypeOptions: map[string]any{"options": []string{"a", "b"}},
			}),
			input:    "b",
			expected: "b",
		},
		{
			name:     "json",
			column:   CreateColumn("json", ColumnProps{}),
			input:    `{"k":1}`,
			expected: `{"k":1}`,
		},
		{
			name:     "list",
			column:   CreateColumn("list", ColumnProps{}),
			input:    []any{"x", "y"},
			expected: []any{"x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.column.ValidateInput(tt.input)
			require.True(t, res.Valid)

			cell := tt.column.GetCell(tt.input, true)
			require.False(t, cell.IsError())
			assert.Equal(t, tt.expected, tt.column.GetCellValue(cell))
		})
	}
}

func TestTextColumnMaxChars(t *testing.T) {
	col := CreateColumn("text", ColumnProps{
		TypeOptions: map[string]any{"max_chars": 5},
	})

	t.Run("short value accepted as is", func(t *testing.T) {
		res := col.ValidateInput("1234")
		assert.True(t, res.Valid)
		assert.False(t, res.HasCorrection)
	})

	t.Run("long value corrected by truncation", func(t *testing.T) {
		res := col.ValidateInput("123456")
		require.True(t, res.Valid)
		require.True(t, res.HasCorrection)
		assert.Equal(t, "12345", res.Corrected)
	})

	t.Run("truncation counts runes not bytes", func(t *testing.T) {
		res := col.ValidateInput("héllo!")
		require.True(t, res.HasCorrection)
		assert.Equal(t, "héllo", res.Corrected)
	})
}

func TestLinkColumn(t *testing.T) {
	t.Run("max chars truncates before pattern check", func(t *testing.T) {
		col := CreateColumn("link", ColumnProps{
			TypeOptions: map[string]any{"max_chars": 5},
		})
		res := col.ValidateInput("123456")
		require.True(t, res.Valid)
		require.True(t, res.HasCorrection)
		assert.Equal(t, "12345", res.Corrected)
	})

	t.Run("validate regex rejects mismatches", func(t *testing.T) {
		col := CreateColumn("link", ColumnProps{
			TypeOptions: map[string]any{"validate": `^https://`},
		})
		assert.True(t, col.ValidateInput("https://example.com").Valid)
		assert.False(t, col.ValidateInput("ftp://example.com").Valid)
	})

	t.Run("bad regex poisons the column", func(t *testing.T) {
		col := CreateColumn("link", ColumnProps{
			TypeOptions: map[string]any{"validate": `[unclosed`},
		})

		res := col.ValidateInput("https://example.com")
		assert.False(t, res.Valid)

		// Even plain reads surface the configuration error per cell.
		cell := col.GetCell("https://example.com", false)
		assert.True(t, cell.IsError())
		assert.Contains(t, cell.ErrorReason, "invalid validate regex")
	})
}

func TestSelectColumnOptions(t *testing.T) {
	col := CreateColumn("selectbox", ColumnProps{
		TypeOptions: map[string]any{"options": []any{"red", "green"}},
	})

	assert.True(t, col.ValidateInput("red").Valid)

	res := col.ValidateInput("blue")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reason, "not one of the available options")
}

func TestNumberColumn(t *testing.T) {
	t.Run("min max clamp as correction", func(t *testing.T) {
		col := CreateColumn("number", ColumnProps{
			TypeOptions: map[string]any{"min_value": 0, "max_value": 10},
		})

		res := col.ValidateInput(15.0)
		require.True(t, res.Valid)
		require.True(t, res.HasCorrection)
		assert.Equal(t, 10.0, res.Corrected)

		res = col.ValidateInput(-2.0)
		require.True(t, res.HasCorrection)
		assert.Equal(t, 0.0, res.Corrected)
	})

	t.Run("integer arrow type rounds by default", func(t *testing.T) {
		col := CreateColumn("number", ColumnProps{ArrowType: "int64"})
		res := col.ValidateInput(3.7)
		require.True(t, res.Valid)
		require.True(t, res.HasCorrection)
		assert.Equal(t, 4.0, res.Corrected)
	})

	t.Run("non numeric input rejected", func(t *testing.T) {
		col := CreateColumn("number", ColumnProps{})
		assert.False(t, col.ValidateInput("abc").Valid)
	})

	t.Run("string input coerces", func(t *testing.T) {
		col := CreateColumn("number", ColumnProps{})
		cell := col.GetCell("2.5", false)
		require.False(t, cell.IsError())
		assert.Equal(t, 2.5, cell.Number)
	})

	t.Run("format controls display", func(t *testing.T) {
		col := CreateColumn("number", ColumnProps{
			TypeOptions: map[string]any{"format": "%.2f"},
		})
		cell := col.GetCell(3.14159, false)
		assert.Equal(t, "3.14", cell.Display)
	})
}

func TestCheckboxColumnCoercion(t *testing.T) {
	col := CreateColumn("checkbox", ColumnProps{})

	t.Run("bool accepted", func(t *testing.T) {
		res := col.ValidateInput(true)
		assert.True(t, res.Valid)
		assert.False(t, res.HasCorrection)
	})

	t.Run("string corrected", func(t *testing.T) {
		res := col.ValidateInput("true")
		require.True(t, res.Valid)
		require.True(t, res.HasCorrection)
		assert.Equal(t, true, res.Corrected)
	})

	t.Run("number corrected", func(t *testing.T) {
		res := col.ValidateInput(int64(0))
		require.True(t, res.HasCorrection)
		assert.Equal(t, false, res.Corrected)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		assert.False(t, col.ValidateInput("maybe").Valid)
	})
}

func TestReadOnlyColumnsRejectEdits(t *testing.T) {
	for _, kind := range []string{"progress", "object", "image"} {
		t.Run(kind, func(t *testing.T) {
			col := CreateColumn(kind, ColumnProps{})
			assert.False(t, col.ValidateInput("anything").Valid)

			// A validated write surfaces the rejection as an error cell.
			cell := col.GetCell("7", true)
			assert.True(t, cell.IsError())

			// A plain read of the same source value still renders.
			cell = col.GetCell("7", false)
			assert.False(t, cell.IsError())
		})
	}
}

func TestRequiredColumnRejectsNil(t *testing.T) {
	col := CreateColumn("text", ColumnProps{Required: true})

	res := col.ValidateInput(nil)
	assert.False(t, res.Valid)

	cell := col.GetCell(nil, true)
	assert.True(t, cell.IsError())

	// Without validation, nil is just a missing cell.
	cell = col.GetCell(nil, false)
	assert.True(t, cell.Missing)
	assert.False(t, cell.IsError())
}

func TestJSONColumn(t *testing.T) {
	col := CreateColumn("json", ColumnProps{})

	t.Run("invalid json string rejected", func(t *testing.T) {
		assert.False(t, col.ValidateInput(`{"k":`).Valid)
	})

	t.Run("non string serialized as correction", func(t *testing.T) {
		res := col.ValidateInput(map[string]any{"k": 1.0})
		require.True(t, res.Valid)
		require.True(t, res.HasCorrection)
		assert.Equal(t, `{"k":1}`, res.Corrected)
	})
}

func TestErrorCellNeverPanics(t *testing.T) {
	// Feeding every registered column type a pathological value must yield
	// a usable cell, not a panic.
	kinds := []string{
		"text", "number", "checkbox", "datetime", "date", "time",
		"link", "selectbox", "list", "json", "image", "progress", "object",
	}
	bad := struct{ X chan int }{}

	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			col := CreateColumn(kind, ColumnProps{})
			assert.NotPanics(t, func() {
				cell := col.GetCell(bad, true)
				_ = col.GetCellValue(cell)
				_ = fmt.Sprint(cell.Display)
			})
		})
	}
}
