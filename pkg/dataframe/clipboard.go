package dataframe

import (
	"strings"

	"github.com/atotto/clipboard"
)

// FormatCellsTSV renders a rectangular cell selection as tab-separated
// text, one line per row. When withHeaders is true the first line carries
// the column titles. Tabs and newlines inside cell text are replaced with
// spaces so the rectangle survives a paste into a spreadsheet.
func FormatCellsTSV(columns []Column, cells [][]Cell, withHeaders bool) string {
	var b strings.Builder
	if withHeaders {
		for i, col := range columns {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(sanitizeTSV(col.Props().Title))
		}
		b.WriteByte('\n')
	}
	for _, row := range cells {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(sanitizeTSV(cell.Display))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// CopyCells writes the selection to the system clipboard as TSV.
func CopyCells(columns []Column, cells [][]Cell, withHeaders bool) error {
	return clipboard.WriteAll(FormatCellsTSV(columns, cells, withHeaders))
}

func sanitizeTSV(s string) string {
	replacer := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	return replacer.Replace(s)
}
