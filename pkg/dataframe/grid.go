package dataframe

import "github.com/loomhq/loom/pkg/config"

// AppendRow appends a row honoring the configured appended-row limit.
func (s *EditingState) AppendRow(cells map[int]Cell) (int, error) {
	maxRows := 0
	if grid := config.GetGrid(); grid != nil {
		maxRows = grid.GetMaxAddedRows()
	}
	return s.AddRow(cells, maxRows)
}

// CopySelection writes a cell rectangle to the system clipboard, including
// column titles when the grid config asks for them.
func CopySelection(columns []Column, cells [][]Cell) error {
	withHeaders := false
	if grid := config.GetGrid(); grid != nil {
		withHeaders = grid.GetCopyWithHeaders()
	}
	return CopyCells(columns, cells, withHeaders)
}
