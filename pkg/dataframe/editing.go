package dataframe

import (
	"fmt"
	"sort"
)

// EditingState is the mutable overlay atop an immutable TableSource for one
// grid instance. It accounts for three independent things: per-cell
// overrides keyed by (original row, column), logically deleted original
// rows, and appended rows with no original counterpart.
//
// Appended rows are addressed by synthetic negative original indices, so
// the logical-to-original translation has a total rule: a negative index
// resolves through the appended list, anything else skips past deletions.
//
// An EditingState is created fresh per grid render sized to the source's
// row count and discarded when the source table reference changes.
type EditingState struct {
	sourceRows int
	edits      map[int]map[int]Cell
	deleted    []int // sorted ascending, no duplicates
	added      []map[int]Cell
}

// NewEditingState creates an empty overlay for a source with the given
// number of rows.
func NewEditingState(sourceRows int) *EditingState {
	return &EditingState{
		sourceRows: sourceRows,
		edits:      make(map[int]map[int]Cell),
	}
}

// NumRows returns the logical row count: source rows minus deletions plus
// appended rows.
func (s *EditingState) NumRows() int {
	return s.sourceRows - len(s.deleted) + len(s.added)
}

// OriginalRowIndex translates a logical row index (what the grid shows) to
// an original row index in the source table. Appended rows translate to
// synthetic negative indices: the k-th appended row is -(k+1).
func (s *EditingState) OriginalRowIndex(logical int) int {
	surviving := s.sourceRows - len(s.deleted)
	if logical >= surviving {
		return -(logical - surviving + 1)
	}
	idx := logical
	for _, d := range s.deleted {
		if d <= idx {
			idx++
		} else {
			break
		}
	}
	return idx
}

// addedIndex maps a synthetic negative original index to its slot in the
// appended list.
func addedIndex(original int) int {
	return -original - 1
}

// SetCell stores an edited cell at (original row, column). Negative
// original indices address appended rows; writes to deleted or unknown
// appended rows are rejected.
func (s *EditingState) SetCell(originalRow, col int, cell Cell) error {
	if originalRow < 0 {
		k := addedIndex(originalRow)
		if k >= len(s.added) {
			return fmt.Errorf("no appended row at synthetic index %d", originalRow)
		}
		s.added[k][col] = cell
		return nil
	}
	if originalRow >= s.sourceRows {
		return fmt.Errorf("original row %d out of range", originalRow)
	}
	if s.isDeleted(originalRow) {
		return fmt.Errorf("original row %d is deleted", originalRow)
	}
	row, ok := s.edits[originalRow]
	if !ok {
		row = make(map[int]Cell)
		s.edits[originalRow] = row
	}
	row[col] = cell
	return nil
}

// EditedCell returns the override stored at (original row, column), if any.
func (s *EditingState) EditedCell(originalRow, col int) (Cell, bool) {
	if originalRow < 0 {
		k := addedIndex(originalRow)
		if k >= len(s.added) {
			return Cell{}, false
		}
		cell, ok := s.added[k][col]
		return cell, ok
	}
	row, ok := s.edits[originalRow]
	if !ok {
		return Cell{}, false
	}
	cell, ok := row[col]
	return cell, ok
}

// AddRow appends a row initialized with the given cells (column index →
// cell) and returns its synthetic original index. maxRows caps the total
// appended count when positive.
func (s *EditingState) AddRow(cells map[int]Cell, maxRows int) (int, error) {
	if maxRows > 0 && len(s.added) >= maxRows {
		return 0, fmt.Errorf("appended row limit of %d reached", maxRows)
	}
	row := make(map[int]Cell, len(cells))
	for col, cell := range cells {
		row[col] = cell
	}
	s.added = append(s.added, row)
	return -len(s.added), nil
}

// DeleteRow logically deletes a row by original index. Deleting an
// appended row removes it from the appended list outright; later appended
// rows shift down one synthetic index. Deleting an already-deleted row is
// a no-op.
func (s *EditingState) DeleteRow(originalRow int) error {
	if originalRow < 0 {
		k := addedIndex(originalRow)
		if k >= len(s.added) {
			return fmt.Errorf("no appended row at synthetic index %d", originalRow)
		}
		s.added = append(s.added[:k], s.added[k+1:]...)
		return nil
	}
	if originalRow >= s.sourceRows {
		return fmt.Errorf("original row %d out of range", originalRow)
	}
	if s.isDeleted(originalRow) {
		return nil
	}
	delete(s.edits, originalRow)
	s.deleted = append(s.deleted, originalRow)
	sort.Ints(s.deleted)
	return nil
}

func (s *EditingState) isDeleted(originalRow int) bool {
	i := sort.SearchInts(s.deleted, originalRow)
	return i < len(s.deleted) && s.deleted[i] == originalRow
}

// DeletedRows returns the sorted original indices of deleted rows.
func (s *EditingState) DeletedRows() []int {
	return append([]int(nil), s.deleted...)
}

// NumAddedRows returns the number of appended rows.
func (s *EditingState) NumAddedRows() int {
	return len(s.added)
}

// CellAt resolves the cell the grid shows at (logical row, column): the
// edit overlay wins, appended rows resolve through the synthetic-index
// path, and everything else decodes straight from the source table.
func (s *EditingState) CellAt(source TableSource, columns []Column, logicalRow, col int) Cell {
	if col < 0 || col >= len(columns) {
		return ErrorCell(fmt.Sprintf("column %d out of range", col))
	}
	column := columns[col]

	original := s.OriginalRowIndex(logicalRow)
	if cell, ok := s.EditedCell(original, col); ok {
		return cell
	}
	if original < 0 {
		// Appended row with no explicit cell yet: fall back to the
		// column default, or an empty cell.
		if def := column.Props().Default; def != nil {
			return column.GetCell(def, false)
		}
		return MissingCell(column.GetCell(nil, false).Kind)
	}

	value, err := source.Value(column.Props().Index, original)
	if err != nil {
		return ErrorCell(err.Error())
	}
	return column.GetCell(value, false)
}

// CommitCell validates a candidate value through the column and, when
// accepted (possibly corrected), stores the resulting cell at the logical
// position. Rejected values leave the prior cell in place and return the
// error cell for display.
func (s *EditingState) CommitCell(columns []Column, logicalRow, col int, value any) (Cell, error) {
	if col < 0 || col >= len(columns) {
		return Cell{}, fmt.Errorf("column %d out of range", col)
	}
	column := columns[col]

	cell := column.GetCell(value, true)
	if cell.IsError() {
		return cell, nil
	}
	original := s.OriginalRowIndex(logicalRow)
	if err := s.SetCell(original, col, cell); err != nil {
		return Cell{}, err
	}
	return cell, nil
}
