package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a tiny in-memory TableSource for overlay tests.
type fakeSource struct {
	names []string
	types []string
	rows  [][]any
}

func (s *fakeSource) NumRows() int            { return len(s.rows) }
func (s *fakeSource) NumCols() int            { return len(s.names) }
func (s *fakeSource) ColumnName(i int) string { return s.names[i] }
func (s *fakeSource) TypeName(i int) string   { return s.types[i] }

func (s *fakeSource) Value(col, row int) (any, error) {
	return s.rows[row][col], nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		names: []string{"name", "score"},
		types: []string{"utf8", "int64"},
		rows: [][]any{
			{"alpha", int64(1)},
			{"beta", int64(2)},
			{"gamma", int64(3)},
			{"delta", int64(4)},
			{"epsilon", int64(5)},
		},
	}
}

func TestOriginalRowIndexTranslation(t *testing.T) {
	state := NewEditingState(5)
	require.NoError(t, state.DeleteRow(1))
	require.NoError(t, state.DeleteRow(3))

	synthetic, err := state.AddRow(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, synthetic)

	assert.Equal(t, 4, state.NumRows())

	// Surviving source rows skip past the deletions in order.
	assert.Equal(t, 0, state.OriginalRowIndex(0))
	assert.Equal(t, 2, state.OriginalRowIndex(1))
	assert.Equal(t, 4, state.OriginalRowIndex(2))

	// The appended row sits after the survivors.
	assert.Equal(t, -1, state.OriginalRowIndex(3))
}

func TestOriginalRowIndexDeleteOrderIrrelevant(t *testing.T) {
	// The same deletions applied in the opposite order translate
	// identically.
	a := NewEditingState(5)
	require.NoError(t, a.DeleteRow(1))
	require.NoError(t, a.DeleteRow(3))

	b := NewEditingState(5)
	require.NoError(t, b.DeleteRow(3))
	require.NoError(t, b.DeleteRow(1))

	for logical := 0; logical < 3; logical++ {
		assert.Equal(t, a.OriginalRowIndex(logical), b.OriginalRowIndex(logical))
	}
}

func TestEditingStateCellResolution(t *testing.T) {
	source := newFakeSource()
	columns := ColumnsFromSource(source, nil)
	state := NewEditingState(source.NumRows())

	t.Run("unedited cell decodes from source", func(t *testing.T) {
		cell := state.CellAt(source, columns, 0, 0)
		assert.Equal(t, "alpha", cell.Text)
	})

	t.Run("edit overlay wins", func(t *testing.T) {
		_, err := state.CommitCell(columns, 0, 0, "edited")
		require.NoError(t, err)

		cell := state.CellAt(source, columns, 0, 0)
		assert.Equal(t, "edited", cell.Text)

		// The neighboring cell still comes from the source.
		cell = state.CellAt(source, columns, 0, 1)
		assert.Equal(t, float64(1), cell.Number)
	})

	t.Run("deleting a row shifts later rows up", func(t *testing.T) {
		require.NoError(t, state.DeleteRow(1))
		cell := state.CellAt(source, columns, 1, 0)
		assert.Equal(t, "gamma", cell.Text)
	})

	t.Run("appended row starts empty", func(t *testing.T) {
		_, err := state.AddRow(nil, 0)
		require.NoError(t, err)

		logical := state.NumRows() - 1
		cell := state.CellAt(source, columns, logical, 0)
		assert.True(t, cell.Missing)
	})

	t.Run("appended row takes edits", func(t *testing.T) {
		logical := state.NumRows() - 1
		_, err := state.CommitCell(columns, logical, 0, "fresh")
		require.NoError(t, err)

		cell := state.CellAt(source, columns, logical, 0)
		assert.Equal(t, "fresh", cell.Text)
	})
}

func TestEditingStateAppendedRowDefaults(t *testing.T) {
	source := newFakeSource()
	config := map[string]ColumnConfig{
		"score": {Default: float64(7)},
	}
	columns := ColumnsFromSource(source, config)
	state := NewEditingState(source.NumRows())

	_, err := state.AddRow(nil, 0)
	require.NoError(t, err)

	cell := state.CellAt(source, columns, state.NumRows()-1, 1)
	require.False(t, cell.Missing)
	assert.Equal(t, float64(7), cell.Number)
}

func TestEditingStateRejectedEditLeavesCell(t *testing.T) {
	source := newFakeSource()
	columns := ColumnsFromSource(source, nil)
	state := NewEditingState(source.NumRows())

	cell, err := state.CommitCell(columns, 0, 1, "not a number")
	require.NoError(t, err)
	assert.True(t, cell.IsError())

	// The grid still shows the original value.
	shown := state.CellAt(source, columns, 0, 1)
	assert.Equal(t, float64(1), shown.Number)
}

func TestEditingStateReadOnlyColumnsRejectCommits(t *testing.T) {
	source := &fakeSource{
		names: []string{"blob"},
		types: []string{"duration"},
		rows:  [][]any{{"1h"}},
	}
	columns := ColumnsFromSource(source, nil)
	require.Equal(t, "object", columns[0].Kind())
	state := NewEditingState(source.NumRows())

	cell, err := state.CommitCell(columns, 0, 0, "overwritten")
	require.NoError(t, err)
	assert.True(t, cell.IsError())

	// Nothing lands in the overlay and the source value still shows.
	_, ok := state.EditedCell(0, 0)
	assert.False(t, ok)
	shown := state.CellAt(source, columns, 0, 0)
	assert.Equal(t, "1h", shown.Text)
}

func TestEditingStateDeleteSemantics(t *testing.T) {
	state := NewEditingState(3)

	t.Run("delete drops pending edits for the row", func(t *testing.T) {
		require.NoError(t, state.SetCell(1, 0, Cell{Kind: CellKindText, Text: "x"}))
		require.NoError(t, state.DeleteRow(1))

		_, ok := state.EditedCell(1, 0)
		assert.False(t, ok)
	})

	t.Run("double delete is a no-op", func(t *testing.T) {
		require.NoError(t, state.DeleteRow(1))
		assert.Equal(t, []int{1}, state.DeletedRows())
	})

	t.Run("writes to deleted rows rejected", func(t *testing.T) {
		err := state.SetCell(1, 0, Cell{Kind: CellKindText})
		assert.Error(t, err)
	})

	t.Run("out of range rejected", func(t *testing.T) {
		assert.Error(t, state.DeleteRow(99))
		assert.Error(t, state.SetCell(99, 0, Cell{}))
	})
}

func TestEditingStateAppendedRowDeletion(t *testing.T) {
	state := NewEditingState(2)

	first, err := state.AddRow(map[int]Cell{0: {Kind: CellKindText, Text: "one"}}, 0)
	require.NoError(t, err)
	second, err := state.AddRow(map[int]Cell{0: {Kind: CellKindText, Text: "two"}}, 0)
	require.NoError(t, err)
	require.Equal(t, -1, first)
	require.Equal(t, -2, second)

	// Deleting the first appended row shifts the second down one slot.
	require.NoError(t, state.DeleteRow(first))
	assert.Equal(t, 1, state.NumAddedRows())

	cell, ok := state.EditedCell(-1, 0)
	require.True(t, ok)
	assert.Equal(t, "two", cell.Text)
}

func TestEditingStateAddRowLimit(t *testing.T) {
	state := NewEditingState(0)

	_, err := state.AddRow(nil, 1)
	require.NoError(t, err)

	_, err = state.AddRow(nil, 1)
	assert.Error(t, err)
}
