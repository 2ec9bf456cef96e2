package dataframe

import (
	"testing"
	"time"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestRecord(t *testing.T) arrow.Record {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "score", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "when", Type: arrow.FixedWidthTypes.Timestamp_ms},
		{Name: "ratio", Type: arrow.PrimitiveTypes.Float64},
	}, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	builder.Field(0).(*array.StringBuilder).AppendValues([]string{"alpha", "beta"}, nil)
	builder.Field(1).(*array.Int64Builder).AppendValues([]int64{42, 0}, []bool{true, false})
	builder.Field(2).(*array.BooleanBuilder).AppendValues([]bool{true, false}, nil)
	builder.Field(3).(*array.TimestampBuilder).AppendValues([]arrow.Timestamp{
		arrow.Timestamp(1709287200000),
		arrow.Timestamp(0),
	}, nil)
	builder.Field(4).(*array.Float64Builder).AppendValues([]float64{0.5, 1.25}, nil)

	record := builder.NewRecord()
	t.Cleanup(record.Release)
	return record
}

func TestArrowSourceShape(t *testing.T) {
	source := NewArrowSource(buildTestRecord(t))

	assert.Equal(t, 2, source.NumRows())
	assert.Equal(t, 5, source.NumCols())
	assert.Equal(t, "name", source.ColumnName(0))
	assert.Equal(t, "utf8", source.TypeName(0))
	assert.Equal(t, "int64", source.TypeName(1))
	assert.Equal(t, "bool", source.TypeName(2))
	assert.Equal(t, "timestamp", source.TypeName(3))
	assert.Equal(t, "float64", source.TypeName(4))
}

func TestArrowSourceValues(t *testing.T) {
	source := NewArrowSource(buildTestRecord(t))

	t.Run("string", func(t *testing.T) {
		v, err := source.Value(0, 0)
		require.NoError(t, err)
		assert.Equal(t, "alpha", v)
	})

	t.Run("int widens to int64", func(t *testing.T) {
		v, err := source.Value(1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	})

	t.Run("null decodes to nil", func(t *testing.T) {
		v, err := source.Value(1, 1)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("bool", func(t *testing.T) {
		v, err := source.Value(2, 1)
		require.NoError(t, err)
		assert.Equal(t, false, v)
	})

	t.Run("timestamp decodes to utc time", func(t *testing.T) {
		v, err := source.Value(3, 0)
		require.NoError(t, err)
		ts, ok := v.(time.Time)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ts)
	})

	t.Run("float", func(t *testing.T) {
		v, err := source.Value(4, 1)
		require.NoError(t, err)
		assert.Equal(t, 1.25, v)
	})

	t.Run("out of range coordinates error", func(t *testing.T) {
		_, err := source.Value(99, 0)
		assert.Error(t, err)
		_, err = source.Value(0, 99)
		assert.Error(t, err)
	})
}

func TestColumnsFromSource(t *testing.T) {
	source := NewArrowSource(buildTestRecord(t))

	t.Run("kinds inferred from arrow types", func(t *testing.T) {
		columns := ColumnsFromSource(source, nil)
		require.Len(t, columns, 5)

		assert.Equal(t, "text", columns[0].Kind())
		assert.Equal(t, "number", columns[1].Kind())
		assert.Equal(t, "checkbox", columns[2].Kind())
		assert.Equal(t, "datetime", columns[3].Kind())
		assert.Equal(t, "number", columns[4].Kind())
	})

	t.Run("config overlays type override", func(t *testing.T) {
		config := map[string]ColumnConfig{
			"ratio": {Type: strPtr("progress")},
		}
		columns := ColumnsFromSource(source, config)
		assert.Equal(t, "progress", columns[4].Kind())
	})

	t.Run("source values decode into cells", func(t *testing.T) {
		columns := ColumnsFromSource(source, nil)
		state := NewEditingState(source.NumRows())

		cell := state.CellAt(source, columns, 0, 0)
		assert.Equal(t, "alpha", cell.Text)

		cell = state.CellAt(source, columns, 0, 3)
		require.False(t, cell.IsError())
		assert.Equal(t, "2024-03-01T10:00:00.000Z", cell.Display)

		cell = state.CellAt(source, columns, 1, 1)
		assert.True(t, cell.Missing)
	})
}
