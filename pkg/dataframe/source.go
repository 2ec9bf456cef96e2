package dataframe

import (
	"fmt"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
)

// TableSource is the immutable columnar table a grid decodes from. Cell
// writes never go through a TableSource; they live in the EditingState
// overlay.
type TableSource interface {
	// NumRows returns the number of rows.
	NumRows() int

	// NumCols returns the number of columns.
	NumCols() int

	// ColumnName returns the name of column i.
	ColumnName(i int) string

	// TypeName returns the arrow type tag of column i, e.g. "utf8".
	TypeName(i int) string

	// Value decodes the value at (col, row); nil represents null.
	Value(col, row int) (any, error)
}

// ArrowSource adapts an arrow.Record to the TableSource interface.
type ArrowSource struct {
	record arrow.Record
}

// NewArrowSource wraps a record. The record is treated as immutable; the
// caller keeps ownership of its lifetime.
func NewArrowSource(record arrow.Record) *ArrowSource {
	return &ArrowSource{record: record}
}

// NumRows returns the number of rows.
func (s *ArrowSource) NumRows() int {
	return int(s.record.NumRows())
}

// NumCols returns the number of columns.
func (s *ArrowSource) NumCols() int {
	return int(s.record.NumCols())
}

// ColumnName returns the schema name of column i.
func (s *ArrowSource) ColumnName(i int) string {
	return s.record.Schema().Field(i).Name
}

// TypeName returns the arrow type tag of column i.
func (s *ArrowSource) TypeName(i int) string {
	return s.record.Schema().Field(i).Type.Name()
}

// Value decodes the value at (col, row). Nulls decode to nil; temporal
// columns decode to UTC time.Time; types without a dedicated decoding fall
// back to their string form and land in object columns.
func (s *ArrowSource) Value(col, row int) (any, error) {
	if col < 0 || col >= s.NumCols() {
		return nil, fmt.Errorf("column %d out of range", col)
	}
	if row < 0 || row >= s.NumRows() {
		return nil, fmt.Errorf("row %d out of range", row)
	}

	data := s.record.Column(col)
	if data.IsNull(row) {
		return nil, nil
	}

	switch a := data.(type) {
	case *array.Boolean:
		return a.Value(row), nil
	case *array.Int8:
		return int64(a.Value(row)), nil
	case *array.Int16:
		return int64(a.Value(row)), nil
	case *array.Int32:
		return int64(a.Value(row)), nil
	case *array.Int64:
		return a.Value(row), nil
	case *array.Uint8:
		return int64(a.Value(row)), nil
	case *array.Uint16:
		return int64(a.Value(row)), nil
	case *array.Uint32:
		return int64(a.Value(row)), nil
	case *array.Uint64:
		return int64(a.Value(row)), nil
	case *array.Float32:
		return float64(a.Value(row)), nil
	case *array.Float64:
		return a.Value(row), nil
	case *array.String:
		return a.Value(row), nil
	case *array.LargeString:
		return a.Value(row), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(row).ToTime(unit).UTC(), nil
	case *array.Date32:
		return a.Value(row).ToTime().UTC(), nil
	case *array.Date64:
		return a.Value(row).ToTime().UTC(), nil
	case *array.Time32:
		unit := a.DataType().(*arrow.Time32Type).Unit
		return a.Value(row).ToTime(unit).UTC(), nil
	case *array.Time64:
		unit := a.DataType().(*arrow.Time64Type).Unit
		return a.Value(row).ToTime(unit).UTC(), nil
	case *array.List:
		start, end := a.ValueOffsets(row)
		values := a.ListValues()
		out := make([]any, 0, end-start)
		for i := start; i < end; i++ {
			if values.IsNull(int(i)) {
				out = append(out, nil)
				continue
			}
			out = append(out, values.ValueStr(int(i)))
		}
		return out, nil
	default:
		return a.ValueStr(row), nil
	}
}

// ColumnsFromSource derives one Column per source column, overlaying the
// supplied column-config entries. Index columns are identified by name via
// the config's "index" sentinel semantics upstream; here every source
// column maps positionally.
func ColumnsFromSource(source TableSource, config map[string]ColumnConfig) []Column {
	columns := make([]Column, 0, source.NumCols())
	for i := 0; i < source.NumCols(); i++ {
		name := source.ColumnName(i)
		props := ColumnProps{
			ID:        fmt.Sprintf("col-%d", i),
			Name:      name,
			Title:     name,
			Index:     i,
			ArrowType: source.TypeName(i),
		}
		override := ApplyColumnConfig(&props, config)
		columns = append(columns, NewColumnFromProps(props, override))
	}
	return columns
}
