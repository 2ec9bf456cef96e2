package dataframe

import (
	"encoding/json"
	"fmt"
	"strings"
)

func init() {
	RegisterColumnType("object", newObjectColumn)
	RegisterColumnType("list", newListColumn)
	RegisterColumnType("json", newJSONColumn)
	RegisterColumnType("image", newImageColumn)
}

// objectColumn is the fallback for source types no other column handles: it
// renders the value's string form and rejects edits.
type objectColumn struct {
	props ColumnProps
}

func newObjectColumn(props ColumnProps) Column {
	return &objectColumn{props: props}
}

func (c *objectColumn) Kind() string       { return "object" }
func (c *objectColumn) Props() ColumnProps { return c.props }

func (c *objectColumn) ValidateInput(value any) ValidationResult {
	return Reject("object cells are read-only")
}

func (c *objectColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		return MissingCell(CellKindObject)
	}
	if validate {
		if res := c.ValidateInput(value); !res.Valid {
			return ErrorCell(res.Reason)
		}
	}
	s := asString(value)
	return Cell{Kind: CellKindObject, Text: s, Display: s}
}

func (c *objectColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Text
}

// listColumn renders list-shaped source values.
type listColumn struct {
	props ColumnProps
}

func newListColumn(props ColumnProps) Column {
	return &listColumn{props: props}
}

func (c *listColumn) Kind() string       { return "list" }
func (c *listColumn) Props() ColumnProps { return c.props }

func (c *listColumn) ValidateInput(value any) ValidationResult {
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	if _, ok := asList(value); !ok {
		return Reject(fmt.Sprintf("%v is not a list", value))
	}
	return Accept()
}

func (c *listColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(CellKindList)
	}
	if validate {
		if res := c.ValidateInput(value); !res.Valid {
			return ErrorCell(res.Reason)
		}
	}
	list, ok := asList(value)
	if !ok {
		return ErrorCell(fmt.Sprintf("%v is not a list", value))
	}
	display := make([]string, 0, len(list))
	for _, item := range list {
		display = append(display, fmt.Sprint(item))
	}
	return Cell{Kind: CellKindList, List: list, Display: strings.Join(display, ", ")}
}

func (c *listColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.List
}

// jsonColumn renders JSON documents, stored in serialized form. String
// input must itself be valid JSON; other values are serialized.
type jsonColumn struct {
	props ColumnProps
}

func newJSONColumn(props ColumnProps) Column {
	return &jsonColumn{props: props}
}

func (c *jsonColumn) Kind() string       { return "json" }
func (c *jsonColumn) Props() ColumnProps { return c.props }

func (c *jsonColumn) ValidateInput(value any) ValidationResult {
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	if s, ok := value.(string); ok {
		if !json.Valid([]byte(s)) {
			return Reject("value is not valid JSON")
		}
		return Accept()
	}
	serialized, err := json.Marshal(value)
	if err != nil {
		return Reject(fmt.Sprintf("value is not serializable: %v", err))
	}
	return Correct(string(serialized))
}

func (c *jsonColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(CellKindJSON)
	}
	if validate {
		res := c.ValidateInput(value)
		if !res.Valid {
			return ErrorCell(res.Reason)
		}
		if res.HasCorrection {
			value = res.Corrected
		}
	}
	s, ok := value.(string)
	if !ok {
		serialized, err := json.Marshal(value)
		if err != nil {
			return ErrorCell(fmt.Sprintf("value is not serializable: %v", err))
		}
		s = string(serialized)
	}
	return Cell{Kind: CellKindJSON, Text: s, Display: s}
}

func (c *jsonColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Text
}

// imageColumn renders image URLs or data URIs. Display-only.
type imageColumn struct {
	props ColumnProps
}

func newImageColumn(props ColumnProps) Column {
	return &imageColumn{props: props}
}

func (c *imageColumn) Kind() string       { return "image" }
func (c *imageColumn) Props() ColumnProps { return c.props }

func (c *imageColumn) ValidateInput(value any) ValidationResult {
	return Reject("image cells are read-only")
}

func (c *imageColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		return MissingCell(CellKindImage)
	}
	if validate {
		if res := c.ValidateInput(value); !res.Valid {
			return ErrorCell(res.Reason)
		}
	}
	s := asString(value)
	return Cell{Kind: CellKindImage, Text: s, Display: s}
}

func (c *imageColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Text
}

// asList normalizes slice-shaped values to []any.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, true
	case []int64:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}
