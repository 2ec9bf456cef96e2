package dataframe

import (
	"fmt"
	"math"
	"strconv"
)

func init() {
	RegisterColumnType("number", newNumberColumn)
	RegisterColumnType("checkbox", newCheckboxColumn)
	RegisterColumnType("progress", newProgressColumn)
}

// numberColumn renders and edits numeric values with optional min/max
// bounds, step-based rounding, and a printf-style display format.
type numberColumn struct {
	props  ColumnProps
	min    float64
	hasMin bool
	max    float64
	hasMax bool
	step   float64
	format string
}

func newNumberColumn(props ColumnProps) Column {
	c := &numberColumn{props: props}
	c.min, c.hasMin = optFloat(props.TypeOptions, "min_value")
	c.max, c.hasMax = optFloat(props.TypeOptions, "max_value")
	c.step, _ = optFloat(props.TypeOptions, "step")
	c.format, _ = optString(props.TypeOptions, "format")
	if c.step == 0 {
		// Integer-tagged arrow columns round to whole numbers by default.
		switch props.ArrowType {
		case "int8", "int16", "int32", "int64",
			"uint8", "uint16", "uint32", "uint64":
			c.step = 1
		}
	}
	return c
}

func (c *numberColumn) Kind() string       { return "number" }
func (c *numberColumn) Props() ColumnProps { return c.props }

func (c *numberColumn) ValidateInput(value any) ValidationResult {
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	f, ok := asFloat(value)
	if !ok {
		return Reject(fmt.Sprintf("%v is not a number", value))
	}

	corrected := f
	if c.hasMin && corrected < c.min {
		corrected = c.min
	}
	if c.hasMax && corrected > c.max {
		corrected = c.max
	}
	if c.step >= 1 {
		corrected = math.Round(corrected/c.step) * c.step
	}

	if corrected != f {
		return Correct(corrected)
	}
	return Accept()
}

func (c *numberColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(CellKindNumber)
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
	f, ok := asFloat(value)
	if !ok {
		return ErrorCell(fmt.Sprintf("%v is not a number", value))
	}
	return Cell{Kind: CellKindNumber, Number: f, Display: c.formatNumber(f)}
}

func (c *numberColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Number
}

func (c *numberColumn) formatNumber(f float64) string {
	if c.format != "" {
		return fmt.Sprintf(c.format, f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// checkboxColumn renders and edits boolean values. Strings and numbers
// coerce to booleans as corrections so pasted data commits cleanly.
type checkboxColumn struct {
	props ColumnProps
}

func newCheckboxColumn(props ColumnProps) Column {
	return &checkboxColumn{props: props}
}

func (c *checkboxColumn) Kind() string       { return "checkbox" }
func (c *checkboxColumn) Props() ColumnProps { return c.props }

func (c *checkboxColumn) ValidateInput(value any) ValidationResult {
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	switch v := value.(type) {
	case bool:
		return Accept()
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Reject(fmt.Sprintf("%q is not a boolean", v))
		}
		return Correct(parsed)
	default:
		if f, ok := asFloat(value); ok {
			return Correct(f != 0)
		}
		return Reject(fmt.Sprintf("%v is not a boolean", value))
	}
}

func (c *checkboxColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(CellKindCheckbox)
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
	b, ok := value.(bool)
	if !ok {
		if f, isNum := asFloat(value); isNum {
			b = f != 0
		} else {
			return ErrorCell(fmt.Sprintf("%v is not a boolean", value))
		}
	}
	return Cell{Kind: CellKindCheckbox, Bool: b, Display: strconv.FormatBool(b)}
}

func (c *checkboxColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Bool
}

// progressColumn renders a numeric value as a progress bar. It is
// display-only: edits are rejected outright.
type progressColumn struct {
	props  ColumnProps
	min    float64
	max    float64
	format string
}

func newProgressColumn(props ColumnProps) Column {
	c := &progressColumn{props: props, min: 0, max: 1}
	if v, ok := optFloat(props.TypeOptions, "min_value"); ok {
		c.min = v
	}
	if v, ok := optFloat(props.TypeOptions, "max_value"); ok {
		c.max = v
	}
	c.format, _ = optString(props.TypeOptions, "format")
	return c
}

func (c *progressColumn) Kind() string       { return "progress" }
func (c *progressColumn) Props() ColumnProps { return c.props }

func (c *progressColumn) ValidateInput(value any) ValidationResult {
	return Reject("progress cells are read-only")
}

func (c *progressColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		return MissingCell(CellKindProgress)
	}
	if validate {
		if res := c.ValidateInput(value); !res.Valid {
			return ErrorCell(res.Reason)
		}
	}
	f, ok := asFloat(value)
	if !ok {
		return ErrorCell(fmt.Sprintf("%v is not a number", value))
	}
	display := strconv.FormatFloat(f, 'f', -1, 64)
	if c.format != "" {
		display = fmt.Sprintf(c.format, f)
	}
	return Cell{Kind: CellKindProgress, Number: f, Display: display}
}

func (c *progressColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Number
}
