package dataframe

import (
	"fmt"
	"regexp"
)

func init() {
	RegisterColumnType("text", newTextColumn)
	RegisterColumnType("link", newLinkColumn)
	RegisterColumnType("selectbox", newSelectColumn)
}

// textColumn renders and edits free-form strings, optionally truncated to
// max_chars.
type textColumn struct {
	props    ColumnProps
	maxChars int
}

func newTextColumn(props ColumnProps) Column {
	maxChars, _ := optInt(props.TypeOptions, "max_chars")
	return &textColumn{props: props, maxChars: maxChars}
}

func (c *textColumn) Kind() string       { return "text" }
func (c *textColumn) Props() ColumnProps { return c.props }

func (c *textColumn) ValidateInput(value any) ValidationResult {
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	s := asString(value)
	if truncated, ok := truncateChars(s, c.maxChars); ok {
		return Correct(truncated)
	}
	return Accept()
}

func (c *textColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(CellKindText)
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
	s := asString(value)
	return Cell{Kind: CellKindText, Text: s, Display: s}
}

func (c *textColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Text
}

// linkColumn renders URI strings, optionally truncated to max_chars and
// checked against a validate regex. A regex that does not compile poisons
// the whole column: every cell becomes an error cell rather than the bad
// configuration crashing the grid.
type linkColumn struct {
	props     ColumnProps
	maxChars  int
	pattern   *regexp.Regexp
	configErr error
}

func newLinkColumn(props ColumnProps) Column {
	c := &linkColumn{props: props}
	c.maxChars, _ = optInt(props.TypeOptions, "max_chars")
	if raw, ok := optString(props.TypeOptions, "validate"); ok && raw != "" {
		pattern, err := regexp.Compile(raw)
		if err != nil {
			c.configErr = fmt.Errorf("invalid validate regex %q: %v", raw, err)
		} else {
			c.pattern = pattern
		}
	}
	return c
}

func (c *linkColumn) Kind() string       { return "link" }
func (c *linkColumn) Props() ColumnProps { return c.props }

func (c *linkColumn) ValidateInput(value any) ValidationResult {
	if c.configErr != nil {
		return Reject(c.configErr.Error())
	}
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	s := asString(value)
	truncated, didTruncate := truncateChars(s, c.maxChars)
	if didTruncate {
		s = truncated
	}
	if c.pattern != nil && !c.pattern.MatchString(s) {
		return Reject(fmt.Sprintf("value does not match %s", c.pattern.String()))
	}
	if didTruncate {
		return Correct(s)
	}
	return Accept()
}

func (c *linkColumn) GetCell(value any, validate bool) Cell {
	if c.configErr != nil {
		return ErrorCell(c.configErr.Error())
	}
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(CellKindLink)
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
	s := asString(value)
	return Cell{Kind: CellKindLink, Text: s, Display: s}
}

func (c *linkColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Text
}

// selectColumn renders one value out of a fixed option set (categorical
// data).
type selectColumn struct {
	props   ColumnProps
	options []string
}

func newSelectColumn(props ColumnProps) Column {
	options, _ := optStrings(props.TypeOptions, "options")
	return &selectColumn{props: props, options: options}
}

func (c *selectColumn) Kind() string       { return "selectbox" }
func (c *selectColumn) Props() ColumnProps { return c.props }

func (c *selectColumn) ValidateInput(value any) ValidationResult {
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	s := asString(value)
	if len(c.options) > 0 {
		for _, option := range c.options {
			if option == s {
				return Accept()
			}
		}
		return Reject(fmt.Sprintf("%q is not one of the available options", s))
	}
	return Accept()
}

func (c *selectColumn) GetCell(value any, validate bool) Cell {
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(CellKindSelect)
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
	s := asString(value)
	return Cell{Kind: CellKindSelect, Text: s, Display: s}
}

func (c *selectColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return cell.Text
}

// truncateChars cuts s to maxChars runes. The second return reports
// whether truncation happened.
func truncateChars(s string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s, false
	}
	return string(runes[:maxChars]), true
}
