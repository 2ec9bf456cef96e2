package dataframe

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func init() {
	RegisterColumnType("datetime", func(props ColumnProps) Column {
		return newDatetimeColumn(props, variantDatetime)
	})
	RegisterColumnType("date", func(props ColumnProps) Column {
		return newDatetimeColumn(props, variantDate)
	})
	RegisterColumnType("time", func(props ColumnProps) Column {
		return newDatetimeColumn(props, variantTime)
	})
}

type datetimeVariant int

const (
	variantDatetime datetimeVariant = iota
	variantDate
	variantTime
)

// canonicalLayout returns the fixed-width canonical ISO layout for the
// variant. Min/max windows compare canonical strings, not instants, so
// date-only, time-only, and full-timestamp columns each compare
// consistently within their own family.
func (v datetimeVariant) canonicalLayout() string {
	switch v {
	case variantDate:
		return "2006-01-02"
	case variantTime:
		return "15:04:05.000"
	default:
		return "2006-01-02T15:04:05.000Z"
	}
}

func (v datetimeVariant) cellKind() CellKind {
	// All three variants share the datetime cell shape; the canonical
	// string distinguishes them.
	return CellKindDatetime
}

func (v datetimeVariant) parseLayouts() []string {
	switch v {
	case variantDate:
		return []string{"2006-01-02", time.RFC3339Nano, time.RFC3339}
	case variantTime:
		return []string{"15:04:05.000", "15:04:05", "15:04"}
	default:
		return []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
	}
}

// datetimeColumn renders and edits temporal values. All stored instants are
// normalized to UTC; a configured timezone affects display and copy-out
// strings only.
type datetimeColumn struct {
	props   ColumnProps
	variant datetimeVariant

	min string // canonical form, "" when unset
	max string

	location  *time.Location
	format    string
	configErr error
}

func newDatetimeColumn(props ColumnProps, variant datetimeVariant) Column {
	c := &datetimeColumn{props: props, variant: variant}
	c.format, _ = optString(props.TypeOptions, "format")

	if name, ok := optString(props.TypeOptions, "timezone"); ok && name != "" {
		loc, err := parseTimezone(name)
		if err != nil {
			c.configErr = fmt.Errorf("invalid timezone %q: %v", name, err)
		} else {
			c.location = loc
		}
	}

	if c.configErr == nil {
		if raw, ok := optString(props.TypeOptions, "min_value"); ok && raw != "" {
			t, err := c.parse(raw)
			if err != nil {
				c.configErr = fmt.Errorf("invalid min_value %q: %v", raw, err)
			} else {
				c.min = c.canonical(t)
			}
		}
	}
	if c.configErr == nil {
		if raw, ok := optString(props.TypeOptions, "max_value"); ok && raw != "" {
			t, err := c.parse(raw)
			if err != nil {
				c.configErr = fmt.Errorf("invalid max_value %q: %v", raw, err)
			} else {
				c.max = c.canonical(t)
			}
		}
	}
	return c
}

func (c *datetimeColumn) Kind() string {
	switch c.variant {
	case variantDate:
		return "date"
	case variantTime:
		return "time"
	default:
		return "datetime"
	}
}

func (c *datetimeColumn) Props() ColumnProps { return c.props }

// parse coerces a raw value to a UTC instant.
func (c *datetimeColumn) parse(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		for _, layout := range c.variant.parseLayouts() {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable %s value", c.Kind())
	default:
		return time.Time{}, fmt.Errorf("unparseable %s value", c.Kind())
	}
}

func (c *datetimeColumn) canonical(t time.Time) string {
	return t.UTC().Format(c.variant.canonicalLayout())
}

// display formats the instant for rendering and copy-out, applying the
// configured timezone without touching the stored UTC value.
func (c *datetimeColumn) display(t time.Time) string {
	adjusted := t.UTC()
	if c.location != nil {
		adjusted = adjusted.In(c.location)
	}
	layout := c.variant.canonicalLayout()
	if c.location != nil && c.variant == variantDatetime {
		layout = "2006-01-02T15:04:05.000Z07:00"
	}
	if c.format != "" {
		layout = c.format
	}
	return adjusted.Format(layout)
}

func (c *datetimeColumn) ValidateInput(value any) ValidationResult {
	if c.configErr != nil {
		return Reject(c.configErr.Error())
	}
	if res, done := requiredCheck(c.props, value); done {
		return res
	}
	t, err := c.parse(value)
	if err != nil {
		return Reject(err.Error())
	}

	// Out-of-window values are rejected, never clamped.
	canonical := c.canonical(t)
	if c.min != "" && canonical < c.min {
		return Reject(fmt.Sprintf("value must not be before %s", c.min))
	}
	if c.max != "" && canonical > c.max {
		return Reject(fmt.Sprintf("value must not be after %s", c.max))
	}
	return Accept()
}

func (c *datetimeColumn) GetCell(value any, validate bool) Cell {
	if c.configErr != nil {
		return ErrorCell(c.configErr.Error())
	}
	if value == nil {
		if validate && c.props.Required {
			return ErrorCell("value is required")
		}
		return MissingCell(c.variant.cellKind())
	}
	if validate {
		if res := c.ValidateInput(value); !res.Valid {
			return ErrorCell(res.Reason)
		}
	}
	t, err := c.parse(value)
	if err != nil {
		return ErrorCell(err.Error())
	}
	return Cell{Kind: c.variant.cellKind(), Time: t.UTC(), Display: c.display(t)}
}

// GetCellValue returns the canonical UTC ISO string for the stored instant.
func (c *datetimeColumn) GetCellValue(cell Cell) any {
	if cell.Missing || cell.IsError() {
		return nil
	}
	return c.canonical(cell.Time)
}

// parseTimezone resolves either an IANA zone name or a fixed offset of the
// form "+05:30" / "-08:00".
func parseTimezone(name string) (*time.Location, error) {
	if strings.HasPrefix(name, "+") || strings.HasPrefix(name, "-") {
		offset, err := parseFixedOffset(name)
		if err != nil {
			return nil, err
		}
		return time.FixedZone("UTC"+name, offset), nil
	}
	return time.LoadLocation(name)
}

func parseFixedOffset(s string) (int, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := s[1:]
	parts := strings.SplitN(body, ":", 2)
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad offset hours")
	}
	minutes := 0
	if len(parts) == 2 {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("bad offset minutes")
		}
	}
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("offset out of range")
	}
	return sign * (hours*3600 + minutes*60), nil
}
