package dataframe

import (
	"fmt"
	"strconv"
	"strings"
)

// Column width presets supplied by column configuration.
const (
	WidthSmallPx  = 75
	WidthMediumPx = 200
	WidthLargePx  = 400
)

// ColumnProps is the static description of one grid column, derived once
// per source column and then frozen.
type ColumnProps struct {
	// ID is a stable identifier for the column within its grid.
	ID string

	// Name is the source column name; Title is the display title and
	// defaults to Name.
	Name  string
	Title string

	// Index is the column's position in the source table.
	Index int

	// ArrowType is the source column's arrow type tag, e.g. "int64".
	ArrowType string

	Editable    bool
	Hidden      bool
	IsIndex     bool
	IsStretched bool
	Required    bool

	// Default is the value used for this column in newly appended rows.
	Default any

	// Width is the fixed pixel width, 0 meaning auto.
	Width int

	Help      string
	Alignment string

	// TypeOptions carries column-type-specific settings, merged in
	// precedence order: built-in defaults, then arrow-type-inferred
	// defaults, then backend-supplied overrides.
	TypeOptions map[string]any
}

// Column turns raw source values into grid cells and back. Implementations
// must uphold the round-trip law (GetCellValue(GetCell(v)) is value-equal
// to v for every v their ValidateInput accepts) and must return an error
// cell, never panic, on invalid input.
type Column interface {
	// Kind returns the column-type tag, e.g. "number".
	Kind() string

	// Props returns the column's static description.
	Props() ColumnProps

	// GetCell converts a raw value into a cell. With validate set, the
	// value passes through ValidateInput first and a rejection produces
	// an error cell carrying the reason.
	GetCell(value any, validate bool) Cell

	// GetCellValue extracts the committed value from a cell; nil for
	// missing and error cells.
	GetCellValue(cell Cell) any

	// ValidateInput checks a candidate value: accepted, rejected, or
	// corrected to a replacement.
	ValidateInput(value any) ValidationResult
}

// CreateColumnFn constructs a column instance from its props.
type CreateColumnFn func(props ColumnProps) Column

var columnRegistry = map[string]CreateColumnFn{}

// RegisterColumnType adds a constructor to the registry, replacing any
// previous registration for the same kind.
func RegisterColumnType(kind string, create CreateColumnFn) {
	columnRegistry[kind] = create
}

// CreateColumn instantiates a column of the given kind. Unknown kinds fall
// back to the object column so a bad type override degrades instead of
// failing the table.
func CreateColumn(kind string, props ColumnProps) Column {
	if create, ok := columnRegistry[kind]; ok {
		return create(props)
	}
	return newObjectColumn(props)
}

// ColumnKindFromArrowType maps an arrow type tag to the default column
// kind used when no explicit type override is configured.
func ColumnKindFromArrowType(arrowType string) string {
	switch arrowType {
	case "utf8", "large_utf8":
		return "text"
	case "int8", "int16", "int32", "int64",
		"uint8", "uint16", "uint32", "uint64",
		"float16", "float32", "float64", "decimal", "decimal128", "decimal256":
		return "number"
	case "bool":
		return "checkbox"
	case "timestamp":
		return "datetime"
	case "date32", "date64":
		return "date"
	case "time32", "time64":
		return "time"
	case "list", "large_list", "fixed_size_list":
		return "list"
	case "struct", "map":
		return "json"
	default:
		return "object"
	}
}

// NewColumnFromProps instantiates the column for a source column: the type
// override in props wins, otherwise the kind is inferred from the arrow
// type tag.
func NewColumnFromProps(props ColumnProps, typeOverride string) Column {
	kind := typeOverride
	if kind == "" {
		kind = ColumnKindFromArrowType(props.ArrowType)
	}
	return CreateColumn(kind, props)
}

// requiredCheck applies the shared missing-value policy: a nil value is
// rejected when the column is required, accepted as missing otherwise.
// The second return is true when the caller should use the result as-is.
func requiredCheck(props ColumnProps, value any) (ValidationResult, bool) {
	if value == nil {
		if props.Required {
			return Reject("value is required"), true
		}
		return Accept(), true
	}
	return ValidationResult{}, false
}

// option accessors shared by the column implementations

func optFloat(opts map[string]any, key string) (float64, bool) {
	v, ok := opts[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func optInt(opts map[string]any, key string) (int, bool) {
	f, ok := optFloat(opts, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func optString(opts map[string]any, key string) (string, bool) {
	v, ok := opts[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func optStrings(opts map[string]any, key string) ([]string, bool) {
	v, ok := opts[key]
	if !ok || v == nil {
		return nil, false
	}
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	default:
		return nil, false
	}
}

// asString coerces a raw source value to a string for the text-shaped
// columns.
func asString(value any) string {
	switch s := value.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(value)
	}
}

// asFloat coerces a raw source value to a float for the number-shaped
// columns.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
