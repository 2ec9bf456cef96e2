// Package dataframe maps columnar, typed source tables into an editable
// grid: a registry of column-type constructors producing grid cells with
// per-cell validation and type coercion, plus an overlay of pending edits
// kept apart from the immutable source table.
package dataframe

import "time"

// CellKind identifies the grid-renderable shape of a cell.
type CellKind string

const (
	CellKindText     CellKind = "text"
	CellKindNumber   CellKind = "number"
	CellKindCheckbox CellKind = "checkbox"
	CellKindDatetime CellKind = "datetime"
	CellKindLink     CellKind = "link"
	CellKindSelect   CellKind = "select"
	CellKindList     CellKind = "list"
	CellKindJSON     CellKind = "json"
	CellKindImage    CellKind = "image"
	CellKindProgress CellKind = "progress"
	CellKindObject   CellKind = "object"
	CellKindError    CellKind = "error"
)

// Cell is one grid-renderable unit: a raw value plus display metadata.
// Which payload field is meaningful depends on Kind. Error cells carry a
// human-readable reason instead of a value; the grid renders them inline
// rather than crashing the render loop.
type Cell struct {
	Kind    CellKind
	Missing bool

	Bool   bool
	Number float64
	Text   string
	Time   time.Time
	List   []any

	// Display is the formatted string used for rendering and clipboard
	// copy-out. For datetime cells it carries the timezone-adjusted form;
	// the stored instant in Time stays UTC.
	Display string

	// ErrorReason is set for CellKindError cells only.
	ErrorReason string
}

// ErrorCell builds a cell representing a rejected value or a broken column
// configuration.
func ErrorCell(reason string) Cell {
	return Cell{Kind: CellKindError, ErrorReason: reason, Display: "⚠ " + reason}
}

// MissingCell builds an empty cell of the given kind.
func MissingCell(kind CellKind) Cell {
	return Cell{Kind: kind, Missing: true}
}

// IsError reports whether the cell is an error marker.
func (c Cell) IsError() bool {
	return c.Kind == CellKindError
}

// ValidationResult is the outcome of validating a candidate cell value:
// exactly one of accepted, rejected (with a reason), or corrected (the
// caller must commit the replacement value instead).
type ValidationResult struct {
	Valid         bool
	Reason        string
	Corrected     any
	HasCorrection bool
}

// Accept marks the value valid as-is.
func Accept() ValidationResult {
	return ValidationResult{Valid: true}
}

// Reject marks the value invalid; the caller must not commit it.
func Reject(reason string) ValidationResult {
	return ValidationResult{Reason: reason}
}

// Correct marks the value valid after replacement, e.g. a string truncated
// to a configured length.
func Correct(value any) ValidationResult {
	return ValidationResult{Valid: true, Corrected: value, HasCorrection: true}
}
