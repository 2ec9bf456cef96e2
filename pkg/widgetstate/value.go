// Package widgetstate holds the canonical value of every interactive widget
// in a Loom session, serializes those values into wire records, and enforces
// the two-tier commit model: top-level widgets push to the backend on every
// user change, form widgets buffer locally until an explicit submit.
package widgetstate

import (
	"fmt"

	"github.com/loomhq/loom/pkg/types"
)

// WidgetValue is the in-memory tagged union for one widget's value. Kind
// selects which payload field is meaningful.
type WidgetValue struct {
	Kind types.ValueKind

	Bool         bool
	Int          int64
	Double       float64
	Str          string
	StringArray  []string
	DoubleArray  []float64
	IntArray     []int64
	JSON         string
	Arrow        []byte
	Bytes        []byte
	FileUploader *types.FileUploaderState
}

// TriggerValue builds a trigger-kind value.
func TriggerValue(v bool) WidgetValue {
	return WidgetValue{Kind: types.KindTrigger, Bool: v}
}

// BoolValue builds a bool-kind value.
func BoolValue(v bool) WidgetValue {
	return WidgetValue{Kind: types.KindBool, Bool: v}
}

// IntValue builds an int-kind value.
func IntValue(v int64) WidgetValue {
	return WidgetValue{Kind: types.KindInt, Int: v}
}

// DoubleValue builds a double-kind value.
func DoubleValue(v float64) WidgetValue {
	return WidgetValue{Kind: types.KindDouble, Double: v}
}

// StringValue builds a string-kind value.
func StringValue(v string) WidgetValue {
	return WidgetValue{Kind: types.KindString, Str: v}
}

// StringArrayValue builds a string-array-kind value.
func StringArrayValue(v []string) WidgetValue {
	return WidgetValue{Kind: types.KindStringArray, StringArray: v}
}

// DoubleArrayValue builds a double-array-kind value.
func DoubleArrayValue(v []float64) WidgetValue {
	return WidgetValue{Kind: types.KindDoubleArray, DoubleArray: v}
}

// IntArrayValue builds an int-array-kind value.
func IntArrayValue(v []int64) WidgetValue {
	return WidgetValue{Kind: types.KindIntArray, IntArray: v}
}

// JSONValue builds a json-kind value from an already-serialized document.
func JSONValue(v string) WidgetValue {
	return WidgetValue{Kind: types.KindJSON, JSON: v}
}

// ArrowValue builds an arrow-table-kind value from an Arrow IPC payload.
func ArrowValue(v []byte) WidgetValue {
	return WidgetValue{Kind: types.KindArrowTable, Arrow: v}
}

// BytesValue builds a bytes-kind value.
func BytesValue(v []byte) WidgetValue {
	return WidgetValue{Kind: types.KindBytes, Bytes: v}
}

// FileUploaderValue builds a file-uploader-state-kind value.
func FileUploaderValue(v *types.FileUploaderState) WidgetValue {
	return WidgetValue{Kind: types.KindFileUploaderState, FileUploader: v}
}

// Encode converts the value into the wire record for the given widget ID.
func (v WidgetValue) Encode(widgetID string) types.WidgetState {
	state := types.WidgetState{ID: widgetID}

	switch v.Kind {
	case types.KindTrigger:
		b := v.Bool
		state.TriggerValue = &b
	case types.KindBool:
		b := v.Bool
		state.BoolValue = &b
	case types.KindInt:
		n := v.Int
		state.IntValue = &n
	case types.KindDouble:
		d := v.Double
		state.DoubleValue = &d
	case types.KindString:
		s := v.Str
		state.StringValue = &s
	case types.KindStringArray:
		state.StringArrayValue = append([]string(nil), v.StringArray...)
	case types.KindDoubleArray:
		state.DoubleArrayValue = append([]float64(nil), v.DoubleArray...)
	case types.KindIntArray:
		state.IntArrayValue = append([]int64(nil), v.IntArray...)
	case types.KindJSON:
		s := v.JSON
		state.JSONValue = &s
	case types.KindArrowTable:
		state.ArrowValue = append([]byte(nil), v.Arrow...)
	case types.KindBytes:
		state.BytesValue = append([]byte(nil), v.Bytes...)
	case types.KindFileUploaderState:
		state.FileUploaderStateValue = v.FileUploader
	default:
		panic(fmt.Sprintf("widgetstate: cannot encode unknown value kind %q", v.Kind))
	}

	return state
}

// Decode converts a wire record back into a WidgetValue. It returns an error
// if the record populates zero or more than one value field; that indicates
// a malformed message, not a programming error on this side.
func Decode(state types.WidgetState) (WidgetValue, error) {
	var decoded *WidgetValue

	set := func(v WidgetValue) error {
		if decoded != nil {
			return fmt.Errorf("widget state %q populates multiple value kinds (%s and %s)",
				state.ID, decoded.Kind, v.Kind)
		}
		decoded = &v
		return nil
	}

	if state.TriggerValue != nil {
		if err := set(TriggerValue(*state.TriggerValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.BoolValue != nil {
		if err := set(BoolValue(*state.BoolValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.IntValue != nil {
		if err := set(IntValue(*state.IntValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.DoubleValue != nil {
		if err := set(DoubleValue(*state.DoubleValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.StringValue != nil {
		if err := set(StringValue(*state.StringValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.StringArrayValue != nil {
		if err := set(StringArrayValue(state.StringArrayValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.DoubleArrayValue != nil {
		if err := set(DoubleArrayValue(state.DoubleArrayValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.IntArrayValue != nil {
		if err := set(IntArrayValue(state.IntArrayValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.JSONValue != nil {
		if err := set(JSONValue(*state.JSONValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.ArrowValue != nil {
		if err := set(ArrowValue(state.ArrowValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.BytesValue != nil {
		if err := set(BytesValue(state.BytesValue)); err != nil {
			return WidgetValue{}, err
		}
	}
	if state.FileUploaderStateValue != nil {
		if err := set(FileUploaderValue(state.FileUploaderStateValue)); err != nil {
			return WidgetValue{}, err
		}
	}

	if decoded == nil {
		return WidgetValue{}, fmt.Errorf("widget state %q populates no value kind", state.ID)
	}
	return *decoded, nil
}
