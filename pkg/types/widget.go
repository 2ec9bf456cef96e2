// Package types defines the wire-level data model shared by the Loom client
// runtime: widget identity and value records, rerun requests, and the tagged
// message unions exchanged with an embedding host page.
package types

// ValueKind identifies which variant of a widget value is populated.
type ValueKind string

const (
	KindTrigger           ValueKind = "trigger"             // KindTrigger is a fire-once boolean pulse.
	KindBool              ValueKind = "bool"                // KindBool is a plain boolean value.
	KindInt               ValueKind = "int"                 // KindInt is a 64-bit integer value.
	KindDouble            ValueKind = "double"              // KindDouble is a 64-bit float value.
	KindString            ValueKind = "string"              // KindString is a string value.
	KindStringArray       ValueKind = "string_array"        // KindStringArray is an ordered list of strings.
	KindDoubleArray       ValueKind = "double_array"        // KindDoubleArray is an ordered list of floats.
	KindIntArray          ValueKind = "int_array"           // KindIntArray is an ordered list of integers.
	KindJSON              ValueKind = "json"                // KindJSON is an opaque JSON document, stored serialized.
	KindArrowTable        ValueKind = "arrow_table"         // KindArrowTable is an Arrow IPC payload.
	KindBytes             ValueKind = "bytes"               // KindBytes is a raw byte buffer.
	KindFileUploaderState ValueKind = "file_uploader_state" // KindFileUploaderState is the file-uploader record set.
)

// WidgetInfo identifies one widget instance as assigned by the backend.
// FormID is empty for widgets outside any form.
type WidgetInfo struct {
	ID     string
	FormID string
}

// Source describes where a value-set originated. FromUI distinguishes a
// user-driven change (which may push state to the backend) from a
// programmatic or initial set (which never does).
type Source struct {
	FromUI bool
}

// UploadedFileInfo describes one file the uploader widget has accepted.
type UploadedFileInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FileUploaderState is the value carried by a file-uploader widget.
type FileUploaderState struct {
	MaxFileID     int64              `json:"maxFileId"`
	UploadedFiles []UploadedFileInfo `json:"uploadedFileInfo"`
}

// WidgetState is the wire record for one widget's current value. Exactly one
// of the value fields is populated, matching the widget's ValueKind.
type WidgetState struct {
	ID string `json:"id"`

	TriggerValue           *bool              `json:"triggerValue,omitempty"`
	BoolValue              *bool              `json:"boolValue,omitempty"`
	IntValue               *int64             `json:"intValue,omitempty"`
	DoubleValue            *float64           `json:"doubleValue,omitempty"`
	StringValue            *string            `json:"stringValue,omitempty"`
	StringArrayValue       []string           `json:"stringArrayValue,omitempty"`
	DoubleArrayValue       []float64          `json:"doubleArrayValue,omitempty"`
	IntArrayValue          []int64            `json:"intArrayValue,omitempty"`
	JSONValue              *string            `json:"jsonValue,omitempty"`
	ArrowValue             []byte             `json:"arrowValue,omitempty"`
	BytesValue             []byte             `json:"bytesValue,omitempty"`
	FileUploaderStateValue *FileUploaderState `json:"fileUploaderStateValue,omitempty"`
}

// RerunRequest asks the backend to re-execute application logic with the
// current widget values. PageScriptHash targets a specific page and
// FragmentID narrows the rerun to a fragment; both are optional.
type RerunRequest struct {
	WidgetStates   []WidgetState `json:"widgetStates"`
	PageScriptHash string        `json:"pageScriptHash,omitempty"`
	FragmentID     string        `json:"fragmentId,omitempty"`
	QueryParams    string        `json:"queryParams,omitempty"`
}
