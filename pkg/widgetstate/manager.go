package widgetstate

import (
	"reflect"
	"sync"

	"github.com/loomhq/loom/pkg/logging"
	"github.com/loomhq/loom/pkg/types"
)

// Props carries the effects a Manager fires into the rest of the session.
// Both callbacks are invoked outside the manager's lock, so they may call
// back into the manager freely.
type Props struct {
	// SendRerunRequest pushes the current widget states to the backend.
	SendRerunRequest func(types.RerunRequest)

	// FormsDataChanged broadcasts a fresh FormsData snapshot whenever any
	// form-derived fact changes.
	FormsDataChanged func(FormsData)

	// Logger is optional; a discard logger is used when nil.
	Logger *logging.Logger
}

// Manager is the façade all UI components use to read and write widget
// values. It owns the top-level dictionary, one private dictionary per form,
// and the commit routing between them:
//
//   - a user-driven set on a top-level widget immediately pushes all
//     top-level states to the backend;
//   - a set on a form widget only buffers locally, and the form flushes
//     atomically on SubmitForm.
type Manager struct {
	mu       sync.Mutex
	topLevel *Dictionary
	forms    *formManager
	defaults map[string]WidgetValue
	lastData FormsData

	sendRerun   func(types.RerunRequest)
	dataChanged func(FormsData)
	logger      *logging.Logger
}

// NewManager creates a manager with the given effect callbacks. One Manager
// exists per session.
func NewManager(props Props) *Manager {
	logger := props.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		topLevel:    NewDictionary(),
		forms:       newFormManager(),
		defaults:    make(map[string]WidgetValue),
		sendRerun:   props.SendRerunRequest,
		dataChanged: props.FormsDataChanged,
		logger:      logger,
	}
}

// getValue looks up a widget's value in the top-level dictionary first,
// then in every form dictionary. A stored value with a different kind than
// requested is a protocol-version defect and panics (inside Dictionary the
// same invariant guards writes).
func (m *Manager) getValue(widgetID string, kind types.ValueKind) (WidgetValue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.topLevel.Get(widgetID)
	if !ok {
		for _, f := range m.forms.forms {
			if v, ok = f.dict.Get(widgetID); ok {
				break
			}
		}
	}
	if !ok {
		return WidgetValue{}, false
	}
	if v.Kind != kind {
		panic("widgetstate: requested kind " + string(kind) + " for widget " + widgetID +
			" but stored kind is " + string(v.Kind))
	}
	return v, true
}

// setValue routes a value write according to the widget's form membership;
// see the Manager doc comment for the commit model.
func (m *Manager) setValue(info types.WidgetInfo, value WidgetValue, source types.Source) {
	var (
		push      *types.RerunRequest
		broadcast *FormsData
	)

	m.mu.Lock()
	if info.FormID == "" {
		m.topLevel.Set(info.ID, value)
		if source.FromUI {
			push = &types.RerunRequest{WidgetStates: m.topLevel.EncodeAll()}
		}
	} else {
		m.forms.form(info.FormID).dict.Set(info.ID, value)
		broadcast = m.recomputeFormsDataLocked()
	}
	m.mu.Unlock()

	if push != nil {
		m.sendRerun(*push)
	}
	if broadcast != nil {
		m.dataChanged(*broadcast)
	}
}

// recomputeFormsDataLocked returns a fresh snapshot when the derived facts
// differ from the last broadcast one, or nil when nothing changed. Caller
// must hold m.mu.
func (m *Manager) recomputeFormsDataLocked() *FormsData {
	data := m.forms.snapshot()
	if reflect.DeepEqual(data, m.lastData) {
		return nil
	}
	m.lastData = data
	return &data
}

// GetBoolValue returns the stored bool value for a widget ID.
func (m *Manager) GetBoolValue(widgetID string) (bool, bool) {
	v, ok := m.getValue(widgetID, types.KindBool)
	return v.Bool, ok
}

// SetBoolValue stores a bool value.
func (m *Manager) SetBoolValue(info types.WidgetInfo, value bool, source types.Source) {
	m.setValue(info, BoolValue(value), source)
}

// GetIntValue returns the stored int value for a widget ID.
func (m *Manager) GetIntValue(widgetID string) (int64, bool) {
	v, ok := m.getValue(widgetID, types.KindInt)
	return v.Int, ok
}

// SetIntValue stores an int value.
func (m *Manager) SetIntValue(info types.WidgetInfo, value int64, source types.Source) {
	m.setValue(info, IntValue(value), source)
}

// GetDoubleValue returns the stored double value for a widget ID.
func (m *Manager) GetDoubleValue(widgetID string) (float64, bool) {
	v, ok := m.getValue(widgetID, types.KindDouble)
	return v.Double, ok
}

// SetDoubleValue stores a double value.
func (m *Manager) SetDoubleValue(info types.WidgetInfo, value float64, source types.Source) {
	m.setValue(info, DoubleValue(value), source)
}

// GetStringValue returns the stored string value for a widget ID.
func (m *Manager) GetStringValue(widgetID string) (string, bool) {
	v, ok := m.getValue(widgetID, types.KindString)
	return v.Str, ok
}

// SetStringValue stores a string value.
func (m *Manager) SetStringValue(info types.WidgetInfo, value string, source types.Source) {
	m.setValue(info, StringValue(value), source)
}

// GetStringArrayValue returns the stored string-array value for a widget ID.
func (m *Manager) GetStringArrayValue(widgetID string) ([]string, bool) {
	v, ok := m.getValue(widgetID, types.KindStringArray)
	return v.StringArray, ok
}

// SetStringArrayValue stores a string-array value.
func (m *Manager) SetStringArrayValue(info types.WidgetInfo, value []string, source types.Source) {
	m.setValue(info, StringArrayValue(value), source)
}

// GetDoubleArrayValue returns the stored double-array value for a widget ID.
func (m *Manager) GetDoubleArrayValue(widgetID string) ([]float64, bool) {
	v, ok := m.getValue(widgetID, types.KindDoubleArray)
	return v.DoubleArray, ok
}

// SetDoubleArrayValue stores a double-array value.
func (m *Manager) SetDoubleArrayValue(info types.WidgetInfo, value []float64, source types.Source) {
	m.setValue(info, DoubleArrayValue(value), source)
}

// GetIntArrayValue returns the stored int-array value for a widget ID.
func (m *Manager) GetIntArrayValue(widgetID string) ([]int64, bool) {
	v, ok := m.getValue(widgetID, types.KindIntArray)
	return v.IntArray, ok
}

// SetIntArrayValue stores an int-array value.
func (m *Manager) SetIntArrayValue(info types.WidgetInfo, value []int64, source types.Source) {
	m.setValue(info, IntArrayValue(value), source)
}

// GetJSONValue returns the stored serialized-JSON value for a widget ID.
func (m *Manager) GetJSONValue(widgetID string) (string, bool) {
	v, ok := m.getValue(widgetID, types.KindJSON)
	return v.JSON, ok
}

// SetJSONValue stores a serialized-JSON value.
func (m *Manager) SetJSONValue(info types.WidgetInfo, value string, source types.Source) {
	m.setValue(info, JSONValue(value), source)
}

// GetArrowValue returns the stored Arrow IPC payload for a widget ID.
func (m *Manager) GetArrowValue(widgetID string) ([]byte, bool) {
	v, ok := m.getValue(widgetID, types.KindArrowTable)
	return v.Arrow, ok
}

// SetArrowValue stores an Arrow IPC payload.
func (m *Manager) SetArrowValue(info types.WidgetInfo, value []byte, source types.Source) {
	m.setValue(info, ArrowValue(value), source)
}

// GetBytesValue returns the stored byte buffer for a widget ID.
func (m *Manager) GetBytesValue(widgetID string) ([]byte, bool) {
	v, ok := m.getValue(widgetID, types.KindBytes)
	return v.Bytes, ok
}

// SetBytesValue stores a byte buffer.
func (m *Manager) SetBytesValue(info types.WidgetInfo, value []byte, source types.Source) {
	m.setValue(info, BytesValue(value), source)
}

// GetFileUploaderState returns the stored uploader record set for a widget ID.
func (m *Manager) GetFileUploaderState(widgetID string) (*types.FileUploaderState, bool) {
	v, ok := m.getValue(widgetID, types.KindFileUploaderState)
	return v.FileUploader, ok
}

// SetFileUploaderState stores an uploader record set.
func (m *Manager) SetFileUploaderState(info types.WidgetInfo, value *types.FileUploaderState, source types.Source) {
	m.setValue(info, FileUploaderValue(value), source)
}

// GetTriggerValue returns the stored trigger value. Triggers read back false
// except in the instant between SetTriggerValue storing true and resetting.
func (m *Manager) GetTriggerValue(widgetID string) (bool, bool) {
	v, ok := m.getValue(widgetID, types.KindTrigger)
	return v.Bool, ok
}

// SetTriggerValue pulses a trigger widget: the stored value flips to true,
// exactly one rerun request carrying the true pulse is sent, and the value
// resets to false locally with no second round-trip.
func (m *Manager) SetTriggerValue(info types.WidgetInfo, source types.Source) {
	m.mu.Lock()
	m.topLevel.Set(info.ID, TriggerValue(true))
	req := types.RerunRequest{WidgetStates: m.topLevel.EncodeAll()}
	m.topLevel.Set(info.ID, TriggerValue(false))
	m.mu.Unlock()

	if source.FromUI {
		m.sendRerun(req)
	}
}

// SetFormClearOnSubmit records a form's clear-on-submit flag. The flag is
// set once per session by the form container on mount; repeating the same
// value is idempotent and a conflicting value keeps the first.
func (m *Manager) SetFormClearOnSubmit(formID string, clearOnSubmit bool) {
	m.mu.Lock()
	accepted := m.forms.setClearOnSubmit(formID, clearOnSubmit)
	m.mu.Unlock()

	if !accepted {
		m.logger.Warnf("form %q: conflicting clearOnSubmit=%v ignored, keeping first registration",
			formID, clearOnSubmit)
	}
}

// SetWidgetDefault registers the value a widget reverts to when its form is
// cleared on submit.
func (m *Manager) SetWidgetDefault(info types.WidgetInfo, value WidgetValue) {
	m.mu.Lock()
	m.defaults[info.ID] = value
	m.mu.Unlock()
}

// AddFormClearedListener registers a callback invoked after the form's
// dictionary has been cleared on submit, so widgets can reset local UI
// state. The returned disposer is safe to call more than once and safe to
// add/remove repeatedly across remounts.
func (m *Manager) AddFormClearedListener(formID string, fn func()) func() {
	m.mu.Lock()
	token := m.forms.addListener(formID, fn)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		m.forms.removeListener(formID, token)
		m.mu.Unlock()
	}
}

// AddSubmitButton registers one submit button for a form and broadcasts the
// updated FormsData.
func (m *Manager) AddSubmitButton(formID string) {
	m.mu.Lock()
	m.forms.addSubmitButton(formID)
	broadcast := m.recomputeFormsDataLocked()
	m.mu.Unlock()

	if broadcast != nil {
		m.dataChanged(*broadcast)
	}
}

// RemoveSubmitButton unregisters one submit button for a form. The count
// going negative panics; that means add/remove calls were not paired.
func (m *Manager) RemoveSubmitButton(formID string) {
	m.mu.Lock()
	m.forms.removeSubmitButton(formID)
	broadcast := m.recomputeFormsDataLocked()
	m.mu.Unlock()

	if broadcast != nil {
		m.dataChanged(*broadcast)
	}
}

// SetFormsWithUploads replaces the set of forms with in-progress uploads
// wholesale and broadcasts the updated FormsData.
func (m *Manager) SetFormsWithUploads(formIDs []string) {
	m.mu.Lock()
	m.forms.setFormsWithUploads(formIDs)
	broadcast := m.recomputeFormsDataLocked()
	m.mu.Unlock()

	if broadcast != nil {
		m.dataChanged(*broadcast)
	}
}

// FormsData returns the current derived snapshot without broadcasting.
func (m *Manager) FormsData() FormsData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forms.snapshot()
}

// SubmitForm flushes a form: one rerun request is sent carrying all
// top-level states plus the form's buffered states, tagged with the
// submitting button's trigger pulse so the backend can tell which button
// fired. If the form was registered clear-on-submit, the form dictionary is
// reset to registered widget defaults before the cleared listeners run;
// listeners fire outside the lock so they may safely set values again.
func (m *Manager) SubmitForm(formID, fragmentID string, submitter *types.WidgetInfo) {
	var listeners []func()

	m.mu.Lock()
	f := m.forms.form(formID)

	states := m.topLevel.EncodeAll()
	states = append(states, f.dict.EncodeAll()...)
	if submitter != nil {
		states = append(states, TriggerValue(true).Encode(submitter.ID))
	}
	req := types.RerunRequest{WidgetStates: states, FragmentID: fragmentID}

	if f.clearOnSubmit {
		for _, id := range f.dict.IDs() {
			if def, ok := m.defaults[id]; ok {
				f.dict.Set(id, def)
			} else {
				f.dict.Delete(id)
			}
		}
		listeners = m.forms.listenersFor(formID)
	}
	broadcast := m.recomputeFormsDataLocked()
	m.mu.Unlock()

	m.sendRerun(req)
	for _, fn := range listeners {
		fn()
	}
	if broadcast != nil {
		m.dataChanged(*broadcast)
	}
}

// RemoveInactive drops state for widgets no longer active after a rerun,
// across the top-level dictionary, every form dictionary, and the defaults.
func (m *Manager) RemoveInactive(activeIDs map[string]bool) {
	m.mu.Lock()
	removed := m.topLevel.RemoveInactive(activeIDs)
	for _, f := range m.forms.forms {
		removed = append(removed, f.dict.RemoveInactive(activeIDs)...)
	}
	for id := range m.defaults {
		if !activeIDs[id] {
			delete(m.defaults, id)
		}
	}
	broadcast := m.recomputeFormsDataLocked()
	m.mu.Unlock()

	if len(removed) > 0 {
		m.logger.Debugf("removed %d inactive widget states", len(removed))
	}
	if broadcast != nil {
		m.dataChanged(*broadcast)
	}
}

// EncodeTopLevel serializes the top-level dictionary; this is the payload of
// every non-form rerun request.
func (m *Manager) EncodeTopLevel() []types.WidgetState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.topLevel.EncodeAll()
}
