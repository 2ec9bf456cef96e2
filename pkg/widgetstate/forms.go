package widgetstate

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// FormsData is an immutable snapshot of form-derived facts. A fresh instance
// is produced and broadcast whenever any derived fact changes, so consumers
// can re-render off identity comparison.
type FormsData struct {
	// FormsWithPendingChanges lists forms holding uncommitted widget
	// values, sorted by form ID.
	FormsWithPendingChanges []string

	// FormsWithUploads lists forms with an in-progress file upload, sorted
	// by form ID.
	FormsWithUploads []string

	// SubmitButtonCounts maps form ID to the number of registered submit
	// buttons. A form with zero registered buttons is omitted.
	SubmitButtonCounts map[string]int
}

// HasPendingChanges reports whether the given form holds uncommitted values.
func (f FormsData) HasPendingChanges(formID string) bool {
	for _, id := range f.FormsWithPendingChanges {
		if id == formID {
			return true
		}
	}
	return false
}

// HasUpload reports whether the given form has an in-progress upload.
func (f FormsData) HasUpload(formID string) bool {
	for _, id := range f.FormsWithUploads {
		if id == formID {
			return true
		}
	}
	return false
}

// formState tracks everything the manager knows about one named form.
type formState struct {
	dict              *Dictionary
	clearOnSubmit     bool
	clearOnSubmitSet  bool
	listeners         map[string]func()
	submitButtonCount int
}

func newFormState() *formState {
	return &formState{
		dict:      NewDictionary(),
		listeners: make(map[string]func()),
	}
}

// formManager owns all formState records plus the wholesale-replaced set of
// forms with in-progress uploads.
type formManager struct {
	forms            map[string]*formState
	formsWithUploads map[string]bool
}

func newFormManager() *formManager {
	return &formManager{
		forms:            make(map[string]*formState),
		formsWithUploads: make(map[string]bool),
	}
}

// form returns the state for a form ID, creating it on first reference.
func (m *formManager) form(formID string) *formState {
	f, ok := m.forms[formID]
	if !ok {
		f = newFormState()
		m.forms[formID] = f
	}
	return f
}

// setClearOnSubmit records the form's clear-on-submit flag. The flag is
// set-once: repeating the same value is a no-op, a conflicting value keeps
// the first and reports false so the caller can log it.
func (m *formManager) setClearOnSubmit(formID string, clearOnSubmit bool) bool {
	f := m.form(formID)
	if f.clearOnSubmitSet {
		return f.clearOnSubmit == clearOnSubmit
	}
	f.clearOnSubmit = clearOnSubmit
	f.clearOnSubmitSet = true
	return true
}

// addSubmitButton increments the form's registered submit-button count.
func (m *formManager) addSubmitButton(formID string) {
	m.form(formID).submitButtonCount++
}

// removeSubmitButton decrements the count. A negative count means paired
// add/remove calls were violated, which is a programming error.
func (m *formManager) removeSubmitButton(formID string) {
	f := m.form(formID)
	f.submitButtonCount--
	if f.submitButtonCount < 0 {
		panic(fmt.Sprintf("widgetstate: submit button count for form %q went negative", formID))
	}
}

// setFormsWithUploads replaces the upload set wholesale; the file-uploader
// widget computes its own in-progress set and pushes it whole.
func (m *formManager) setFormsWithUploads(formIDs []string) {
	m.formsWithUploads = make(map[string]bool, len(formIDs))
	for _, id := range formIDs {
		m.formsWithUploads[id] = true
	}
}

// addListener registers a form-cleared callback and returns its token.
func (m *formManager) addListener(formID string, fn func()) string {
	token := uuid.New().String()
	m.form(formID).listeners[token] = fn
	return token
}

// removeListener unregisters a callback by token. Unknown tokens are a
// no-op so disposables stay safe across remounts.
func (m *formManager) removeListener(formID, token string) {
	if f, ok := m.forms[formID]; ok {
		delete(f.listeners, token)
	}
}

// listenersFor returns the form's cleared listeners in registration-token
// order. The returned slice is a copy; invoking it cannot race a concurrent
// register/unregister.
func (m *formManager) listenersFor(formID string) []func() {
	f, ok := m.forms[formID]
	if !ok {
		return nil
	}
	tokens := make([]string, 0, len(f.listeners))
	for token := range f.listeners {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	fns := make([]func(), 0, len(tokens))
	for _, token := range tokens {
		fns = append(fns, f.listeners[token])
	}
	return fns
}

// snapshot computes a fresh FormsData from current form state.
func (m *formManager) snapshot() FormsData {
	data := FormsData{SubmitButtonCounts: make(map[string]int)}

	for id, f := range m.forms {
		if f.dict.Len() > 0 {
			data.FormsWithPendingChanges = append(data.FormsWithPendingChanges, id)
		}
		if f.submitButtonCount > 0 {
			data.SubmitButtonCounts[id] = f.submitButtonCount
		}
	}
	for id := range m.formsWithUploads {
		data.FormsWithUploads = append(data.FormsWithUploads, id)
	}

	sort.Strings(data.FormsWithPendingChanges)
	sort.Strings(data.FormsWithUploads)
	return data
}
