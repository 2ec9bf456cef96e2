package widgetstate

import (
	"fmt"
	"sort"

	"github.com/loomhq/loom/pkg/types"
)

// Dictionary is a keyed store of widget values. Exactly one value exists per
// widget ID at a time; setting a new value overwrites in place.
//
// A Dictionary is not goroutine-safe on its own; the owning Manager
// serializes access.
type Dictionary struct {
	states map[string]WidgetValue
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{states: make(map[string]WidgetValue)}
}

// Get returns the stored value for a widget ID. Absent IDs return ok=false;
// callers fall back to their protocol-supplied defaults.
func (d *Dictionary) Get(widgetID string) (WidgetValue, bool) {
	v, ok := d.states[widgetID]
	return v, ok
}

// Set stores a value, overwriting any existing one. Changing the kind of an
// existing entry indicates protocol/version skew between backend and client
// and panics.
func (d *Dictionary) Set(widgetID string, value WidgetValue) {
	if existing, ok := d.states[widgetID]; ok && existing.Kind != value.Kind {
		panic(fmt.Sprintf("widgetstate: widget %q kind changed from %s to %s",
			widgetID, existing.Kind, value.Kind))
	}
	d.states[widgetID] = value
}

// Delete removes the entry for a widget ID. Deleting an absent ID is a no-op.
func (d *Dictionary) Delete(widgetID string) {
	delete(d.states, widgetID)
}

// Len returns the number of stored entries.
func (d *Dictionary) Len() int {
	return len(d.states)
}

// IDs returns the stored widget IDs in sorted order.
func (d *Dictionary) IDs() []string {
	ids := make([]string, 0, len(d.states))
	for id := range d.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear removes all entries.
func (d *Dictionary) Clear() {
	d.states = make(map[string]WidgetValue)
}

// RemoveInactive drops every entry whose ID is not in the active set
// computed from a rerun result.
func (d *Dictionary) RemoveInactive(activeIDs map[string]bool) []string {
	var removed []string
	for id := range d.states {
		if !activeIDs[id] {
			delete(d.states, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// EncodeAll serializes every entry into wire records, ordered by widget ID
// for deterministic output.
func (d *Dictionary) EncodeAll() []types.WidgetState {
	states := make([]types.WidgetState, 0, len(d.states))
	for _, id := range d.IDs() {
		states = append(states, d.states[id].Encode(id))
	}
	return states
}
