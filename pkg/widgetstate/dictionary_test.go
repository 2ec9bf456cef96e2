package widgetstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionarySetOverwritesInPlace(t *testing.T) {
	dict := NewDictionary()
	dict.Set("w1", IntValue(1))
	dict.Set("w1", IntValue(2))

	require.Equal(t, 1, dict.Len())
	v, ok := dict.Get("w1")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.Int)
}

func TestDictionaryKindChangePanics(t *testing.T) {
	dict := NewDictionary()
	dict.Set("w1", IntValue(1))

	assert.Panics(t, func() {
		dict.Set("w1", StringValue("not an int"))
	})
}

func TestDictionaryGetAbsent(t *testing.T) {
	dict := NewDictionary()
	_, ok := dict.Get("missing")
	assert.False(t, ok)
}

func TestDictionaryRemoveInactive(t *testing.T) {
	dict := NewDictionary()
	dict.Set("keep", BoolValue(true))
	dict.Set("drop-a", BoolValue(true))
	dict.Set("drop-b", BoolValue(true))

	removed := dict.RemoveInactive(map[string]bool{"keep": true})
	assert.Equal(t, []string{"drop-a", "drop-b"}, removed)
	assert.Equal(t, []string{"keep"}, dict.IDs())
}

func TestDictionaryEncodeAllIsSorted(t *testing.T) {
	dict := NewDictionary()
	dict.Set("b", IntValue(2))
	dict.Set("a", IntValue(1))
	dict.Set("c", IntValue(3))

	states := dict.EncodeAll()
	require.Len(t, states, 3)
	assert.Equal(t, "a", states[0].ID)
	assert.Equal(t, "b", states[1].ID)
	assert.Equal(t, "c", states[2].ID)
}
