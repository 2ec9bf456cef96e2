package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/pkg/logging"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestParseColumnConfig(t *testing.T) {
	t.Run("valid blob", func(t *testing.T) {
		raw := []byte(`{"price": {"title": "Price (USD)", "width": "small"}}`)
		config := ParseColumnConfig(raw, logging.Discard())

		require.Len(t, config, 1)
		entry := config["price"]
		require.NotNil(t, entry.Title)
		assert.Equal(t, "Price (USD)", *entry.Title)
	})

	t.Run("empty blob", func(t *testing.T) {
		assert.Empty(t, ParseColumnConfig(nil, logging.Discard()))
	})

	t.Run("unparseable blob degrades to empty", func(t *testing.T) {
		config := ParseColumnConfig([]byte(`{"broken`), logging.Discard())
		assert.NotNil(t, config)
		assert.Empty(t, config)
	})
}

func TestWidthPixels(t *testing.T) {
	assert.Equal(t, WidthSmallPx, WidthPixels("small"))
	assert.Equal(t, WidthMediumPx, WidthPixels("medium"))
	assert.Equal(t, WidthLargePx, WidthPixels("large"))
	assert.Equal(t, 0, WidthPixels(""))
	assert.Equal(t, 0, WidthPixels("huge"))
}

func TestApplyColumnConfig(t *testing.T) {
	t.Run("matches by title", func(t *testing.T) {
		props := ColumnProps{Name: "price", Title: "price", Index: 2}
		config := map[string]ColumnConfig{
			"price": {
				Title:    strPtr("Price (USD)"),
				Width:    strPtr("medium"),
				Hidden:   boolPtr(true),
				Required: boolPtr(true),
			},
		}

		override := ApplyColumnConfig(&props, config)
		assert.Empty(t, override)
		assert.Equal(t, "Price (USD)", props.Title)
		assert.Equal(t, WidthMediumPx, props.Width)
		assert.True(t, props.Hidden)
		assert.True(t, props.Required)
	})

	t.Run("matches by positional selector", func(t *testing.T) {
		props := ColumnProps{Name: "b", Title: "b", Index: 1}
		config := map[string]ColumnConfig{
			"col:1": {Type: strPtr("progress")},
		}

		override := ApplyColumnConfig(&props, config)
		assert.Equal(t, "progress", override)
	})

	t.Run("index sentinel matches index columns only", func(t *testing.T) {
		config := map[string]ColumnConfig{
			IndexSelector: {Hidden: boolPtr(true)},
		}

		index := ColumnProps{Name: "_index", Title: "_index", IsIndex: true}
		ApplyColumnConfig(&index, config)
		assert.True(t, index.Hidden)

		data := ColumnProps{Name: "a", Title: "a"}
		ApplyColumnConfig(&data, config)
		assert.False(t, data.Hidden)
	})

	t.Run("disabled flips editable", func(t *testing.T) {
		props := ColumnProps{Name: "a", Title: "a", Editable: true}
		config := map[string]ColumnConfig{
			"a": {Disabled: boolPtr(true)},
		}
		ApplyColumnConfig(&props, config)
		assert.False(t, props.Editable)
	})

	t.Run("backend type options win over inferred", func(t *testing.T) {
		props := ColumnProps{
			Name:        "score",
			Title:       "score",
			TypeOptions: map[string]any{"min_value": 0.0, "step": 1.0},
		}
		config := map[string]ColumnConfig{
			"score": {TypeOptions: map[string]any{"min_value": 10.0}},
		}
		ApplyColumnConfig(&props, config)

		assert.Equal(t, 10.0, props.TypeOptions["min_value"])
		assert.Equal(t, 1.0, props.TypeOptions["step"])
	})

	t.Run("no matching entry leaves props alone", func(t *testing.T) {
		props := ColumnProps{Name: "a", Title: "a", Index: 0}
		before := props
		override := ApplyColumnConfig(&props, map[string]ColumnConfig{
			"other": {Hidden: boolPtr(true)},
		})
		assert.Empty(t, override)
		assert.Equal(t, before, props)
	})
}
