package dataframe

import (
	"encoding/json"
	"fmt"

	"github.com/loomhq/loom/pkg/logging"
)

// IndexSelector is the literal column-selector key addressing index
// columns in a column-config blob.
const IndexSelector = "index"

// ColumnConfig is the backend-supplied per-column override set, keyed in
// the blob by column title, positional selector ("col:<n>"), or the
// "index" sentinel.
type ColumnConfig struct {
	Title       *string        `json:"title,omitempty"`
	Width       *string        `json:"width,omitempty"`
	Help        *string        `json:"help,omitempty"`
	Hidden      *bool          `json:"hidden,omitempty"`
	Disabled    *bool          `json:"disabled,omitempty"`
	Required    *bool          `json:"required,omitempty"`
	Default     any            `json:"default,omitempty"`
	Type        *string        `json:"type,omitempty"`
	TypeOptions map[string]any `json:"type_options,omitempty"`
	Alignment   *string        `json:"alignment,omitempty"`
}

// ParseColumnConfig decodes the JSON column-config blob attached to a table
// payload. An unparseable blob degrades to an empty map with a logged
// diagnostic; it never aborts rendering the table.
func ParseColumnConfig(raw []byte, logger *logging.Logger) map[string]ColumnConfig {
	if logger == nil {
		logger = logging.Discard()
	}
	config := make(map[string]ColumnConfig)
	if len(raw) == 0 {
		return config
	}
	if err := json.Unmarshal(raw, &config); err != nil {
		logger.Warnf("unparseable column config blob: %v", err)
		return make(map[string]ColumnConfig)
	}
	return config
}

// WidthPixels maps a width preset name to its fixed pixel value, 0 for
// unknown or empty presets.
func WidthPixels(width string) int {
	switch width {
	case "small":
		return WidthSmallPx
	case "medium":
		return WidthMediumPx
	case "large":
		return WidthLargePx
	default:
		return 0
	}
}

// configFor resolves the config entry for a column, trying the title key,
// then the positional selector, then the index sentinel for index columns.
func configFor(props ColumnProps, config map[string]ColumnConfig) (ColumnConfig, bool) {
	if c, ok := config[props.Title]; ok {
		return c, true
	}
	if c, ok := config[props.Name]; ok {
		return c, true
	}
	if c, ok := config[fmt.Sprintf("col:%d", props.Index)]; ok {
		return c, true
	}
	if props.IsIndex {
		if c, ok := config[IndexSelector]; ok {
			return c, true
		}
	}
	return ColumnConfig{}, false
}

// ApplyColumnConfig overlays a config entry onto column props and returns
// the effective type override ("" when none).
func ApplyColumnConfig(props *ColumnProps, config map[string]ColumnConfig) string {
	entry, ok := configFor(*props, config)
	if !ok {
		return ""
	}

	if entry.Title != nil {
		props.Title = *entry.Title
	}
	if entry.Width != nil {
		props.Width = WidthPixels(*entry.Width)
	}
	if entry.Help != nil {
		props.Help = *entry.Help
	}
	if entry.Hidden != nil {
		props.Hidden = *entry.Hidden
	}
	if entry.Disabled != nil {
		props.Editable = !*entry.Disabled
	}
	if entry.Required != nil {
		props.Required = *entry.Required
	}
	if entry.Default != nil {
		props.Default = entry.Default
	}
	if entry.Alignment != nil {
		props.Alignment = *entry.Alignment
	}
	if len(entry.TypeOptions) > 0 {
		// Backend-supplied options win over inferred defaults.
		merged := make(map[string]any, len(props.TypeOptions)+len(entry.TypeOptions))
		for k, v := range props.TypeOptions {
			merged[k] = v
		}
		for k, v := range entry.TypeOptions {
			merged[k] = v
		}
		props.TypeOptions = merged
	}

	if entry.Type != nil {
		return *entry.Type
	}
	return ""
}
