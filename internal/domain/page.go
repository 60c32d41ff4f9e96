package domain

// Section is a top-level horizontal block of the page, holding one or
// more columns. The order of sections in PageContent fully determines
// render order.
type Section struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"` // always "section"
	Columns    []*Column           `json:"columns"`
	Settings   map[string]any      `json:"settings"`
	Responsive *ResponsiveSettings `json:"responsive_settings,omitempty"`
}

// ResponsiveSettings carries per-breakpoint overrides for a section's
// style settings.
type ResponsiveSettings struct {
	Tablet map[string]any `json:"tablet,omitempty"`
	Mobile map[string]any `json:"mobile,omitempty"`
}

// Column is a vertical slot inside a section. Width is a CSS length
// string (usually a percentage) relative to its siblings.
type Column struct {
	ID       string         `json:"id"`
	Width    string         `json:"width"`
	Widgets  []*Widget      `json:"widgets"`
	Settings map[string]any `json:"settings"`
}

// Widget is a single content unit (heading, image, button, ...) owned by
// exactly one column at a time. General/Style/Advanced are free-form
// settings whose shape is defined by the widget's field schema; the
// content tree treats them as opaque maps.
type Widget struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	General   map[string]any `json:"general"`
	Style     map[string]any `json:"style"`
	Advanced  map[string]any `json:"advanced"`
	IsVisible bool           `json:"is_visible"`
	IsEnabled bool           `json:"is_enabled"`
	Version   string         `json:"version"`
}

// PageContent is the root aggregate: an ordered sequence of sections.
type PageContent struct {
	Sections []*Section `json:"sections"`
}

// WidgetStub is the layout-only projection of a widget used in the save
// payload: the full record travels separately, keyed by id.
type WidgetStub struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// WidgetSnapshot is a deep copy of a widget's settings taken when the
// widget is first selected for editing, used to revert on discard.
type WidgetSnapshot struct {
	General  map[string]any `json:"general"`
	Style    map[string]any `json:"style"`
	Advanced map[string]any `json:"advanced"`
}

// WidgetUpdates is a partial update applied to a widget. Non-nil group
// maps are shallow-merged into the widget's corresponding group.
type WidgetUpdates struct {
	General   map[string]any `json:"general,omitempty"`
	Style     map[string]any `json:"style,omitempty"`
	Advanced  map[string]any `json:"advanced,omitempty"`
	IsVisible *bool          `json:"is_visible,omitempty"`
	IsEnabled *bool          `json:"is_enabled,omitempty"`
}

// WidgetTemplate describes a widget kind offered in the editor palette.
// Kind distinguishes placement behavior: plain widgets may be dropped
// into columns, "section" templates only on the canvas or a section,
// "container" templates never inside a column.
type WidgetTemplate struct {
	Type            string         `json:"type"`
	Kind            string         `json:"kind"` // "widget" | "section" | "container"
	Label           string         `json:"label"`
	Version         string         `json:"version"`
	DefaultGeneral  map[string]any `json:"default_general,omitempty"`
	DefaultStyle    map[string]any `json:"default_style,omitempty"`
	DefaultAdvanced map[string]any `json:"default_advanced,omitempty"`
}
