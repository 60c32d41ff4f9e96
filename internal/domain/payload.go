package domain

import "errors"

// ErrStaleVersion is returned by PageStore.SavePage when the incoming
// record carries a version older than the stored one. The write is
// ignored; the in-memory state is not rolled back.
var ErrStaleVersion = errors.New("stale page version")

// ErrAuthRequired signals that a remote persistence call hit the login
// flow instead of the API (HTML body heuristic). It is surfaced
// distinctly from ordinary persistence failures.
var ErrAuthRequired = errors.New("authentication required")

// LayoutSection mirrors Section but holds widget stubs only. Layout and
// widget settings are persisted to different stores, so the save payload
// splits the tree into this lightweight structure plus a flat widget map.
type LayoutSection struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Columns    []LayoutColumn      `json:"columns"`
	Settings   map[string]any      `json:"settings"`
	Responsive *ResponsiveSettings `json:"responsive_settings,omitempty"`
}

// LayoutColumn mirrors Column with widget stubs in place of widgets.
type LayoutColumn struct {
	ID       string         `json:"id"`
	Width    string         `json:"width"`
	Widgets  []WidgetStub   `json:"widgets"`
	Settings map[string]any `json:"settings"`
}

// SavePayload is the wire form of a full save: layout-only sections plus
// the flat widget map with computed sort order.
type SavePayload struct {
	PageID      string              `json:"page_id"`
	Content     []LayoutSection     `json:"content"`
	Widgets     map[string]*Widget  `json:"widgets"`
	SortOrder   map[string]int      `json:"sort_order"`
	IsPublished bool                `json:"is_published"`
	Version     int64               `json:"version"`
}

// PublishPayload is what a publish target receives: the page rendered to
// its persisted JSON forms.
type PublishPayload struct {
	PageID      string `json:"page_id"`
	Title       string `json:"title"`
	LayoutJSON  string `json:"layout_json"`
	WidgetsJSON string `json:"widgets_json"`
	CSS         string `json:"css"`
	Version     int64  `json:"version"`
}
