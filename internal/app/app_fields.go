package app

import (
	"fmt"
	"sort"

	"pagecraft/internal/domain"
	"pagecraft/internal/schema"
)

// ── widget palette / inspector bindings ────────────────────

// PaletteEntry is one draggable widget type in the editor palette.
type PaletteEntry struct {
	Type  string `json:"type"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// GetWidgetTypes lists all registered widget types for the palette,
// sorted by label.
func (a *App) GetWidgetTypes() []PaletteEntry {
	var out []PaletteEntry
	for _, t := range a.catalog.Types() {
		ws, ok := a.catalog.Lookup(t)
		if !ok {
			continue
		}
		out = append(out, PaletteEntry{
			Type:  ws.Type,
			Kind:  ws.Kind,
			Label: a.catalog.WidgetLabel(t),
			Icon:  ws.Icon,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// GetWidgetSchema returns the raw field declarations for a widget type.
func (a *App) GetWidgetSchema(widgetType string) (*domain.WidgetSchema, error) {
	ws, ok := a.catalog.Lookup(widgetType)
	if !ok {
		return nil, fmt.Errorf("unknown widget type: %s", widgetType)
	}
	return ws, nil
}

// GetWidgetFields returns the rendered field groups for a widget
// instance, with stored values overlaid on schema defaults.
func (a *App) GetWidgetFields(widgetID string) ([]schema.GroupRender, error) {
	return a.editor.GetWidgetFields(widgetID)
}

// ValidateWidgetSettings checks a settings group against its schema
// without applying anything. Returns human-readable problems.
func (a *App) ValidateWidgetSettings(widgetID, group string, values map[string]any) []string {
	return a.editor.ValidateWidgetSettings(widgetID, group, values)
}

// UpdateWidgetSettings applies sanitized settings to the in-memory
// widget. Settings edits do not schedule a structural save.
func (a *App) UpdateWidgetSettings(widgetID string, updates domain.WidgetUpdates) error {
	return a.editor.UpdateWidgetSettings(widgetID, updates)
}

// SaveWidgetSettings persists a single widget's settings immediately,
// independent of the page save cycle.
func (a *App) SaveWidgetSettings(widgetID string) error {
	return a.editor.SaveWidgetSettings(widgetID)
}

// SelectWidget marks a widget as selected and snapshots its settings
// so the inspector can revert.
func (a *App) SelectWidget(widgetID string) (*domain.Widget, error) {
	w := a.editor.Store().SelectWidget(widgetID)
	if w == nil {
		return nil, fmt.Errorf("widget not found: %s", widgetID)
	}
	a.Emit(a.ctx, "widget:selected", widgetID)
	return w, nil
}

// ClearSelection deselects the current widget.
func (a *App) ClearSelection() {
	a.editor.Store().ClearSelection()
	a.Emit(a.ctx, "widget:selected", "")
}

// RevertWidget restores a widget's settings to the snapshot taken at
// selection time.
func (a *App) RevertWidget(widgetID string) bool {
	return a.editor.Store().RevertWidget(widgetID)
}
