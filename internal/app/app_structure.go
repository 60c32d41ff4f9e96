package app

import (
	"fmt"

	"pagecraft/internal/domain"
)

// ── structural bindings ────────────────────────────────────

// AddSection appends an empty one-column section.
func (a *App) AddSection() *domain.Section {
	return a.editor.Store().AddSection(nil)
}

// InsertSectionAt inserts an empty section at the given index.
func (a *App) InsertSectionAt(index int) *domain.Section {
	return a.editor.Store().InsertSectionAt(index, nil)
}

// RemoveSection removes a section and everything inside it.
func (a *App) RemoveSection(sectionID string) error {
	if !a.editor.Store().RemoveSection(sectionID) {
		return fmt.Errorf("section not found: %s", sectionID)
	}
	return nil
}

// ReorderSections moves the section at oldIndex to newIndex.
func (a *App) ReorderSections(oldIndex, newIndex int) bool {
	return a.editor.Store().ReorderSections(oldIndex, newIndex)
}

// AddColumn appends a column to a section and rebalances widths.
func (a *App) AddColumn(sectionID string) (*domain.Column, error) {
	col := a.editor.Store().AddColumn(sectionID)
	if col == nil {
		return nil, fmt.Errorf("section not found: %s", sectionID)
	}
	return col, nil
}

// RemoveColumn removes a column; the last column of a section cannot
// be removed.
func (a *App) RemoveColumn(sectionID, columnID string) error {
	if !a.editor.Store().RemoveColumn(sectionID, columnID) {
		return fmt.Errorf("cannot remove column %s", columnID)
	}
	return nil
}

// SetColumnWidth sets an explicit width (e.g. "33.33%") on a column.
func (a *App) SetColumnWidth(columnID, width string) error {
	if !a.editor.Store().SetColumnWidth(columnID, width) {
		return fmt.Errorf("column not found: %s", columnID)
	}
	return nil
}

// UpdateSectionSettings merges settings into a section at the given
// breakpoint ("desktop", "tablet" or "mobile").
func (a *App) UpdateSectionSettings(sectionID, breakpoint string, settings map[string]any) error {
	if !a.editor.Store().UpdateSectionSettings(sectionID, breakpoint, settings) {
		return fmt.Errorf("section not found: %s", sectionID)
	}
	return nil
}

// UpdateColumnSettings merges settings into a column.
func (a *App) UpdateColumnSettings(columnID string, settings map[string]any) error {
	if !a.editor.Store().UpdateColumnSettings(columnID, settings) {
		return fmt.Errorf("column not found: %s", columnID)
	}
	return nil
}

// AddWidget instantiates a widget of the given type into a column.
func (a *App) AddWidget(widgetType, columnID, sectionID string) (*domain.Widget, error) {
	return a.editor.AddWidget(widgetType, columnID, sectionID)
}

// RemoveWidget deletes a widget from its column.
func (a *App) RemoveWidget(widgetID string) error {
	if !a.editor.Store().RemoveWidget(widgetID) {
		return fmt.Errorf("widget not found: %s", widgetID)
	}
	return nil
}

// ReorderWidgets moves a widget within a column.
func (a *App) ReorderWidgets(columnID string, oldIndex, newIndex int) bool {
	return a.editor.Store().ReorderWidgets(columnID, oldIndex, newIndex)
}

// MoveWidget moves a widget between columns at the given index.
func (a *App) MoveWidget(widgetID, fromColumnID, toColumnID string, index int) bool {
	return a.editor.Store().MoveWidget(widgetID, fromColumnID, toColumnID, index)
}

// SaveElementSettings persists section or column style settings to
// their own table, outside the layout snapshot.
func (a *App) SaveElementSettings(kind, elementID string, settings map[string]any) error {
	return a.editor.SaveElementSettings(kind, elementID, settings)
}

// WidgetCSS renders the generated stylesheet for a single widget.
func (a *App) WidgetCSS(widgetID string) (string, error) {
	return a.editor.WidgetCSS(widgetID)
}

// PageCSS renders the generated stylesheet for the whole page.
func (a *App) PageCSS() string {
	return a.editor.PageCSS()
}
