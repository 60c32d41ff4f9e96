package app

import "pagecraft/internal/outline"

// ── outline panel bindings ─────────────────────────────────

// OutlineTree returns the labeled tree projection of the page.
func (a *App) OutlineTree() []*outline.Node {
	return a.outline.Tree()
}

// OutlineFilter returns the tree pruned to nodes matching query,
// keeping ancestors of matches for context.
func (a *App) OutlineFilter(query string) []*outline.Node {
	return a.outline.Filter(query)
}

// OutlineMoveSection moves a section to the given index via the
// outline panel.
func (a *App) OutlineMoveSection(sectionID string, index int) error {
	return a.outline.MoveSection(sectionID, index)
}

// OutlineMoveWidget moves a widget to a column at the given index via
// the outline panel.
func (a *App) OutlineMoveWidget(widgetID, columnID string, index int) error {
	return a.outline.MoveWidget(widgetID, columnID, index)
}

// OutlineBlocked reports whether outline drag operations are
// suspended after a runaway burst.
func (a *App) OutlineBlocked() bool {
	return a.outline.Blocked()
}

// OutlineReset re-enables outline drag operations after a block.
func (a *App) OutlineReset() {
	a.outline.ResetDragState()
}
