package app

import (
	"pagecraft/internal/dnd"
	"pagecraft/internal/domain"
)

// ── drag-and-drop bindings ─────────────────────────────────

// DragStart records the gesture so hover previews can query it. Purely
// ephemeral; no tree mutation happens until DragEnd.
func (a *App) DragStart(item dnd.Item) {
	a.dragMu.Lock()
	defer a.dragMu.Unlock()
	a.drag = domain.DragState{
		DraggedItemID:    item.WidgetID,
		DraggedItemType:  string(item.Kind),
		DragStartSection: item.SectionID,
		DragStartColumn:  item.ColumnID,
	}
}

// DragOver updates the hover target for drop-indicator rendering.
func (a *App) DragOver(target dnd.Target) {
	a.dragMu.Lock()
	defer a.dragMu.Unlock()
	if !a.drag.Active() {
		return
	}
	a.drag.ActiveDropTarget = string(target.Kind)
	a.drag.DropPosition = target.Index
	a.drag.CrossContainerMode = target.ColumnID != "" && target.ColumnID != a.drag.DragStartColumn
}

// DragEnd resolves the drop through the placement rules and resets the
// gesture state. over == nil means the drag was cancelled.
func (a *App) DragEnd(item dnd.Item, over *dnd.Target) dnd.Resolution {
	res := a.dnd.Resolve(item, over)
	a.dragMu.Lock()
	a.drag = domain.DragState{}
	a.dragMu.Unlock()
	if res.Changed {
		a.Emit(a.ctx, "content:changed", res.Action)
	}
	return res
}

// DragCancel clears the gesture without touching the tree.
func (a *App) DragCancel() {
	a.dragMu.Lock()
	a.drag = domain.DragState{}
	a.dragMu.Unlock()
}

// GetDragState returns the current gesture for debugging overlays.
func (a *App) GetDragState() domain.DragState {
	a.dragMu.Lock()
	defer a.dragMu.Unlock()
	return a.drag
}
