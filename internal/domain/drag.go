package domain

// DragState is the ephemeral, UI-only state of a single drag gesture.
// It is reset to the zero value on drag end or cancellation and never
// persisted.
type DragState struct {
	DraggedItemID      string `json:"dragged_item_id,omitempty"`
	DraggedItemType    string `json:"dragged_item_type,omitempty"`
	DragStartSection   string `json:"drag_start_section,omitempty"`
	DragStartColumn    string `json:"drag_start_column,omitempty"`
	ActiveDropTarget   string `json:"active_drop_target,omitempty"`
	DropPosition       int    `json:"drop_position,omitempty"`
	CrossContainerMode bool   `json:"cross_container_mode,omitempty"`
}

// Active reports whether a drag gesture is in progress.
func (d DragState) Active() bool {
	return d.DraggedItemType != ""
}
