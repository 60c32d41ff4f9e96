package dnd

import "pagecraft/internal/domain"

// ─────────────────────────────────────────────────────────────
// Drag payloads — closed tagged variants instead of untyped bags
// ─────────────────────────────────────────────────────────────

// ItemKind tags what is being dragged.
type ItemKind string

const (
	ItemWidget          ItemKind = "widget"
	ItemWidgetTemplate  ItemKind = "widget-template"
	ItemSection         ItemKind = "section"
	ItemSectionTemplate ItemKind = "section-template"
	ItemContainer       ItemKind = "container"
)

// TargetKind tags what the drag ended over.
type TargetKind string

const (
	OverCanvas          TargetKind = "canvas"
	OverColumn          TargetKind = "column"
	OverWidget          TargetKind = "widget"
	OverWidgetDropZone  TargetKind = "widget-drop-zone"
	OverSectionDropZone TargetKind = "section-drop-zone"
	OverSection         TargetKind = "section"
	OverContainer       TargetKind = "container"
)

// Item describes the active draggable. Only the fields relevant to its
// Kind are set; the interpreter switches exhaustively on Kind.
type Item struct {
	Kind ItemKind `json:"kind"`

	// Existing widget / section / container context.
	WidgetID  string `json:"widget_id,omitempty"`
	SectionID string `json:"section_id,omitempty"`
	ColumnID  string `json:"column_id,omitempty"`
	Index     int    `json:"index,omitempty"`

	// Palette drags carry the template to instantiate.
	Template *domain.WidgetTemplate `json:"template,omitempty"`
}

// Target describes what the pointer was over at drag end. Drop zones
// are synthetic position-only targets: Index is the insertion point,
// the ids locate the structural context.
type Target struct {
	Kind      TargetKind `json:"kind"`
	SectionID string     `json:"section_id,omitempty"`
	ColumnID  string     `json:"column_id,omitempty"`
	WidgetID  string     `json:"widget_id,omitempty"`
	Index     int        `json:"index,omitempty"`
}

// Action is what the interpreter decided to do.
type Action string

const (
	ActionNone            Action = "none"
	ActionRejected        Action = "rejected"
	ActionReorderSections Action = "reorder-sections"
	ActionInsertWrapped   Action = "insert-wrapped-section"
	ActionAutoWrap        Action = "auto-wrap"
	ActionAddWidget       Action = "add-widget"
	ActionReorderWidgets  Action = "reorder-widgets"
	ActionMoveWidget      Action = "move-widget"
)

// Resolution reports the outcome of a drag-end event. Reason is the
// user-facing rejection notice for ActionRejected, and a log-only note
// for the degraded-to-no-op cases.
type Resolution struct {
	Action    Action `json:"action"`
	Reason    string `json:"reason,omitempty"`
	WidgetID  string `json:"widget_id,omitempty"`
	SectionID string `json:"section_id,omitempty"`
	// Changed is true when the tree was mutated.
	Changed bool `json:"changed"`
}
