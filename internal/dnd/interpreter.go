package dnd

import (
	"fmt"
	"log"

	"pagecraft/internal/content"
)

// ─────────────────────────────────────────────────────────────
// Interpreter — maps drag-end events to store mutations
// ─────────────────────────────────────────────────────────────

// Interpreter is a stateless decision engine: it reads the current tree
// through the store's lookups, picks the first matching placement rule,
// and applies the mutation through the store's atomic operations. It
// never touches the tree directly.
type Interpreter struct {
	store *content.Store
}

// NewInterpreter creates an interpreter bound to a store.
func NewInterpreter(store *content.Store) *Interpreter {
	return &Interpreter{store: store}
}

// Resolve interprets a drag-end event. Rules are evaluated in priority
// order; the first match wins. A nil target, an unresolvable source, or
// a drop on the dragged item itself degrades to a no-op — the tree is
// left untouched.
func (it *Interpreter) Resolve(item Item, over *Target) Resolution {
	if over == nil {
		return Resolution{Action: ActionNone, Reason: "drag cancelled"}
	}

	// Rule 1: section dropped on a section drop zone → reorder.
	if (item.Kind == ItemSection || item.Kind == ItemContainer) && over.Kind == OverSectionDropZone {
		return it.reorderSectionTo(item, over.Index)
	}

	// Rule 2: palette widget dropped on a drop zone → wrap it in a fresh
	// section spliced in at the zone's index.
	if item.Kind == ItemWidgetTemplate && (over.Kind == OverWidgetDropZone || over.Kind == OverSectionDropZone) {
		if item.Template == nil {
			return noop("widget template drag without template")
		}
		sec, w := it.store.InsertWrappedSection(item.Template, over.Index)
		return Resolution{Action: ActionInsertWrapped, WidgetID: w.ID, SectionID: sec.ID, Changed: true}
	}

	// Rule 3: placement validation gate for palette drags.
	if item.Kind == ItemWidgetTemplate || item.Kind == ItemSectionTemplate {
		if rej := it.placementViolation(item, over); rej != "" {
			return Resolution{Action: ActionRejected, Reason: rej}
		}
	}

	// Rule 4: palette widget dropped on the bare canvas → auto-wrap.
	if item.Kind == ItemWidgetTemplate && over.Kind == OverCanvas {
		if item.Template == nil {
			return noop("widget template drag without template")
		}
		sec, w := it.store.InsertWrappedSection(item.Template, -1)
		return Resolution{Action: ActionAutoWrap, WidgetID: w.ID, SectionID: sec.ID, Changed: true}
	}

	// Rule 4b: section template on canvas or section → new section.
	if item.Kind == ItemSectionTemplate && (over.Kind == OverCanvas || over.Kind == OverSection) {
		sec := it.store.AddSection(nil)
		return Resolution{Action: ActionInsertWrapped, SectionID: sec.ID, Changed: true}
	}

	// Rule 5: palette widget dropped on a column or near a widget.
	if item.Kind == ItemWidgetTemplate && (over.Kind == OverColumn || over.Kind == OverWidget) {
		return it.addTemplateNear(item, over)
	}

	// Rules 6-8: existing widget placement.
	if item.Kind == ItemWidget {
		switch over.Kind {
		case OverWidgetDropZone:
			return it.placeWidget(item, over.ColumnID, over.Index)
		case OverWidget:
			if over.WidgetID == item.WidgetID {
				return noop("dropped on itself")
			}
			_, col, w := it.store.FindWidget(over.WidgetID)
			if w == nil || col == nil {
				return noop(fmt.Sprintf("target widget %s unresolvable", over.WidgetID))
			}
			return it.placeWidget(item, col.ID, it.store.WidgetIndex(col.ID, over.WidgetID))
		case OverColumn:
			if over.ColumnID == item.ColumnID {
				return noop("already in column")
			}
			return it.placeWidget(item, over.ColumnID, -1)
		}
	}

	// Rule 9: container dropped on another container or a descendant
	// carrying a section id → section reorder.
	if (item.Kind == ItemContainer || item.Kind == ItemSection) && over.SectionID != "" {
		target := it.store.SectionIndex(over.SectionID)
		if target < 0 {
			return noop(fmt.Sprintf("target section %s unresolvable", over.SectionID))
		}
		return it.reorderSectionTo(item, target)
	}

	// Rule 10: nothing matched — drag cancelled.
	return Resolution{Action: ActionNone, Reason: "no matching placement rule"}
}

// placementViolation enforces the declared placement constraints and
// returns the user-facing rejection notice, or "".
func (it *Interpreter) placementViolation(item Item, over *Target) string {
	kind := "widget"
	if item.Template != nil && item.Template.Kind != "" {
		kind = item.Template.Kind
	}
	if item.Kind == ItemSectionTemplate {
		kind = "section"
	}
	switch kind {
	case "section":
		if over.Kind != OverCanvas && over.Kind != OverSection {
			return "section blocks can only be dropped on the canvas or onto a section"
		}
	case "container":
		if over.Kind == OverColumn {
			return "container blocks cannot be placed inside a column"
		}
	}
	return ""
}

// reorderSectionTo resolves the dragged section's current index and
// moves it to target, compensating for remove-then-insert semantics.
func (it *Interpreter) reorderSectionTo(item Item, target int) Resolution {
	source := it.store.SectionIndex(item.SectionID)
	if source < 0 {
		return noop(fmt.Sprintf("dragged section %s unresolvable", item.SectionID))
	}
	target = adjustIndex(source, target)
	if !it.store.ReorderSections(source, target) {
		return Resolution{Action: ActionNone}
	}
	return Resolution{Action: ActionReorderSections, Changed: true}
}

// addTemplateNear inserts a new widget from the palette into the target
// column, directly after the hovered widget when there is one.
func (it *Interpreter) addTemplateNear(item Item, over *Target) Resolution {
	if item.Template == nil {
		return noop("widget template drag without template")
	}
	columnID := over.ColumnID
	index := -1
	if over.Kind == OverWidget {
		_, col, w := it.store.FindWidget(over.WidgetID)
		if w == nil {
			return noop(fmt.Sprintf("target widget %s unresolvable", over.WidgetID))
		}
		columnID = col.ID
		index = it.store.WidgetIndex(col.ID, over.WidgetID) + 1
	}
	w := it.store.AddWidgetAt(item.Template, columnID, over.SectionID, index)
	if w == nil {
		return noop(fmt.Sprintf("target column %s unresolvable", columnID))
	}
	return Resolution{Action: ActionAddWidget, WidgetID: w.ID, Changed: true}
}

// placeWidget reorders within the source column or moves across columns,
// depending on whether the target column matches the source.
func (it *Interpreter) placeWidget(item Item, targetColumnID string, targetIndex int) Resolution {
	_, sourceCol, w := it.store.FindWidget(item.WidgetID)
	if w == nil {
		return noop(fmt.Sprintf("dragged widget %s unresolvable", item.WidgetID))
	}
	sourceIndex := it.store.WidgetIndex(sourceCol.ID, item.WidgetID)

	if sourceCol.ID == targetColumnID {
		if targetIndex < 0 {
			return Resolution{Action: ActionNone}
		}
		adjusted := adjustIndex(sourceIndex, targetIndex)
		if !it.store.ReorderWidgets(sourceCol.ID, sourceIndex, adjusted) {
			return Resolution{Action: ActionNone}
		}
		return Resolution{Action: ActionReorderWidgets, WidgetID: w.ID, Changed: true}
	}

	if !it.store.MoveWidget(item.WidgetID, sourceCol.ID, targetColumnID, targetIndex) {
		return Resolution{Action: ActionNone}
	}
	return Resolution{Action: ActionMoveWidget, WidgetID: w.ID, Changed: true}
}

// adjustIndex compensates for remove-then-insert: when the source sits
// before the raw target index, the effective insert index shifts down
// by one so the drop lands where the user aimed.
func adjustIndex(source, target int) int {
	if source < target {
		return target - 1
	}
	return target
}

func noop(reason string) Resolution {
	log.Printf("dnd: %s", reason)
	return Resolution{Action: ActionNone, Reason: reason}
}
