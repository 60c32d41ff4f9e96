package dnd_test

import (
	"testing"

	"pagecraft/internal/content"
	"pagecraft/internal/dnd"
	"pagecraft/internal/domain"
)

func headingTemplate() *domain.WidgetTemplate {
	return &domain.WidgetTemplate{Type: "heading", Kind: "widget", DefaultGeneral: map[string]any{"text": "H"}}
}

func containerTemplate() *domain.WidgetTemplate {
	return &domain.WidgetTemplate{Type: "container", Kind: "container"}
}

func sectionKindTemplate() *domain.WidgetTemplate {
	return &domain.WidgetTemplate{Type: "hero", Kind: "section"}
}

func TestAutoWrap_ScenarioA(t *testing.T) {
	st := content.NewStore(nil)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: headingTemplate()},
		&dnd.Target{Kind: dnd.OverCanvas},
	)
	if res.Action != dnd.ActionAutoWrap || !res.Changed {
		t.Fatalf("expected auto-wrap, got %+v", res)
	}

	pc := st.Content()
	if len(pc.Sections) != 1 {
		t.Fatalf("expected exactly one new section, got %d", len(pc.Sections))
	}
	sec := pc.Sections[0]
	if len(sec.Columns) != 1 {
		t.Fatalf("expected one column, got %d", len(sec.Columns))
	}
	ws := sec.Columns[0].Widgets
	if len(ws) != 1 || ws[0].Type != "heading" {
		t.Fatalf("expected one heading widget, got %+v", ws)
	}
}

func TestRulePriority_ContainerOnColumnRejected(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	it := dnd.NewInterpreter(st)
	before := len(st.Content().Sections)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: containerTemplate()},
		&dnd.Target{Kind: dnd.OverColumn, ColumnID: sec.Columns[0].ID, SectionID: sec.ID},
	)
	if res.Action != dnd.ActionRejected {
		t.Fatalf("container-on-column must be rejected, got %+v", res)
	}
	if res.Reason == "" {
		t.Error("rejection must carry a user-facing reason")
	}
	// Must not fall through to auto-wrap or column insert.
	if len(st.Content().Sections) != before {
		t.Error("rejection must not create sections")
	}
	if len(sec.Columns[0].Widgets) != 0 {
		t.Error("rejection must not insert widgets")
	}
}

func TestSectionKindTemplate_OnlyCanvasOrSection(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: sectionKindTemplate()},
		&dnd.Target{Kind: dnd.OverColumn, ColumnID: sec.Columns[0].ID},
	)
	if res.Action != dnd.ActionRejected {
		t.Fatalf("section-kind template on column must be rejected, got %+v", res)
	}

	res = it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: sectionKindTemplate()},
		&dnd.Target{Kind: dnd.OverCanvas},
	)
	if res.Action != dnd.ActionAutoWrap {
		t.Fatalf("section-kind template on canvas should place, got %+v", res)
	}
}

func TestTemplateOnColumn_Inserts(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: headingTemplate()},
		&dnd.Target{Kind: dnd.OverColumn, ColumnID: sec.Columns[0].ID, SectionID: sec.ID},
	)
	if res.Action != dnd.ActionAddWidget {
		t.Fatalf("expected add-widget, got %+v", res)
	}
	if len(sec.Columns[0].Widgets) != 1 {
		t.Fatal("widget not inserted")
	}
}

func TestTemplateOnWidget_InsertsAfter(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	col := sec.Columns[0]
	w1 := st.AddWidget(headingTemplate(), col.ID, sec.ID)
	w2 := st.AddWidget(headingTemplate(), col.ID, sec.ID)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: headingTemplate()},
		&dnd.Target{Kind: dnd.OverWidget, WidgetID: w1.ID},
	)
	if res.Action != dnd.ActionAddWidget {
		t.Fatalf("expected add-widget, got %+v", res)
	}
	if len(col.Widgets) != 3 {
		t.Fatalf("expected 3 widgets, got %d", len(col.Widgets))
	}
	if col.Widgets[1].ID != res.WidgetID {
		t.Errorf("new widget should sit right after the hovered one")
	}
	if col.Widgets[0].ID != w1.ID || col.Widgets[2].ID != w2.ID {
		t.Errorf("neighbors moved unexpectedly")
	}
}

func TestWidgetOnDropZone_SameColumnReorderAdjustsIndex(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	col := sec.Columns[0]
	w1 := st.AddWidget(headingTemplate(), col.ID, sec.ID)
	w2 := st.AddWidget(headingTemplate(), col.ID, sec.ID)
	w3 := st.AddWidget(headingTemplate(), col.ID, sec.ID)
	it := dnd.NewInterpreter(st)

	// Drop w1 on the zone after w3 (raw index 3). After removal the
	// effective index is 2: the user aimed at the end.
	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidget, WidgetID: w1.ID, ColumnID: col.ID},
		&dnd.Target{Kind: dnd.OverWidgetDropZone, ColumnID: col.ID, Index: 3},
	)
	if res.Action != dnd.ActionReorderWidgets {
		t.Fatalf("expected reorder, got %+v", res)
	}
	got := []string{col.Widgets[0].ID, col.Widgets[1].ID, col.Widgets[2].ID}
	want := []string{w2.ID, w3.ID, w1.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestWidgetOnDropZone_CrossColumnMove(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	colA := sec.Columns[0]
	colB := st.AddColumn(sec.ID)
	w1 := st.AddWidget(headingTemplate(), colA.ID, sec.ID)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidget, WidgetID: w1.ID, ColumnID: colA.ID},
		&dnd.Target{Kind: dnd.OverWidgetDropZone, ColumnID: colB.ID, Index: 0},
	)
	if res.Action != dnd.ActionMoveWidget {
		t.Fatalf("expected move, got %+v", res)
	}
	if len(colA.Widgets) != 0 || len(colB.Widgets) != 1 {
		t.Error("ownership did not transfer")
	}
}

func TestWidgetOnWidget_UsesTargetContext(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	colA := sec.Columns[0]
	colB := st.AddColumn(sec.ID)
	w1 := st.AddWidget(headingTemplate(), colA.ID, sec.ID)
	w2 := st.AddWidget(headingTemplate(), colB.ID, sec.ID)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidget, WidgetID: w1.ID, ColumnID: colA.ID},
		&dnd.Target{Kind: dnd.OverWidget, WidgetID: w2.ID},
	)
	if res.Action != dnd.ActionMoveWidget {
		t.Fatalf("expected cross-column move, got %+v", res)
	}
	if len(colB.Widgets) != 2 || colB.Widgets[0].ID != w1.ID {
		t.Errorf("w1 should land at w2's position, got %+v", colB.Widgets)
	}
}

func TestWidgetOnItself_NoOp(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	w1 := st.AddWidget(headingTemplate(), sec.Columns[0].ID, sec.ID)
	st.MarkSaved()
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidget, WidgetID: w1.ID, ColumnID: sec.Columns[0].ID},
		&dnd.Target{Kind: dnd.OverWidget, WidgetID: w1.ID},
	)
	if res.Action != dnd.ActionNone || res.Changed {
		t.Fatalf("drop on itself must be a no-op, got %+v", res)
	}
	if st.IsDirty() {
		t.Error("cancelled drag must leave the tree unmutated")
	}
}

func TestNilTarget_Cancelled(t *testing.T) {
	st := content.NewStore(nil)
	st.AddSection(nil)
	st.MarkSaved()
	it := dnd.NewInterpreter(st)

	res := it.Resolve(dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: headingTemplate()}, nil)
	if res.Action != dnd.ActionNone || res.Changed {
		t.Fatalf("nil target must cancel, got %+v", res)
	}
	if st.IsDirty() {
		t.Error("cancelled drag must not mutate")
	}
}

func TestSectionOnSectionDropZone_Reorders(t *testing.T) {
	st := content.NewStore(nil)
	s1 := st.AddSection(nil)
	s2 := st.AddSection(nil)
	s3 := st.AddSection(nil)
	it := dnd.NewInterpreter(st)

	// Drag s1 to the zone after s3 (raw index 3 → effective 2).
	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemSection, SectionID: s1.ID},
		&dnd.Target{Kind: dnd.OverSectionDropZone, Index: 3},
	)
	if res.Action != dnd.ActionReorderSections {
		t.Fatalf("expected section reorder, got %+v", res)
	}
	secs := st.Content().Sections
	want := []string{s2.ID, s3.ID, s1.ID}
	for i := range want {
		if secs[i].ID != want[i] {
			t.Fatalf("section order wrong at %d", i)
		}
	}
}

func TestTemplateOnSectionDropZone_WrapsAtIndex(t *testing.T) {
	st := content.NewStore(nil)
	st.AddSection(nil)
	st.AddSection(nil)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: headingTemplate()},
		&dnd.Target{Kind: dnd.OverSectionDropZone, Index: 1},
	)
	if res.Action != dnd.ActionInsertWrapped {
		t.Fatalf("expected insert-wrapped, got %+v", res)
	}
	secs := st.Content().Sections
	if len(secs) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(secs))
	}
	mid := secs[1]
	if len(mid.Columns) != 1 || len(mid.Columns[0].Widgets) != 1 {
		t.Error("wrapped section shape wrong")
	}
}

func TestTemplateOnWidgetDropZone_WrapsAtIndex(t *testing.T) {
	st := content.NewStore(nil)
	st.AddSection(nil)
	sec := st.AddSection(nil)
	col := sec.Columns[0]
	st.AddWidget(headingTemplate(), col.ID, sec.ID)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidgetTemplate, Template: headingTemplate()},
		&dnd.Target{Kind: dnd.OverWidgetDropZone, ColumnID: col.ID, Index: 1},
	)
	if res.Action != dnd.ActionInsertWrapped || !res.Changed {
		t.Fatalf("expected insert-wrapped, got %+v", res)
	}
	secs := st.Content().Sections
	if len(secs) != 3 {
		t.Fatalf("expected a new wrapping section, got %d sections", len(secs))
	}
	wrapped := secs[1]
	if wrapped.ID != res.SectionID {
		t.Errorf("resolution should name the new section, got %q", res.SectionID)
	}
	if len(wrapped.Columns) != 1 || len(wrapped.Columns[0].Widgets) != 1 {
		t.Fatal("wrapped section shape wrong")
	}
	if wrapped.Columns[0].Widgets[0].ID != res.WidgetID {
		t.Error("resolution should name the new widget")
	}
	// The hovered column keeps its widget; nothing was inserted into it.
	if len(col.Widgets) != 1 {
		t.Errorf("hovered column must be untouched, has %d widgets", len(col.Widgets))
	}
}

func TestContainerOnContainerDescendant_Reorders(t *testing.T) {
	st := content.NewStore(nil)
	s1 := st.AddSection(nil)
	s2 := st.AddSection(nil)
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemContainer, SectionID: s2.ID},
		&dnd.Target{Kind: dnd.OverContainer, SectionID: s1.ID},
	)
	if res.Action != dnd.ActionReorderSections {
		t.Fatalf("expected reorder, got %+v", res)
	}
	if st.Content().Sections[0].ID != s2.ID {
		t.Error("s2 should now be first")
	}
}

func TestUnresolvableSource_NoOp(t *testing.T) {
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	st.MarkSaved()
	it := dnd.NewInterpreter(st)

	res := it.Resolve(
		dnd.Item{Kind: dnd.ItemWidget, WidgetID: "ghost", ColumnID: sec.Columns[0].ID},
		&dnd.Target{Kind: dnd.OverWidgetDropZone, ColumnID: sec.Columns[0].ID, Index: 0},
	)
	if res.Action != dnd.ActionNone {
		t.Fatalf("unresolvable source must degrade to no-op, got %+v", res)
	}
	if st.IsDirty() {
		t.Error("no-op must not mutate")
	}
}
