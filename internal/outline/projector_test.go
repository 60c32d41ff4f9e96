package outline

import (
	"testing"
	"time"

	"pagecraft/internal/content"
	"pagecraft/internal/domain"
)

func widgetTemplate(typ string) *domain.WidgetTemplate {
	return &domain.WidgetTemplate{Type: typ, Kind: "widget"}
}

func seed(t *testing.T) (*content.Store, *Projector) {
	t.Helper()
	st := content.NewStore(nil)
	sec := st.AddSection(nil)
	col := sec.Columns[0]
	st.AddWidget(widgetTemplate("heading"), col.ID, sec.ID)
	st.AddWidget(widgetTemplate("image"), col.ID, sec.ID)
	sec2 := st.AddSection(nil)
	st.AddWidget(widgetTemplate("button"), sec2.Columns[0].ID, sec2.ID)
	return st, NewProjector(st, nil)
}

func TestTree_ShapeAndBreadcrumbs(t *testing.T) {
	_, p := seed(t)
	tree := p.Tree()
	if len(tree) != 2 {
		t.Fatalf("expected 2 section nodes, got %d", len(tree))
	}
	sec := tree[0]
	if sec.Kind != "section" || sec.Label != "Section 1" {
		t.Errorf("section node = %+v", sec)
	}
	if len(sec.Children) != 1 {
		t.Fatalf("expected 1 column node, got %d", len(sec.Children))
	}
	col := sec.Children[0]
	if col.Kind != "column" {
		t.Errorf("column node kind = %q", col.Kind)
	}
	if len(col.Children) != 2 {
		t.Fatalf("expected 2 widget nodes, got %d", len(col.Children))
	}
	w := col.Children[0]
	if w.Label != "Heading" {
		t.Errorf("widget label = %q, want Heading", w.Label)
	}
	want := sec.Label + " / " + col.Label + " / Heading"
	if w.Path != want {
		t.Errorf("breadcrumb = %q, want %q", w.Path, want)
	}
}

func TestFilter_KeepsAncestorsOfMatches(t *testing.T) {
	_, p := seed(t)

	tree := p.Filter("IMAGE")
	if len(tree) != 1 {
		t.Fatalf("expected only the first section, got %d nodes", len(tree))
	}
	col := tree[0].Children[0]
	if len(col.Children) != 1 || col.Children[0].Label != "Image" {
		t.Errorf("filter should prune non-matching siblings, got %+v", col.Children)
	}
}

func TestFilter_MatchOnAncestorKeepsSubtree(t *testing.T) {
	_, p := seed(t)
	// "column" matches every column node by kind; widgets below stay pruned
	// unless they match themselves.
	tree := p.Filter("column")
	if len(tree) != 2 {
		t.Fatalf("expected both sections kept, got %d", len(tree))
	}
	if len(tree[0].Children) != 1 {
		t.Error("matching column node should survive")
	}
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	_, p := seed(t)
	if len(p.Filter("  ")) != 2 {
		t.Error("blank query should return the full tree")
	}
}

func TestFilter_DoesNotMutateTree(t *testing.T) {
	st, p := seed(t)
	st.MarkSaved()
	p.Filter("heading")
	if st.IsDirty() {
		t.Error("filtering is a read-only projection")
	}
	if len(st.Content().Sections[0].Columns[0].Widgets) != 2 {
		t.Error("filter pruned the live tree")
	}
}

func TestMoveSection_DelegatesToStore(t *testing.T) {
	st, p := seed(t)
	first := st.Content().Sections[0].ID
	if err := p.MoveSection(first, 2); err != nil {
		t.Fatal(err)
	}
	if st.Content().Sections[1].ID != first {
		t.Error("section did not move to the end")
	}
}

func TestMoveWidget_CrossColumn(t *testing.T) {
	st, p := seed(t)
	w := st.Content().Sections[0].Columns[0].Widgets[0]
	targetCol := st.Content().Sections[1].Columns[0]
	if err := p.MoveWidget(w.ID, targetCol.ID, 0); err != nil {
		t.Fatal(err)
	}
	if targetCol.Widgets[0].ID != w.ID {
		t.Error("widget should lead the target column")
	}
	if len(st.Content().Sections[0].Columns[0].Widgets) != 1 {
		t.Error("widget still present in source column")
	}
}

func TestMoveWidget_SameColumnAdjustsIndex(t *testing.T) {
	st, p := seed(t)
	col := st.Content().Sections[0].Columns[0]
	w1 := col.Widgets[0]
	if err := p.MoveWidget(w1.ID, col.ID, 2); err != nil {
		t.Fatal(err)
	}
	if col.Widgets[1].ID != w1.ID {
		t.Errorf("expected w1 last, got order %s,%s", col.Widgets[0].ID, col.Widgets[1].ID)
	}
}

func TestGuard_TripsAfterThresholdAndResets(t *testing.T) {
	g := newRapidOpGuard(10, time.Second)
	base := time.Unix(1000, 0)
	g.now = func() time.Time { return base }

	for i := 0; i < 10; i++ {
		if !g.Allow() {
			t.Fatalf("op %d should pass", i)
		}
	}
	if g.Allow() {
		t.Fatal("11th op within the window must trip the breaker")
	}
	if !g.Tripped() {
		t.Error("breaker should report open")
	}
	// Stays open even after the window passes, until reset.
	g.now = func() time.Time { return base.Add(5 * time.Second) }
	if g.Allow() {
		t.Error("tripped breaker requires an explicit reset")
	}
	g.Reset()
	if !g.Allow() {
		t.Error("reset should close the breaker")
	}
}

func TestGuard_SlowOperationsNeverTrip(t *testing.T) {
	g := newRapidOpGuard(10, time.Second)
	now := time.Unix(1000, 0)
	g.now = func() time.Time { return now }
	for i := 0; i < 50; i++ {
		if !g.Allow() {
			t.Fatalf("spaced-out op %d should pass", i)
		}
		now = now.Add(500 * time.Millisecond)
	}
}

func TestProjector_BlockedAfterRunaway(t *testing.T) {
	st, p := seed(t)
	secID := st.Content().Sections[0].ID
	var lastErr error
	for i := 0; i < 20; i++ {
		lastErr = p.MoveSection(secID, 1)
	}
	if lastErr != ErrTooManyOps {
		t.Fatalf("expected ErrTooManyOps, got %v", lastErr)
	}
	if !p.Blocked() {
		t.Error("projector should report blocked")
	}
	p.ResetDragState()
	if p.Blocked() {
		t.Error("ResetDragState should unblock")
	}
}
