package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"pagecraft/internal/domain"
	"pagecraft/internal/fields"
	"pagecraft/internal/schema"
	"pagecraft/internal/service"
	"pagecraft/internal/storage"
)

type editorFixture struct {
	svc     *service.EditorService
	emitter *service.MockEmitter
	db      *storage.DB
}

func newEditor(t *testing.T) *editorFixture {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "pagecraft.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &service.MockEmitter{}
	svc := service.NewEditorService(
		storage.NewPageStore(db),
		storage.NewWidgetStore(db),
		storage.NewSettingsStore(db),
		schema.NewCatalog(fields.NewRegistry()),
		emitter,
		nil,
	)
	return &editorFixture{svc: svc, emitter: emitter, db: db}
}

func (f *editorFixture) flush(t *testing.T) {
	t.Helper()
	f.svc.Shutdown(context.Background())
	if err := f.svc.SaveState().SaveError; err != "" {
		t.Fatalf("save failed: %s", err)
	}
}

func TestCreateAndLoadPage(t *testing.T) {
	f := newEditor(t)

	p, err := f.svc.CreatePage("Home")
	if err != nil {
		t.Fatal(err)
	}
	pc, err := f.svc.LoadPage(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(pc.Sections) != 0 {
		t.Errorf("fresh page should be empty, got %d sections", len(pc.Sections))
	}
	if f.svc.Store().IsDirty() {
		t.Error("store must be clean right after load")
	}
}

func TestEditSaveReload(t *testing.T) {
	f := newEditor(t)
	p, err := f.svc.CreatePage("Home")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.LoadPage(p.ID); err != nil {
		t.Fatal(err)
	}

	sec := f.svc.Store().AddSection(nil)
	w, err := f.svc.AddWidget("heading", sec.Columns[0].ID, sec.ID)
	if err != nil {
		t.Fatal(err)
	}
	f.flush(t)

	if f.svc.Store().IsDirty() {
		t.Error("store must be clean after a successful save")
	}

	// A second editor instance sees the saved tree with settings intact.
	other := service.NewEditorService(
		storage.NewPageStore(f.db),
		storage.NewWidgetStore(f.db),
		storage.NewSettingsStore(f.db),
		schema.NewCatalog(fields.NewRegistry()),
		&service.MockEmitter{},
		nil,
	)
	pc, err := other.LoadPage(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(pc.Sections) != 1 || len(pc.Sections[0].Columns[0].Widgets) != 1 {
		t.Fatalf("reloaded tree shape wrong: %+v", pc)
	}
	reloaded := pc.Sections[0].Columns[0].Widgets[0]
	if reloaded.ID != w.ID || reloaded.Type != "heading" {
		t.Errorf("widget identity lost: %+v", reloaded)
	}
	if reloaded.General["text"] != "Heading" {
		t.Errorf("template defaults not persisted: %v", reloaded.General)
	}
}

func TestPersist_PrunesRemovedWidgets(t *testing.T) {
	f := newEditor(t)
	p, _ := f.svc.CreatePage("Home")
	if _, err := f.svc.LoadPage(p.ID); err != nil {
		t.Fatal(err)
	}

	sec := f.svc.Store().AddSection(nil)
	w, err := f.svc.AddWidget("text", sec.Columns[0].ID, sec.ID)
	if err != nil {
		t.Fatal(err)
	}
	f.flush(t)

	if !f.svc.Store().RemoveWidget(w.ID) {
		t.Fatal("remove failed")
	}
	f.flush(t)

	rows, err := storage.NewWidgetStore(f.db).ListWidgets(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("removed widget left %d rows behind", len(rows))
	}
}

func TestSettingsEditsDoNotAutoSave(t *testing.T) {
	f := newEditor(t)
	p, _ := f.svc.CreatePage("Home")
	if _, err := f.svc.LoadPage(p.ID); err != nil {
		t.Fatal(err)
	}
	sec := f.svc.Store().AddSection(nil)
	w, err := f.svc.AddWidget("heading", sec.Columns[0].ID, sec.ID)
	if err != nil {
		t.Fatal(err)
	}
	f.flush(t)
	savedVersion := currentVersion(t, f.db, p.ID)

	err = f.svc.UpdateWidgetSettings(w.ID, domain.WidgetUpdates{
		General: map[string]any{"text": "Edited"},
	})
	if err != nil {
		t.Fatal(err)
	}
	f.flush(t)

	if !f.svc.Store().IsDirty() {
		t.Error("settings edit should mark dirty")
	}
	if got := currentVersion(t, f.db, p.ID); got != savedVersion {
		t.Errorf("settings edit must not trigger a page save: version %d -> %d", savedVersion, got)
	}

	// The explicit per-widget save persists just the widget.
	if err := f.svc.SaveWidgetSettings(w.ID); err != nil {
		t.Fatal(err)
	}
	rec, err := storage.NewWidgetStore(f.db).GetWidget(w.ID)
	if err != nil {
		t.Fatal(err)
	}
	var general map[string]any
	if err := json.Unmarshal([]byte(rec.General), &general); err != nil {
		t.Fatalf("widget row not an object: %s", rec.General)
	}
	if general["text"] != "Edited" {
		t.Errorf("edited value not persisted: %s", rec.General)
	}
	if general["html_tag"] != "h2" {
		t.Errorf("template default lost on save: %s", rec.General)
	}
	if len(f.emitter.Named("widget:saved")) != 1 {
		t.Error("explicit widget save should announce itself once")
	}
}

func currentVersion(t *testing.T, db *storage.DB, pageID string) int64 {
	t.Helper()
	rec, err := storage.NewPageStore(db).GetPage(pageID)
	if err != nil {
		t.Fatal(err)
	}
	return rec.Version
}

func TestUpdateWidgetSettings_SanitizesAgainstSchema(t *testing.T) {
	f := newEditor(t)
	p, _ := f.svc.CreatePage("Home")
	if _, err := f.svc.LoadPage(p.ID); err != nil {
		t.Fatal(err)
	}
	sec := f.svc.Store().AddSection(nil)
	w, err := f.svc.AddWidget("heading", sec.Columns[0].ID, sec.ID)
	if err != nil {
		t.Fatal(err)
	}

	err = f.svc.UpdateWidgetSettings(w.ID, domain.WidgetUpdates{
		Style: map[string]any{"color": "ff0000", "not_in_schema": "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if w.Style["color"] != "#FF0000" {
		t.Errorf("color not sanitized: %v", w.Style["color"])
	}
	if _, ok := w.Style["not_in_schema"]; ok {
		t.Error("undeclared key survived")
	}
}

func TestGetWidgetFields(t *testing.T) {
	f := newEditor(t)
	p, _ := f.svc.CreatePage("Home")
	if _, err := f.svc.LoadPage(p.ID); err != nil {
		t.Fatal(err)
	}
	sec := f.svc.Store().AddSection(nil)
	w, err := f.svc.AddWidget("button", sec.Columns[0].ID, sec.ID)
	if err != nil {
		t.Fatal(err)
	}

	groups, err := f.svc.GetWidgetFields(w.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 3 {
		t.Fatalf("groups = %d", len(groups))
	}
	if len(groups[0].Fields) == 0 {
		t.Error("general group should have fields")
	}
}

func TestPageCSS(t *testing.T) {
	f := newEditor(t)
	p, _ := f.svc.CreatePage("Home")
	if _, err := f.svc.LoadPage(p.ID); err != nil {
		t.Fatal(err)
	}
	sec := f.svc.Store().AddSection(nil)
	w, err := f.svc.AddWidget("heading", sec.Columns[0].ID, sec.ID)
	if err != nil {
		t.Fatal(err)
	}
	err = f.svc.UpdateWidgetSettings(w.ID, domain.WidgetUpdates{
		Style: map[string]any{"color": "#112233"},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := f.svc.PageCSS()
	if out == "" {
		t.Fatal("expected CSS output")
	}
	for _, want := range []string{".pc-section-" + sec.ID, ".pc-widget-" + w.ID, "color: #112233"} {
		if !strings.Contains(out, want) {
			t.Errorf("css missing %q:\n%s", want, out)
		}
	}
	f.flush(t)
}

func TestRemoteClient_AuthHeuristic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<!DOCTYPE html><html><body>Log in</body></html>"))
	}))
	defer srv.Close()

	rc := service.NewRemoteClient(srv.URL, "token")
	err := rc.Save(context.Background(), &domain.SavePayload{PageID: "p1"})
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
}

func TestRemoteClient_SaveSuccessAndRejection(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-CSRF-Token")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/save" {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"success":false,"message":"version conflict"}`))
	}))
	defer srv.Close()

	rc := service.NewRemoteClient(srv.URL, "tok-123")
	if err := rc.Save(context.Background(), &domain.SavePayload{PageID: "p1"}); err != nil {
		t.Fatal(err)
	}
	if gotToken != "tok-123" {
		t.Errorf("csrf token not sent, got %q", gotToken)
	}
	if err := rc.Publish(context.Background(), "p1"); err == nil {
		t.Fatal("rejected publish should error")
	}
}
