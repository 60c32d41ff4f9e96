package storage_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pagecraft/internal/domain"
	"pagecraft/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "pagecraft.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedPage(t *testing.T, db *storage.DB, id string) {
	t.Helper()
	if err := storage.NewPageStore(db).CreatePage(&domain.PageRecord{ID: id, Title: "Test"}); err != nil {
		t.Fatal(err)
	}
}

func TestPageStore_CreateGetSave(t *testing.T) {
	db := openDB(t)
	ps := storage.NewPageStore(db)

	if err := ps.CreatePage(&domain.PageRecord{ID: "p1", Title: "Home"}); err != nil {
		t.Fatal(err)
	}
	got, err := ps.GetPage("p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Home" || got.Version != 0 || got.ContentJSON == "" {
		t.Errorf("got %+v", got)
	}

	got.ContentJSON = `{"sections":[{"id":"s1"}]}`
	got.Version = 1
	if err := ps.SavePage(got); err != nil {
		t.Fatal(err)
	}
	reread, err := ps.GetPage("p1")
	if err != nil {
		t.Fatal(err)
	}
	if reread.Version != 1 || reread.ContentJSON != got.ContentJSON {
		t.Errorf("save did not land: %+v", reread)
	}
}

func TestPageStore_StaleVersionRejected(t *testing.T) {
	db := openDB(t)
	ps := storage.NewPageStore(db)
	seedPage(t, db, "p1")

	// Version 2 lands first (out-of-order completion), then the slower
	// version-1 save arrives and must be refused.
	if err := ps.SavePage(&domain.PageRecord{ID: "p1", ContentJSON: "{}", Version: 2}); err != nil {
		t.Fatal(err)
	}
	err := ps.SavePage(&domain.PageRecord{ID: "p1", ContentJSON: `{"old":true}`, Version: 1})
	if !errors.Is(err, domain.ErrStaleVersion) {
		t.Fatalf("err = %v, want ErrStaleVersion", err)
	}
	got, err := ps.GetPage("p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 2 || got.ContentJSON != "{}" {
		t.Errorf("stale write mutated the row: %+v", got)
	}
}

func TestPageStore_SaveMissingPage(t *testing.T) {
	db := openDB(t)
	err := storage.NewPageStore(db).SavePage(&domain.PageRecord{ID: "ghost", Version: 1})
	if err == nil || errors.Is(err, domain.ErrStaleVersion) {
		t.Fatalf("missing page should be a plain error, got %v", err)
	}
}

func TestWidgetStore_UpsertAndList(t *testing.T) {
	db := openDB(t)
	seedPage(t, db, "p1")
	ws := storage.NewWidgetStore(db)

	w := &domain.WidgetRecord{
		ID: "w1", PageID: "p1", Type: "heading",
		General: `{"text":"Hi"}`, SortOrder: 1, IsVisible: true, IsEnabled: true,
	}
	if err := ws.UpsertWidget(w); err != nil {
		t.Fatal(err)
	}
	w.General = `{"text":"Updated"}`
	if err := ws.UpsertWidget(w); err != nil {
		t.Fatal(err)
	}

	list, err := ws.ListWidgets("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("upsert created a duplicate: %d rows", len(list))
	}
	if list[0].General != `{"text":"Updated"}` {
		t.Errorf("general = %s", list[0].General)
	}
}

func TestWidgetStore_LegacyEmptyArrayBecomesObject(t *testing.T) {
	db := openDB(t)
	seedPage(t, db, "p1")
	ws := storage.NewWidgetStore(db)

	w := &domain.WidgetRecord{
		ID: "w1", PageID: "p1", Type: "text",
		General: "[]", Style: "", Advanced: "null",
		IsVisible: true, IsEnabled: true,
	}
	if err := ws.UpsertWidget(w); err != nil {
		t.Fatal(err)
	}
	got, err := ws.GetWidget("w1")
	if err != nil {
		t.Fatal(err)
	}
	if got.General != "{}" || got.Style != "{}" || got.Advanced != "{}" {
		t.Errorf("legacy settings not coerced: %+v", got)
	}
}

func TestWidgetStore_Prune(t *testing.T) {
	db := openDB(t)
	seedPage(t, db, "p1")
	ws := storage.NewWidgetStore(db)

	for _, id := range []string{"w1", "w2", "w3"} {
		if err := ws.UpsertWidget(&domain.WidgetRecord{ID: id, PageID: "p1", Type: "text"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := ws.PruneWidgets("p1", []string{"w1", "w3"}); err != nil {
		t.Fatal(err)
	}
	list, err := ws.ListWidgets("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("prune kept %d rows", len(list))
	}
	for _, w := range list {
		if w.ID == "w2" {
			t.Error("w2 should be pruned")
		}
	}

	if err := ws.PruneWidgets("p1", nil); err != nil {
		t.Fatal(err)
	}
	list, _ = ws.ListWidgets("p1")
	if len(list) != 0 {
		t.Errorf("empty keep list should remove everything, %d left", len(list))
	}
}

func TestSettingsStore_RoundTrip(t *testing.T) {
	db := openDB(t)
	seedPage(t, db, "p1")
	ss := storage.NewSettingsStore(db)

	rec := &domain.SettingsRecord{ID: "s1", PageID: "p1", Kind: "section", SettingsJSON: `{"padding":"40px"}`}
	if err := ss.UpsertSettings(rec); err != nil {
		t.Fatal(err)
	}
	rec.SettingsJSON = `{"padding":"20px"}`
	if err := ss.UpsertSettings(rec); err != nil {
		t.Fatal(err)
	}

	got, err := ss.GetSettings("s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.SettingsJSON != `{"padding":"20px"}` {
		t.Errorf("settings = %s", got.SettingsJSON)
	}

	list, err := ss.ListSettings("p1", "section")
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, err = %v", list, err)
	}
	if list, _ := ss.ListSettings("p1", "column"); len(list) != 0 {
		t.Error("kind filter leaked")
	}
}

func TestSessionStore_Lifecycle(t *testing.T) {
	db := openDB(t)
	seedPage(t, db, "p1")
	ss := storage.NewSessionStore(db)

	if err := ss.CreateSession(&domain.EditingSession{ID: "e1", PageID: "p1", UserName: "Ana"}); err != nil {
		t.Fatal(err)
	}
	if err := ss.CreateSession(&domain.EditingSession{ID: "e2", PageID: "p1", UserName: "Bo"}); err != nil {
		t.Fatal(err)
	}

	if err := ss.Heartbeat("e1", time.Now()); err != nil {
		t.Fatal(err)
	}

	// Takeover: e2 wins, everyone else on the page is deactivated.
	if err := ss.EndSessionsForPage("p1", "e2"); err != nil {
		t.Fatal(err)
	}
	active, err := ss.ListActiveSessions("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != "e2" {
		t.Fatalf("active = %+v", active)
	}
	if err := ss.Heartbeat("e1", time.Now()); err == nil {
		t.Error("heartbeat on ended session must fail")
	}
}

func TestSessionStore_SweepStale(t *testing.T) {
	db := openDB(t)
	seedPage(t, db, "p1")
	ss := storage.NewSessionStore(db)

	if err := ss.CreateSession(&domain.EditingSession{ID: "old", PageID: "p1"}); err != nil {
		t.Fatal(err)
	}
	if err := ss.Heartbeat("old", time.Now().Add(-10*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := ss.CreateSession(&domain.EditingSession{ID: "fresh", PageID: "p1"}); err != nil {
		t.Fatal(err)
	}

	n, err := ss.SweepStale(time.Now().Add(-2 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("swept %d sessions, want 1", n)
	}
	active, _ := ss.ListActiveSessions("p1")
	if len(active) != 1 || active[0].ID != "fresh" {
		t.Errorf("active = %+v", active)
	}
}
