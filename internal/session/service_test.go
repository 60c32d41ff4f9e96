package session_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pagecraft/internal/domain"
	"pagecraft/internal/session"
	"pagecraft/internal/storage"
)

func newService(t *testing.T) (*session.Service, *storage.SessionStore) {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "pagecraft.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.NewPageStore(db).CreatePage(&domain.PageRecord{ID: "p1"}); err != nil {
		t.Fatal(err)
	}
	store := storage.NewSessionStore(db)
	return session.NewService(store, time.Minute), store
}

func TestStart_LocksAgainstOtherUsers(t *testing.T) {
	svc, _ := newService(t)

	first, others, err := svc.Start("p1", "u1", "Ana")
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || len(others) != 0 {
		t.Fatalf("first start: sess=%v others=%v", first, others)
	}

	_, others, err = svc.Start("p1", "u2", "Bo")
	if !errors.Is(err, session.ErrPageLocked) {
		t.Fatalf("second user should be locked out, err = %v", err)
	}
	if len(others) != 1 || others[0].UserName != "Ana" {
		t.Errorf("locked response should name the current editor: %+v", others)
	}
}

func TestStart_SameUserReenters(t *testing.T) {
	svc, _ := newService(t)

	first, _, err := svc.Start("p1", "u1", "Ana")
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := svc.Start("p1", "u1", "Ana")
	if err != nil {
		t.Fatalf("same user must be able to re-enter: %v", err)
	}
	if second.ID == first.ID {
		t.Error("re-entry should mint a new session")
	}
	editors, err := svc.Editors("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(editors) != 1 || editors[0].ID != second.ID {
		t.Errorf("old session should be closed: %+v", editors)
	}
}

func TestTakeover(t *testing.T) {
	svc, _ := newService(t)

	if _, _, err := svc.Start("p1", "u1", "Ana"); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Takeover("p1", "u2", "Bo")
	if err != nil {
		t.Fatal(err)
	}
	editors, err := svc.Editors("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(editors) != 1 || editors[0].ID != sess.ID {
		t.Fatalf("takeover should leave only the new session: %+v", editors)
	}
}

func TestSweep(t *testing.T) {
	svc, store := newService(t)

	sess, _, err := svc.Start("p1", "u1", "Ana")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Heartbeat(sess.ID, time.Now().Add(-5*time.Minute)); err != nil {
		t.Fatal(err)
	}

	n, err := svc.Sweep()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if err := svc.Heartbeat(sess.ID); err == nil {
		t.Error("swept session must reject heartbeats")
	}
}
