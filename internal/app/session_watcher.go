package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// sessionWatcher polls the database for changes to the active page,
// detecting external modifications (e.g. from the MCP standalone
// process or another editor instance) and emitting Wails events so
// the frontend auto-refreshes.
type sessionWatcher struct {
	ctx context.Context
	app *App
	mu  sync.Mutex
	// Active page tracking
	pageID      string
	lastPage    string // page version + updated_at fingerprint
	lastWidgets string // widgets fingerprint (count + max updated_at)
	lastEditors string // active-session fingerprint (count + max heartbeat)
	stopCh      chan struct{}
}

func newSessionWatcher(ctx context.Context, app *App) *sessionWatcher {
	return &sessionWatcher{ctx: ctx, app: app}
}

// SetPage updates the watched page ID. Called when the user opens a page.
func (w *sessionWatcher) SetPage(pageID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pageID = pageID
	// Reset tracked state when switching pages
	w.lastPage = ""
	w.lastWidgets = ""
	w.lastEditors = ""
}

// Start begins the polling loop. Should be called once on app startup.
func (w *sessionWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *sessionWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
	}
}

func (w *sessionWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *sessionWatcher) check() {
	w.mu.Lock()
	pageID := w.pageID
	w.mu.Unlock()

	if pageID == "" {
		return
	}

	db := w.app.db.Conn()

	// ── Check page version / updated_at ─────────────────
	var pageVersion int64
	var pageUpdated string
	err := db.QueryRow(
		`SELECT version, COALESCE(updated_at, '') FROM pages WHERE id = ?`, pageID,
	).Scan(&pageVersion, &pageUpdated)
	if err != nil {
		return
	}

	// ── Check widgets MAX(updated_at) and count ─────────
	var widgetCount int
	var widgetUpdated string
	err = db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM widgets WHERE page_id = ?`, pageID,
	).Scan(&widgetCount, &widgetUpdated)
	if err != nil {
		return
	}

	// ── Check active editing sessions ───────────────────
	var editorCount int
	var editorHeartbeat string
	err = db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(last_heartbeat), '') FROM editing_sessions WHERE page_id = ? AND active = 1`, pageID,
	).Scan(&editorCount, &editorHeartbeat)
	if err != nil {
		return
	}

	// ── Build fingerprints and compare ──────────────────
	pageFingerprint := fmt.Sprintf("%d:%s", pageVersion, pageUpdated)
	widgetFingerprint := fmt.Sprintf("%d:%s", widgetCount, widgetUpdated)
	editorFingerprint := fmt.Sprintf("%d:%s", editorCount, editorHeartbeat)

	w.mu.Lock()
	pageChanged := w.lastPage != "" && w.lastPage != pageFingerprint
	widgetsChanged := w.lastWidgets != "" && w.lastWidgets != widgetFingerprint
	editorsChanged := w.lastEditors != "" && w.lastEditors != editorFingerprint
	w.lastPage = pageFingerprint
	w.lastWidgets = widgetFingerprint
	w.lastEditors = editorFingerprint
	w.mu.Unlock()

	// ── Emit events ────────────────────────────────────
	if pageChanged {
		wailsRuntime.EventsEmit(w.ctx, "page:changed-externally", map[string]string{"pageId": pageID})
	}
	if widgetsChanged {
		wailsRuntime.EventsEmit(w.ctx, "widgets:changed-externally", map[string]string{"pageId": pageID})
	}
	if editorsChanged {
		wailsRuntime.EventsEmit(w.ctx, "session:editors", map[string]any{
			"pageId":  pageID,
			"editors": editorCount,
		})
	}
}
