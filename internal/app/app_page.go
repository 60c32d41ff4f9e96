package app

import (
	"fmt"

	"pagecraft/internal/autosave"
	"pagecraft/internal/domain"
	"pagecraft/internal/publish"
)

// ── page bindings ──────────────────────────────────────────

func (a *App) CreatePage(title string) (*domain.PageRecord, error) {
	return a.editor.CreatePage(title)
}

func (a *App) ListPages() ([]domain.PageRecord, error) {
	return a.editor.ListPages()
}

// LoadPage opens a page for editing and points the session watcher at
// it.
func (a *App) LoadPage(pageID string) (*domain.PageContent, error) {
	pc, err := a.editor.LoadPage(pageID)
	if err != nil {
		return nil, err
	}
	a.watcher.SetPage(pageID)
	return pc, nil
}

// GetPageContent returns the current in-memory tree.
func (a *App) GetPageContent() *domain.PageContent {
	return a.editor.Store().Content()
}

// SaveNow triggers an immediate full save, e.g. the toolbar button.
func (a *App) SaveNow() {
	a.editor.SaveNow()
}

// GetSaveState returns {isSaving, lastSaved, saveError} for the status
// indicator.
func (a *App) GetSaveState() autosave.State {
	return a.editor.SaveState()
}

// IsDirty reports whether the tree differs from the last saved
// snapshot.
func (a *App) IsDirty() bool {
	return a.editor.Store().IsDirty()
}

// DiscardChanges resets the tree to the last loaded/saved snapshot.
func (a *App) DiscardChanges() {
	a.editor.Store().ResetChanges()
}

// ── publishing ─────────────────────────────────────────────

// ConfigurePublishTarget stores the publish destination. The password
// goes to the secret store, keyed by connection name; the rest of the
// config stays in memory.
func (a *App) ConfigurePublishTarget(conn publish.Connection, password string) error {
	if password != "" {
		if err := a.secrets.Set(conn.Name, []byte(password)); err != nil {
			return fmt.Errorf("store publish password: %w", err)
		}
	}
	a.publishMu.Lock()
	a.publishConn = &conn
	a.publishMu.Unlock()
	return nil
}

func (a *App) openPublishTarget() (publish.Target, error) {
	a.publishMu.Lock()
	conn := a.publishConn
	a.publishMu.Unlock()
	if conn == nil {
		return nil, nil
	}
	password, err := a.secrets.Get(conn.Name)
	if err != nil {
		return nil, fmt.Errorf("read publish password: %w", err)
	}
	return publish.NewTarget(conn, string(password))
}

// TestPublishTarget verifies connectivity to the configured
// destination.
func (a *App) TestPublishTarget() error {
	target, err := a.openPublishTarget()
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("no publish target configured")
	}
	defer target.Close()
	return target.Test(a.ctx)
}

// PublishPage saves, marks the page published, and pushes it to the
// configured destination when there is one.
func (a *App) PublishPage() error {
	target, err := a.openPublishTarget()
	if err != nil {
		return err
	}
	if target != nil {
		defer target.Close()
	}
	return a.editor.Publish(a.ctx, target)
}

// UnpublishPage removes the page from the destination and clears the
// published flag.
func (a *App) UnpublishPage() error {
	target, err := a.openPublishTarget()
	if err != nil {
		return err
	}
	if target != nil {
		defer target.Close()
	}
	return a.editor.Unpublish(a.ctx, target)
}
