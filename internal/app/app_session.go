package app

import (
	"errors"

	"pagecraft/internal/domain"
	"pagecraft/internal/session"
)

// ── editing-session bindings ───────────────────────────────

// EditingStatus tells the frontend whether it holds the edit lock and
// who else is on the page.
type EditingStatus struct {
	SessionID string                  `json:"session_id,omitempty"`
	Locked    bool                    `json:"locked"`
	Editors   []domain.EditingSession `json:"editors,omitempty"`
}

// StartEditing opens an editing session on a page. When another user
// already holds one, Locked is true and Editors names them.
func (a *App) StartEditing(pageID, userID, userName string) (*EditingStatus, error) {
	sess, others, err := a.sessions.Start(pageID, userID, userName)
	if errors.Is(err, session.ErrPageLocked) {
		return &EditingStatus{Locked: true, Editors: others}, nil
	}
	if err != nil {
		return nil, err
	}
	a.sessionMu.Lock()
	a.sessionID = sess.ID
	a.sessionMu.Unlock()
	return &EditingStatus{SessionID: sess.ID}, nil
}

// HeartbeatEditing keeps the current session alive.
func (a *App) HeartbeatEditing() error {
	a.sessionMu.Lock()
	id := a.sessionID
	a.sessionMu.Unlock()
	if id == "" {
		return nil
	}
	return a.sessions.Heartbeat(id)
}

// StopEditing ends the current session.
func (a *App) StopEditing() error {
	a.sessionMu.Lock()
	id := a.sessionID
	a.sessionID = ""
	a.sessionMu.Unlock()
	if id == "" {
		return nil
	}
	return a.sessions.End(id)
}

// TakeoverEditing forcibly closes other sessions on the page and opens
// a new one for this user.
func (a *App) TakeoverEditing(pageID, userID, userName string) (*EditingStatus, error) {
	sess, err := a.sessions.Takeover(pageID, userID, userName)
	if err != nil {
		return nil, err
	}
	a.sessionMu.Lock()
	a.sessionID = sess.ID
	a.sessionMu.Unlock()
	a.Emit(a.ctx, "session:takeover", pageID)
	return &EditingStatus{SessionID: sess.ID}, nil
}

// GetEditors lists the active editors on a page.
func (a *App) GetEditors(pageID string) ([]domain.EditingSession, error) {
	return a.sessions.Editors(pageID)
}
