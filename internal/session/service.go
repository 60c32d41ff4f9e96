// Package session tracks who is editing which page. Sessions are a
// conflict-avoidance signal only: the content tree never depends on
// their outcome beyond optionally blocking entry into edit mode.
package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"pagecraft/internal/domain"
)

// ErrPageLocked is returned by Start when another user already holds an
// active session on the page. The caller can surface the editors and
// offer a takeover.
var ErrPageLocked = errors.New("page is being edited by another user")

// Service manages editing sessions over a SessionStore and runs a
// periodic janitor that closes sessions whose editor went away without
// ending them (crashed tab, lost network).
type Service struct {
	store      domain.SessionStore
	staleAfter time.Duration
	cron       *cron.Cron
}

// NewService creates a session service. staleAfter is how long a
// session may miss heartbeats before the janitor closes it; zero
// selects two minutes.
func NewService(store domain.SessionStore, staleAfter time.Duration) *Service {
	if staleAfter <= 0 {
		staleAfter = 2 * time.Minute
	}
	return &Service{store: store, staleAfter: staleAfter}
}

// Start opens an editing session on the page. When a different user
// already holds one, it returns ErrPageLocked along with the active
// sessions so the UI can show who is inside. The same user re-entering
// their own page simply gets a fresh session.
func (s *Service) Start(pageID, userID, userName string) (*domain.EditingSession, []domain.EditingSession, error) {
	active, err := s.store.ListActiveSessions(pageID)
	if err != nil {
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	for _, a := range active {
		if a.UserID != userID {
			return nil, active, ErrPageLocked
		}
	}
	// Re-entry closes the user's previous sessions on this page.
	for _, a := range active {
		if err := s.store.EndSession(a.ID); err != nil {
			log.Printf("session: end previous session %s: %v", a.ID, err)
		}
	}

	sess := &domain.EditingSession{
		ID:       uuid.NewString(),
		PageID:   pageID,
		UserID:   userID,
		UserName: userName,
	}
	if err := s.store.CreateSession(sess); err != nil {
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	return sess, nil, nil
}

// Heartbeat marks the session alive.
func (s *Service) Heartbeat(id string) error {
	return s.store.Heartbeat(id, time.Now())
}

// End closes the session.
func (s *Service) End(id string) error {
	return s.store.EndSession(id)
}

// Takeover forcibly closes every other session on the page and opens a
// new one for the requesting user.
func (s *Service) Takeover(pageID, userID, userName string) (*domain.EditingSession, error) {
	sess := &domain.EditingSession{
		ID:       uuid.NewString(),
		PageID:   pageID,
		UserID:   userID,
		UserName: userName,
	}
	if err := s.store.CreateSession(sess); err != nil {
		return nil, fmt.Errorf("takeover: %w", err)
	}
	if err := s.store.EndSessionsForPage(pageID, sess.ID); err != nil {
		return nil, fmt.Errorf("takeover: %w", err)
	}
	return sess, nil
}

// Editors returns the active sessions on a page.
func (s *Service) Editors(pageID string) ([]domain.EditingSession, error) {
	return s.store.ListActiveSessions(pageID)
}

// Sweep closes sessions whose last heartbeat is older than the stale
// window and returns how many were closed.
func (s *Service) Sweep() (int, error) {
	return s.store.SweepStale(time.Now().Add(-s.staleAfter))
}

// StartJanitor schedules a periodic sweep. Call Stop on shutdown.
func (s *Service) StartJanitor() error {
	if s.cron != nil {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		n, err := s.Sweep()
		if err != nil {
			log.Printf("session: sweep: %v", err)
			return
		}
		if n > 0 {
			log.Printf("session: closed %d stale sessions", n)
		}
	})
	if err != nil {
		return fmt.Errorf("start janitor: %w", err)
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the janitor.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}
