package storage

import (
	"fmt"
	"time"

	"pagecraft/internal/domain"
)

// SessionStore implements domain.SessionStore using SQLite.
type SessionStore struct {
	db *DB
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) CreateSession(sess *domain.EditingSession) error {
	now := time.Now()
	sess.StartedAt = now
	sess.LastHeartbeat = now
	sess.Active = true
	_, err := s.db.Conn().Exec(
		`INSERT INTO editing_sessions (id, page_id, user_id, user_name, started_at, last_heartbeat, active) VALUES (?, ?, ?, ?, ?, ?, 1)`,
		sess.ID, sess.PageID, sess.UserID, sess.UserName, sess.StartedAt, sess.LastHeartbeat,
	)
	return err
}

func (s *SessionStore) GetSession(id string) (*domain.EditingSession, error) {
	sess := &domain.EditingSession{}
	err := s.db.Conn().QueryRow(
		`SELECT id, page_id, user_id, user_name, started_at, last_heartbeat, active FROM editing_sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.PageID, &sess.UserID, &sess.UserName, &sess.StartedAt, &sess.LastHeartbeat, &sess.Active)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) Heartbeat(id string, at time.Time) error {
	res, err := s.db.Conn().Exec(
		`UPDATE editing_sessions SET last_heartbeat = ? WHERE id = ? AND active = 1`, at, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("heartbeat: session %s not active", id)
	}
	return nil
}

func (s *SessionStore) EndSession(id string) error {
	_, err := s.db.Conn().Exec(`UPDATE editing_sessions SET active = 0 WHERE id = ?`, id)
	return err
}

func (s *SessionStore) EndSessionsForPage(pageID, keepID string) error {
	_, err := s.db.Conn().Exec(
		`UPDATE editing_sessions SET active = 0 WHERE page_id = ? AND id != ?`, pageID, keepID,
	)
	return err
}

func (s *SessionStore) ListActiveSessions(pageID string) ([]domain.EditingSession, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, page_id, user_id, user_name, started_at, last_heartbeat, active FROM editing_sessions WHERE page_id = ? AND active = 1 ORDER BY started_at ASC`,
		pageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.EditingSession
	for rows.Next() {
		var sess domain.EditingSession
		if err := rows.Scan(&sess.ID, &sess.PageID, &sess.UserID, &sess.UserName, &sess.StartedAt, &sess.LastHeartbeat, &sess.Active); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SessionStore) SweepStale(cutoff time.Time) (int, error) {
	res, err := s.db.Conn().Exec(
		`UPDATE editing_sessions SET active = 0 WHERE active = 1 AND last_heartbeat < ?`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
