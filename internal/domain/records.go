package domain

import "time"

// PageRecord is the persisted form of a page: the layout-only content
// tree as JSON plus publication state and a monotonic version used to
// reject stale writes.
type PageRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ContentJSON string    `json:"content_json"`
	IsPublished bool      `json:"is_published"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WidgetRecord is the persisted form of a widget's full settings,
// stored separately from the page layout.
type WidgetRecord struct {
	ID        string    `json:"id"`
	PageID    string    `json:"page_id"`
	Type      string    `json:"type"`
	General   string    `json:"general_json"`
	Style     string    `json:"style_json"`
	Advanced  string    `json:"advanced_json"`
	SortOrder int       `json:"sort_order"`
	IsVisible bool      `json:"is_visible"`
	IsEnabled bool      `json:"is_enabled"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsRecord holds persisted settings for a section or a column.
type SettingsRecord struct {
	ID           string    `json:"id"`
	PageID       string    `json:"page_id"`
	Kind         string    `json:"kind"` // "section" | "column"
	SettingsJSON string    `json:"settings_json"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EditingSession is a conflict-avoidance record: one editor holding a
// page open. The content tree never depends on its outcome beyond
// optionally blocking entry into edit mode.
type EditingSession struct {
	ID            string    `json:"id"`
	PageID        string    `json:"page_id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	StartedAt     time.Time `json:"started_at"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	Active        bool      `json:"active"`
}

// PageStore persists page records.
type PageStore interface {
	CreatePage(p *PageRecord) error
	GetPage(id string) (*PageRecord, error)
	ListPages() ([]PageRecord, error)
	// SavePage writes the record if its version is newer than the stored
	// one; a stale version returns ErrStaleVersion and leaves the row
	// untouched.
	SavePage(p *PageRecord) error
	SetPublished(id string, published bool) error
	DeletePage(id string) error
}

// WidgetStore persists widget records.
type WidgetStore interface {
	UpsertWidget(w *WidgetRecord) error
	GetWidget(id string) (*WidgetRecord, error)
	ListWidgets(pageID string) ([]WidgetRecord, error)
	DeleteWidget(id string) error
	// PruneWidgets removes records for the page whose ids are not in keep.
	PruneWidgets(pageID string, keep []string) error
}

// SettingsStore persists section and column settings.
type SettingsStore interface {
	UpsertSettings(rec *SettingsRecord) error
	GetSettings(id string) (*SettingsRecord, error)
	ListSettings(pageID, kind string) ([]SettingsRecord, error)
	DeleteSettings(id string) error
}

// SessionStore persists editing sessions.
type SessionStore interface {
	CreateSession(s *EditingSession) error
	GetSession(id string) (*EditingSession, error)
	Heartbeat(id string, at time.Time) error
	EndSession(id string) error
	// EndSessionsForPage deactivates every session on the page except the
	// one with keepID (takeover semantics; keepID may be empty).
	EndSessionsForPage(pageID, keepID string) error
	ListActiveSessions(pageID string) ([]EditingSession, error)
	// SweepStale deactivates sessions whose heartbeat is older than cutoff
	// and returns how many were closed.
	SweepStale(cutoff time.Time) (int, error)
}
