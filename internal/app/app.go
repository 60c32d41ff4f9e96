package app

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pagecraft/internal/dnd"
	"pagecraft/internal/domain"
	"pagecraft/internal/fields"
	"pagecraft/internal/outline"
	"pagecraft/internal/publish"
	"pagecraft/internal/schema"
	"pagecraft/internal/secret"
	"pagecraft/internal/service"
	"pagecraft/internal/session"
	"pagecraft/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db       *storage.DB
	registry *fields.Registry
	catalog  *schema.Catalog
	editor   *service.EditorService
	dnd      *dnd.Interpreter
	outline  *outline.Projector
	sessions *session.Service
	secrets  secret.SecretStore

	schemaWatch *schema.Watcher
	watcher     *sessionWatcher

	// Ephemeral drag gesture state, reset on every drag end.
	dragMu sync.Mutex
	drag   domain.DragState

	// Publish destination; configured from the settings screen.
	publishMu   sync.Mutex
	publishConn *publish.Connection

	// Editing session for the currently open page.
	sessionMu sync.Mutex
	sessionID string
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Emit implements service.EventEmitter by delegating to wailsRuntime.
func (a *App) Emit(_ context.Context, event string, data any) {
	if a.ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(a.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "pagecraft")
	dbPath := filepath.Join(dataDir, "pagecraft.db")

	db, err := storage.New(dbPath)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db

	a.registry = fields.NewRegistry()
	a.catalog = schema.NewCatalog(a.registry)

	// Custom widget schemas: load once, then hot-reload on file changes.
	widgetDir := filepath.Join(dataDir, "widgets")
	if err := os.MkdirAll(widgetDir, 0755); err == nil {
		if _, err := schema.LoadInto(a.catalog, widgetDir); err != nil {
			log.Printf("app: load custom widgets: %v", err)
		}
		watch, err := schema.Watch(a.catalog, widgetDir, func(types []string) {
			a.Emit(ctx, "widgets:reloaded", types)
		})
		if err != nil {
			log.Printf("app: watch custom widgets: %v", err)
		} else {
			a.schemaWatch = watch
		}
	}

	a.editor = service.NewEditorService(
		storage.NewPageStore(db),
		storage.NewWidgetStore(db),
		storage.NewSettingsStore(db),
		a.catalog,
		a,
		nil,
	)
	a.dnd = dnd.NewInterpreter(a.editor.Store())
	a.outline = outline.NewProjector(a.editor.Store(), a.catalog)

	a.sessions = session.NewService(storage.NewSessionStore(db), 2*time.Minute)
	if err := a.sessions.StartJanitor(); err != nil {
		log.Printf("app: session janitor: %v", err)
	}

	a.secrets = secret.NewKeychainStore()

	a.watcher = newSessionWatcher(ctx, a)
	a.watcher.Start()
}

// Shutdown is called when the app terminates.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.schemaWatch != nil {
		a.schemaWatch.Close()
	}
	if a.sessions != nil {
		a.sessions.Stop()
	}
	if a.editor != nil {
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		a.editor.Shutdown(flushCtx)
	}
	if a.db != nil {
		a.db.Close()
	}
}
