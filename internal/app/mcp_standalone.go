package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"pagecraft/internal/fields"
	mcpserver "pagecraft/internal/mcp"
	"pagecraft/internal/schema"
	"pagecraft/internal/service"
	"pagecraft/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage and the editor service and runs until interrupted.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "pagecraft")
	dbPath := filepath.Join(dataDir, "pagecraft.db")

	db, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	registry := fields.NewRegistry()
	catalog := schema.NewCatalog(registry)
	if _, err := schema.LoadInto(catalog, filepath.Join(dataDir, "widgets")); err != nil {
		log.Printf("load custom widgets: %v", err)
	}

	emitter := noopEmitter{}
	editor := service.NewEditorService(
		storage.NewPageStore(db),
		storage.NewWidgetStore(db),
		storage.NewSettingsStore(db),
		catalog,
		emitter,
		nil,
	)

	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter: emitter,
		Editor:  editor,
		Catalog: catalog,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
	editor.Shutdown(context.Background())
}
