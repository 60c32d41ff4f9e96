package schema

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads custom widget schemas while the editor runs:
// editing a YAML file in the widgets directory updates the catalog
// without a restart. Events are coalesced, since editors typically
// fire several writes per save.
type Watcher struct {
	catalog  *Catalog
	dir      string
	fw       *fsnotify.Watcher
	onChange func(types []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	done    chan struct{}
}

// Watch starts watching dir for widget schema changes. onChange, when
// non-nil, receives the affected widget types after each reload burst.
func Watch(catalog *Catalog, dir string, onChange func(types []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch widget schemas: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch widget schemas: %w", err)
	}
	w := &Watcher{
		catalog:  catalog,
		dir:      dir,
		fw:       fw,
		onChange: onChange,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !isSchemaFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.queue(ev.Name)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("schema: watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func isSchemaFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// queue coalesces events for 200ms before reloading, so one editor
// save produces one reload.
func (w *Watcher) queue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(200*time.Millisecond, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	var changed []string
	for _, p := range paths {
		ws, err := LoadFile(p)
		if err != nil {
			// Deleted or half-written file; the next write retries.
			log.Printf("schema: reload %s: %v", filepath.Base(p), err)
			continue
		}
		if err := w.catalog.Register(ws); err != nil {
			log.Printf("schema: reload %s: %v", filepath.Base(p), err)
			continue
		}
		changed = append(changed, ws.Type)
	}
	if len(changed) > 0 {
		log.Printf("schema: reloaded %s", strings.Join(changed, ", "))
		if w.onChange != nil {
			w.onChange(changed)
		}
	}
}
