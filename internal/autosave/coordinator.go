package autosave

import (
	"log"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// ─────────────────────────────────────────────────────────────
// Coordinator — decides when mutations hit persistence
// ─────────────────────────────────────────────────────────────

// SaveFunc performs one full save of the current page state.
type SaveFunc func(reason string) error

// State is the save status surfaced to the UI.
type State struct {
	IsSaving  bool      `json:"is_saving"`
	LastSaved time.Time `json:"last_saved"`
	SaveError string    `json:"save_error"`
}

// Coordinator owns the save lifecycle. Structural mutations request an
// immediate save; settings edits never reach it and persist only on
// explicit user action. Saves are single-flight: a request arriving
// while one is in flight is not queued — it folds into a single
// trailing retry once the in-flight save returns, so a burst of
// structural edits costs at most two writes.
type Coordinator struct {
	mu        sync.Mutex
	save      SaveFunc
	debounced func(func())
	notify    func(State)

	isSaving  bool
	pending   bool
	lastSaved time.Time
	saveErr   error

	wg  sync.WaitGroup
	now func() time.Time
}

// New creates a coordinator around save. interval is the debounce
// window for burst coalescing; zero selects the 1.5s default. notify,
// when non-nil, is invoked after every state transition (the app layer
// forwards it to the frontend as an event).
func New(save SaveFunc, interval time.Duration, notify func(State)) *Coordinator {
	if interval <= 0 {
		interval = 1500 * time.Millisecond
	}
	return &Coordinator{
		save:      save,
		debounced: debounce.New(interval),
		notify:    notify,
		now:       time.Now,
	}
}

// StructuralChange satisfies the store's scheduler hook: every
// structural mutation requests an immediate save.
func (c *Coordinator) StructuralChange(reason string) {
	c.Request(reason)
}

// Request attempts a save now. If one is already in flight the request
// is absorbed into a single retry after it completes.
func (c *Coordinator) Request(reason string) {
	c.mu.Lock()
	if c.isSaving {
		c.pending = true
		c.mu.Unlock()
		return
	}
	c.isSaving = true
	c.mu.Unlock()
	c.emit()

	c.wg.Add(1)
	go c.run(reason)
}

// RequestDebounced coalesces a burst of rapid calls into one trailing
// save once the window goes quiet.
func (c *Coordinator) RequestDebounced(reason string) {
	c.debounced(func() { c.Request(reason) })
}

func (c *Coordinator) run(reason string) {
	defer c.wg.Done()
	for {
		err := c.save(reason)

		c.mu.Lock()
		c.saveErr = err
		if err == nil {
			c.lastSaved = c.now()
		} else {
			log.Printf("autosave: save failed (%s): %v", reason, err)
		}
		if c.pending {
			c.pending = false
			c.mu.Unlock()
			c.emit()
			reason = "retry after in-flight save"
			continue
		}
		c.isSaving = false
		c.mu.Unlock()
		c.emit()
		return
	}
}

// State returns the current save status.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{IsSaving: c.isSaving, LastSaved: c.lastSaved}
	if c.saveErr != nil {
		s.SaveError = c.saveErr.Error()
	}
	return s
}

// Err returns the last save error, or nil.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveErr
}

// Wait blocks until every in-flight save (including folded retries) has
// returned. Used on shutdown and in tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) emit() {
	if c.notify != nil {
		c.notify(c.State())
	}
}
