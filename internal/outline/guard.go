package outline

import (
	"sync"
	"time"
)

// ─────────────────────────────────────────────────────────────
// rapidOpGuard — circuit breaker for runaway drag loops
// ─────────────────────────────────────────────────────────────

// rapidOpGuard blocks further drag operations when too many complete
// inside a short window. Malformed drop-zone geometry can make a drag
// library fire drag-end events in a tight loop; without a breaker that
// loop reorders the tree dozens of times per second.
type rapidOpGuard struct {
	mu        sync.Mutex
	window    time.Duration
	threshold int
	stamps    []time.Time
	tripped   bool
	now       func() time.Time
}

func newRapidOpGuard(threshold int, window time.Duration) *rapidOpGuard {
	return &rapidOpGuard{
		window:    window,
		threshold: threshold,
		now:       time.Now,
	}
}

// Allow records one completed operation and reports whether it may
// proceed. Once the threshold is exceeded within the window the guard
// trips and stays tripped until Reset is called.
func (g *rapidOpGuard) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tripped {
		return false
	}
	now := g.now()
	cutoff := now.Add(-g.window)
	kept := g.stamps[:0]
	for _, t := range g.stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	g.stamps = append(kept, now)
	if len(g.stamps) > g.threshold {
		g.tripped = true
		return false
	}
	return true
}

// Tripped reports whether the breaker is currently open.
func (g *rapidOpGuard) Tripped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tripped
}

// Reset closes the breaker and clears the operation history.
func (g *rapidOpGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tripped = false
	g.stamps = g.stamps[:0]
}
