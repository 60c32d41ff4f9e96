package autosave_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pagecraft/internal/autosave"
)

func TestRequest_SavesOnce(t *testing.T) {
	var calls int32
	c := autosave.New(func(string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, time.Millisecond, nil)

	c.Request("add widget")
	c.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("save calls = %d, want 1", got)
	}
	st := c.State()
	if st.IsSaving || st.SaveError != "" || st.LastSaved.IsZero() {
		t.Errorf("state after success = %+v", st)
	}
}

func TestRequest_InFlightFoldsIntoSingleRetry(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var calls int32

	c := autosave.New(func(string) error {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			once.Do(func() { close(started) })
			<-release
		}
		return nil
	}, time.Millisecond, nil)

	c.Request("first")
	<-started
	// Three requests land while the first save is blocked; they must
	// collapse into exactly one trailing save, not a queue of three.
	c.Request("second")
	c.Request("third")
	c.Request("fourth")
	close(release)
	c.Wait()

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("save calls = %d, want 2 (initial + one folded retry)", got)
	}
}

func TestRequest_FailureKeepsErrorAndTreeIntact(t *testing.T) {
	boom := errors.New("network down")
	c := autosave.New(func(string) error { return boom }, time.Millisecond, nil)

	c.Request("remove section")
	c.Wait()

	if !errors.Is(c.Err(), boom) {
		t.Fatalf("Err() = %v, want %v", c.Err(), boom)
	}
	st := c.State()
	if st.SaveError == "" || !st.LastSaved.IsZero() {
		t.Errorf("failed save must set SaveError and not advance LastSaved: %+v", st)
	}
}

func TestRequest_ErrorClearedBySuccess(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	c := autosave.New(func(string) error {
		if fail.Load() {
			return errors.New("transient")
		}
		return nil
	}, time.Millisecond, nil)

	c.Request("first")
	c.Wait()
	if c.Err() == nil {
		t.Fatal("expected failure recorded")
	}

	fail.Store(false)
	c.Request("second")
	c.Wait()
	if c.Err() != nil {
		t.Fatalf("success must clear SaveError, got %v", c.Err())
	}
}

func TestRequestDebounced_CoalescesBurst(t *testing.T) {
	var calls int32
	c := autosave.New(func(string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, 20*time.Millisecond, nil)

	for i := 0; i < 10; i++ {
		c.RequestDebounced("typing burst")
		time.Sleep(time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)
	c.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("debounced burst produced %d saves, want 1 trailing save", got)
	}
}

func TestNotify_ReportsTransitions(t *testing.T) {
	var mu sync.Mutex
	var states []autosave.State
	done := make(chan struct{})

	c := autosave.New(func(string) error { return nil }, time.Millisecond, func(s autosave.State) {
		mu.Lock()
		states = append(states, s)
		if !s.IsSaving && len(states) >= 2 {
			select {
			case <-done:
			default:
				close(done)
			}
		}
		mu.Unlock()
	})

	c.Request("add widget")
	<-done
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !states[0].IsSaving {
		t.Error("first transition should report saving")
	}
	last := states[len(states)-1]
	if last.IsSaving || last.LastSaved.IsZero() {
		t.Errorf("final transition should report idle with LastSaved set: %+v", last)
	}
}
