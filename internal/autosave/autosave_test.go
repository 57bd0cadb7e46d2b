package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atelier-studio/atelier/internal/clock"
)

// taskQueue is a launcher that holds save tasks until the test runs
// them, making completion order fully deterministic.
type taskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *taskQueue) launch(task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

// runNext executes the oldest queued task.
func (q *taskQueue) runNext(t *testing.T) {
	t.Helper()
	q.mu.Lock()
	if len(q.tasks) == 0 {
		q.mu.Unlock()
		t.Fatal("no queued save task")
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	q.mu.Unlock()
	task()
}

func (q *taskQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// recorder tracks save calls and hook firings.
type recorder struct {
	mu      sync.Mutex
	saves   []string // content of each save call
	dirty   []string
	saved   []string
	errors  []string
	saveErr error
	savedAt time.Time
}

func (r *recorder) saveFunc(_ context.Context, fileID string, content []byte) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, string(content))
	if r.saveErr != nil {
		return time.Time{}, r.saveErr
	}
	return r.savedAt, nil
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnDirty: func(id string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.dirty = append(r.dirty, id)
		},
		OnSaved: func(id string, _ time.Time) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.saved = append(r.saved, id)
		},
		OnError: func(id string, err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errors = append(r.errors, id+": "+err.Error())
		},
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *clock.Fake, *taskQueue, *recorder) {
	t.Helper()
	c := clock.NewFake()
	q := &taskQueue{}
	r := &recorder{savedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := NewScheduler(r.saveFunc, r.hooks(), WithClock(c), WithLauncher(q.launch))
	t.Cleanup(s.Close)
	return s, c, q, r
}

func TestForgetAllDropsEveryPendingSave(t *testing.T) {
	s, c, q, r := newTestScheduler(t)

	s.Edit("doc-1", []byte("a"))
	s.Edit("doc-2", []byte("b"))

	s.ForgetAll()
	c.Advance(DefaultDebounce)

	if q.pending() != 0 {
		t.Errorf("pending saves = %d, want 0 after ForgetAll", q.pending())
	}
	if len(r.saves) != 0 {
		t.Errorf("saves = %v, want none", r.saves)
	}
	if s.Status("doc-1") != Clean || s.Status("doc-2") != Clean {
		t.Error("forgotten files should report Clean")
	}
}

func TestCoalescingSingleSave(t *testing.T) {
	s, c, q, r := newTestScheduler(t)

	// Burst of edits within the window, then silence
	s.Edit("doc-1", []byte("v1"))
	c.Advance(500 * time.Millisecond)
	s.Edit("doc-1", []byte("v2"))
	c.Advance(1500 * time.Millisecond)
	s.Edit("doc-1", []byte("v3"))

	if q.pending() != 0 {
		t.Fatal("no save should start before the debounce elapses")
	}

	c.Advance(DefaultDebounce)
	if q.pending() != 1 {
		t.Fatalf("pending saves = %d, want 1", q.pending())
	}
	q.runNext(t)

	if len(r.saves) != 1 || r.saves[0] != "v3" {
		t.Errorf("saves = %v, want exactly [v3]", r.saves)
	}
	if s.Status("doc-1") != Clean {
		t.Errorf("status = %v, want Clean", s.Status("doc-1"))
	}
}

func TestDebounceScenario(t *testing.T) {
	s, c, q, r := newTestScheduler(t)

	// Edit, wait 1.5s of a 2s window, edit again: the save fires 2s
	// after the second edit, carrying the latest content.
	s.Edit("doc-1", []byte("first"))
	c.Advance(1500 * time.Millisecond)
	s.Edit("doc-1", []byte("second"))

	c.Advance(1900 * time.Millisecond)
	if q.pending() != 0 {
		t.Fatal("save fired before the restarted window elapsed")
	}

	c.Advance(100 * time.Millisecond)
	if q.pending() != 1 {
		t.Fatalf("pending saves = %d, want 1", q.pending())
	}
	q.runNext(t)

	if len(r.saves) != 1 || r.saves[0] != "second" {
		t.Errorf("saves = %v, want [second]", r.saves)
	}
}

func TestDirtyHookFiresOnceUntilSaved(t *testing.T) {
	s, c, q, r := newTestScheduler(t)

	s.Edit("doc-1", []byte("a"))
	s.Edit("doc-1", []byte("ab"))
	s.Edit("doc-1", []byte("abc"))

	if len(r.dirty) != 1 {
		t.Errorf("dirty hook fired %d times, want 1", len(r.dirty))
	}

	c.Advance(DefaultDebounce)
	q.runNext(t)

	// After a successful save the next edit is a fresh transition
	s.Edit("doc-1", []byte("abcd"))
	if len(r.dirty) != 2 {
		t.Errorf("dirty hook fired %d times, want 2", len(r.dirty))
	}
}

func TestStaleCompletionDoesNotClean(t *testing.T) {
	s, c, q, r := newTestScheduler(t)

	s.Edit("doc-1", []byte("v1"))
	c.Advance(DefaultDebounce) // save A queued, in flight

	// Edit while A is in flight, and let its window elapse too
	s.Edit("doc-1", []byte("v2"))
	c.Advance(DefaultDebounce)

	// A completes successfully, but it covers v1 only
	q.runNext(t)
	if len(r.saved) != 0 {
		t.Error("stale completion must not report the file clean")
	}
	if s.Status("doc-1") == Clean {
		t.Error("file must stay dirty until the newer edit is persisted")
	}

	// The follow-up save carries v2 and cleans the file
	if q.pending() != 1 {
		t.Fatalf("pending saves = %d, want the follow-up", q.pending())
	}
	q.runNext(t)
	if len(r.saves) != 2 || r.saves[1] != "v2" {
		t.Errorf("saves = %v, want [v1 v2]", r.saves)
	}
	if s.Status("doc-1") != Clean {
		t.Errorf("status = %v, want Clean", s.Status("doc-1"))
	}
	if len(r.saved) != 1 {
		t.Errorf("saved hook fired %d times, want 1", len(r.saved))
	}
}

func TestSaveFailureLeavesDirty(t *testing.T) {
	s, c, q, r := newTestScheduler(t)
	r.saveErr = errors.New("server unavailable")

	s.Edit("doc-1", []byte("v1"))
	c.Advance(DefaultDebounce)
	q.runNext(t)

	if len(r.errors) != 1 {
		t.Fatalf("error hook fired %d times, want 1", len(r.errors))
	}
	if s.Status("doc-1") != PendingSave {
		t.Errorf("status = %v, want PendingSave", s.Status("doc-1"))
	}

	// No automatic retry
	c.Advance(10 * DefaultDebounce)
	if q.pending() != 0 {
		t.Error("failed save must not be retried automatically")
	}

	// A later edit schedules a fresh save of the newest content
	s.Edit("doc-1", []byte("v2"))
	r.saveErr = nil
	c.Advance(DefaultDebounce)
	q.runNext(t)
	if s.Status("doc-1") != Clean {
		t.Errorf("status = %v, want Clean after recovery", s.Status("doc-1"))
	}
}

func TestFlushBypassesDebounce(t *testing.T) {
	s, _, q, r := newTestScheduler(t)

	s.Edit("doc-1", []byte("manual"))
	s.Flush("doc-1")

	if q.pending() != 1 {
		t.Fatalf("pending saves = %d, want 1 immediately", q.pending())
	}
	q.runNext(t)
	if len(r.saves) != 1 || r.saves[0] != "manual" {
		t.Errorf("saves = %v, want [manual]", r.saves)
	}
}

func TestFlushCleanIsNoOp(t *testing.T) {
	s, _, q, _ := newTestScheduler(t)

	s.Flush("never-edited")
	if q.pending() != 0 {
		t.Error("flushing a clean file should not issue a save")
	}
}

func TestFlushAll(t *testing.T) {
	s, c, q, _ := newTestScheduler(t)

	s.Edit("doc-1", []byte("a"))
	s.Edit("doc-2", []byte("b"))
	c.Advance(DefaultDebounce)
	q.runNext(t)
	q.runNext(t)

	s.Edit("doc-1", []byte("a2"))
	s.Edit("doc-3", []byte("c"))
	s.FlushAll()

	// Only the two dirty files save; doc-2 is clean
	if q.pending() != 2 {
		t.Errorf("pending saves = %d, want 2", q.pending())
	}
}

func TestForgetDropsCompletion(t *testing.T) {
	s, c, q, r := newTestScheduler(t)

	s.Edit("doc-1", []byte("v1"))
	c.Advance(DefaultDebounce) // save in flight

	s.Forget("doc-1")
	q.runNext(t) // completion arrives for a closed file

	if len(r.saved) != 0 || len(r.errors) != 0 {
		t.Error("completion for a forgotten file must not fire hooks")
	}
	if s.Status("doc-1") != Clean {
		t.Errorf("status = %v, want Clean for unknown file", s.Status("doc-1"))
	}
}

func TestEditWhileSavingSchedulesFollowUp(t *testing.T) {
	s, c, q, r := newTestScheduler(t)

	s.Edit("doc-1", []byte("v1"))
	c.Advance(DefaultDebounce) // save A in flight

	s.Edit("doc-1", []byte("v2"))
	s.Flush("doc-1") // while A is in flight

	// Flush cannot start a second save concurrently; ordering is strict
	if q.pending() != 1 {
		t.Fatalf("pending saves = %d, want 1 while A is in flight", q.pending())
	}

	q.runNext(t) // A completes, follow-up starts
	q.runNext(t) // follow-up completes

	if len(r.saves) != 2 || r.saves[1] != "v2" {
		t.Errorf("saves = %v, want [v1 v2]", r.saves)
	}
	if s.Status("doc-1") != Clean {
		t.Errorf("status = %v, want Clean", s.Status("doc-1"))
	}
}

func TestStatusTransitions(t *testing.T) {
	s, c, q, _ := newTestScheduler(t)

	if s.Status("doc-1") != Clean {
		t.Errorf("initial status = %v, want Clean", s.Status("doc-1"))
	}

	s.Edit("doc-1", []byte("v1"))
	if s.Status("doc-1") != PendingSave {
		t.Errorf("status after edit = %v, want PendingSave", s.Status("doc-1"))
	}

	c.Advance(DefaultDebounce)
	if s.Status("doc-1") != Saving {
		t.Errorf("status in flight = %v, want Saving", s.Status("doc-1"))
	}

	q.runNext(t)
	if s.Status("doc-1") != Clean {
		t.Errorf("status after save = %v, want Clean", s.Status("doc-1"))
	}
}
