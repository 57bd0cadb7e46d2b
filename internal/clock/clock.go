// Package clock abstracts wall-clock time and timers so components that
// debounce edits or expire cache entries can run on simulated time in tests.
package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. Reports whether it was
	// still pending.
	Stop() bool
	// Reset re-arms the timer to fire after d. Reports whether it was
	// still pending.
	Reset(d time.Duration) bool
}

// Clock provides the current time and callback scheduling.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// System is a Clock backed by the real time package.
type System struct{}

// NewSystem returns a Clock backed by real wall-clock time.
func NewSystem() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now()
}

func (System) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Fake is a manually-advanced Clock for tests. Timers fire synchronously
// from Advance, in deadline order, with the clock reading their deadline.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// NewFake returns a Fake clock starting at a fixed, arbitrary instant.
func NewFake() *Fake {
	return &Fake{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		fn:       fn,
		pending:  true,
	}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Callbacks run without the clock lock held, so they may schedule
// new timers; timers they schedule within the advanced window also fire.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		t := f.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	f.mu.Lock()
	if target.After(f.now) {
		f.now = target
	}
	f.mu.Unlock()
}

// nextDue pops the earliest pending timer with deadline <= target, moving
// the clock to that deadline. Returns nil when no timer is due.
func (f *Fake) nextDue(target time.Time) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due *fakeTimer
	for _, t := range f.timers {
		if !t.pending || t.deadline.After(target) {
			continue
		}
		if due == nil || t.deadline.Before(due.deadline) {
			due = t
		}
	}
	if due == nil {
		return nil
	}
	due.pending = false
	if due.deadline.After(f.now) {
		f.now = due.deadline
	}
	return due
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	fn       func()
	pending  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.pending
	t.pending = false
	return was
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.pending
	t.deadline = t.clock.now.Add(d)
	t.pending = true
	return was
}
