// Package autosave converts a stream of local edit events into a bounded
// number of persistence calls. Edits are coalesced per file with a
// trailing-edge debounce: only the latest content within the window is
// saved (last-write-wins, not an event log). Each save carries a
// monotonically increasing version so a stale completion can never clear
// the dirty state left by a newer edit.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/atelier-studio/atelier/internal/clock"
	"github.com/atelier-studio/atelier/internal/logger"
)

// DefaultDebounce is the content autosave delay. Metadata edits
// (renames) go through the optimistic-update path instead and are not
// debounced here.
const DefaultDebounce = 2 * time.Second

// Status describes where a file sits in the save pipeline.
type Status int

const (
	// Clean means no unsaved edits exist.
	Clean Status = iota
	// PendingSave means edits exist and a save is scheduled or awaited.
	PendingSave
	// Saving means a persistence call is in flight.
	Saving
)

func (s Status) String() string {
	switch s {
	case Clean:
		return "clean"
	case PendingSave:
		return "pending"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

// SaveFunc performs the actual persistence call. It returns the
// server-confirmed save time.
type SaveFunc func(ctx context.Context, fileID string, content []byte) (time.Time, error)

// Hooks receive pipeline transitions. All hooks may be nil. OnDirty runs
// synchronously from Edit, on the first edit after the last successful
// save; OnSaved and OnError run from the completion path.
type Hooks struct {
	OnDirty func(fileID string)
	OnSaved func(fileID string, savedAt time.Time)
	OnError func(fileID string, err error)
}

// Scheduler owns the per-file save state machines.
type Scheduler struct {
	mu       sync.Mutex
	files    map[string]*fileState
	save     SaveFunc
	hooks    Hooks
	clock    clock.Clock
	debounce time.Duration
	launch   func(task func())

	ctx    context.Context
	cancel context.CancelFunc
}

type fileState struct {
	content      []byte
	version      uint64 // bumps on every edit
	savedVersion uint64 // highest version confirmed persisted
	timer        clock.Timer
	saving       bool
	followUp     bool // an edit arrived while a save was in flight
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock injects the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLauncher overrides how save tasks are started. The default runs
// each save on its own goroutine; tests substitute a queue to control
// completion order deterministically.
func WithLauncher(launch func(task func())) Option {
	return func(s *Scheduler) { s.launch = launch }
}

// NewScheduler creates a scheduler that persists through save.
func NewScheduler(save SaveFunc, hooks Hooks, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		files:    make(map[string]*fileState),
		save:     save,
		hooks:    hooks,
		clock:    clock.NewSystem(),
		debounce: DefaultDebounce,
		launch:   func(task func()) { go task() },
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Edit records a local content change. The dirty hook fires synchronously
// on the Clean→PendingSave transition, and the debounce timer restarts so
// only the trailing edit of a burst is persisted.
func (s *Scheduler) Edit(fileID string, content []byte) {
	s.mu.Lock()

	st, ok := s.files[fileID]
	if !ok {
		st = &fileState{}
		s.files[fileID] = st
	}

	wasClean := st.version == st.savedVersion
	st.version++
	st.content = content

	if st.timer == nil {
		id := fileID
		st.timer = s.clock.AfterFunc(s.debounce, func() { s.debounceFired(id) })
	} else {
		st.timer.Reset(s.debounce)
	}
	s.mu.Unlock()

	if wasClean && s.hooks.OnDirty != nil {
		s.hooks.OnDirty(fileID)
	}
}

// Flush saves a file immediately, bypassing the debounce. A no-op when
// the file is clean or unknown; if a save is already in flight the latest
// content is picked up by the follow-up save.
func (s *Scheduler) Flush(fileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.files[fileID]
	if !ok || st.version == st.savedVersion {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	if st.saving {
		st.followUp = true
		return
	}
	s.startSave(fileID, st)
}

// FlushAll saves every dirty file immediately.
func (s *Scheduler) FlushAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.files))
	for id, st := range s.files {
		if st.version != st.savedVersion {
			ids = append(ids, id)
		}
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Flush(id)
	}
}

// Forget drops all pipeline state for a file. Called when the file
// closes: an in-flight save keeps running, but its completion finds no
// state and no-ops.
func (s *Scheduler) Forget(fileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.files[fileID]
	if !ok {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	delete(s.files, fileID)
}

// ForgetAll drops pipeline state for every file and stops every pending
// debounce. In-flight saves keep running, but their completions find no
// state and no-op.
func (s *Scheduler) ForgetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, st := range s.files {
		if st.timer != nil {
			st.timer.Stop()
		}
		delete(s.files, id)
	}
}

// Status reports the pipeline state for a file.
func (s *Scheduler) Status(fileID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.files[fileID]
	switch {
	case !ok || st.version == st.savedVersion:
		return Clean
	case st.saving:
		return Saving
	default:
		return PendingSave
	}
}

// Close cancels the context handed to in-flight saves.
func (s *Scheduler) Close() {
	s.cancel()
}

// debounceFired runs when a file's debounce window elapses with no
// further edits.
func (s *Scheduler) debounceFired(fileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.files[fileID]
	if !ok || st.version == st.savedVersion {
		return
	}
	if st.saving {
		// Coalesce into a follow-up once the in-flight save completes
		st.followUp = true
		return
	}
	s.startSave(fileID, st)
}

// startSave snapshots the latest content and launches the persistence
// call. Must be called with the lock held.
func (s *Scheduler) startSave(fileID string, st *fileState) {
	st.saving = true
	st.followUp = false
	version := st.version
	content := st.content

	logger.Debug("Autosave: Saving file=%s version=%d (%d bytes)", fileID, version, len(content))
	s.launch(func() {
		savedAt, err := s.save(s.ctx, fileID, content)
		s.complete(fileID, version, savedAt, err)
	})
}

// complete reconciles a finished persistence call. Completions for files
// that were forgotten mid-flight no-op; successful completions whose
// version is behind the current one never clear the newer dirty state.
func (s *Scheduler) complete(fileID string, version uint64, savedAt time.Time, err error) {
	s.mu.Lock()

	st, ok := s.files[fileID]
	if !ok {
		s.mu.Unlock()
		logger.Debug("Autosave: Dropping completion for closed file=%s", fileID)
		return
	}
	st.saving = false

	if err != nil {
		// The file stays dirty; retry is caller-initiated
		st.followUp = false
		s.mu.Unlock()
		logger.Warn("Autosave: Save failed file=%s version=%d: %v", fileID, version, err)
		if s.hooks.OnError != nil {
			s.hooks.OnError(fileID, err)
		}
		return
	}

	if version > st.savedVersion {
		st.savedVersion = version
	}
	clean := st.version == st.savedVersion
	followUp := st.followUp && !clean
	if followUp {
		s.startSave(fileID, st)
	}
	s.mu.Unlock()

	if clean {
		logger.Debug("Autosave: File clean file=%s version=%d", fileID, version)
		if s.hooks.OnSaved != nil {
			s.hooks.OnSaved(fileID, savedAt)
		}
	}
}
