package workspace

import (
	"context"
	"time"

	"github.com/atelier-studio/atelier/internal/autosave"
	"github.com/atelier-studio/atelier/internal/cache"
	"github.com/atelier-studio/atelier/internal/clock"
	"github.com/atelier-studio/atelier/internal/config"
	"github.com/atelier-studio/atelier/internal/errors"
	"github.com/atelier-studio/atelier/internal/events"
	"github.com/atelier-studio/atelier/internal/layout"
	"github.com/atelier-studio/atelier/internal/logger"
	"github.com/atelier-studio/atelier/internal/remote"
)

// DefaultSweepInterval is how often the background sweep evicts expired
// cache entries the user never revisits.
const DefaultSweepInterval = time.Minute

// NoticeKind classifies session notices delivered to the UI.
type NoticeKind int

const (
	// NoticeSaved reports a confirmed save.
	NoticeSaved NoticeKind = iota
	// NoticeSaveFailed reports a failed save; the file stays dirty.
	NoticeSaveFailed
)

// Notice is an asynchronous session event for the UI layer.
type Notice struct {
	Kind    NoticeKind
	FileID  string
	SavedAt time.Time
	Err     error
}

// Session is the explicitly-constructed workspace session: it owns the
// open-file registry, the payload cache, the autosave pipeline, and the
// panel layout, and is the only place they are wired together. Sessions
// carry no package-level state, so tests can run several in isolation.
type Session struct {
	registry *Registry
	store    *cache.Store
	engine   *layout.Engine
	saver    *autosave.Scheduler
	prefs    *config.Preferences
	remote   remote.Store
	bus      *events.Bus
	clock    clock.Clock

	sweepInterval time.Duration
	sweepTimer    clock.Timer
	notices       chan Notice
	unsubscribe   []func()

	// construction-time only
	cacheOpts []cache.Option
	saveOpts  []autosave.Option
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock injects the time source used by the registry, cache,
// autosave debounce, and background sweep.
func WithClock(c clock.Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

// WithPreferences attaches the durable preferences adapter.
func WithPreferences(p *config.Preferences) SessionOption {
	return func(s *Session) { s.prefs = p }
}

// WithBus attaches a shared event bus; by default the session creates
// its own.
func WithBus(b *events.Bus) SessionOption {
	return func(s *Session) { s.bus = b }
}

// WithSweepInterval overrides the background cache sweep period.
func WithSweepInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithCacheOptions forwards options to the payload cache.
func WithCacheOptions(opts ...cache.Option) SessionOption {
	return func(s *Session) { s.cacheOpts = opts }
}

// WithAutosaveOptions forwards options to the autosave scheduler.
func WithAutosaveOptions(opts ...autosave.Option) SessionOption {
	return func(s *Session) { s.saveOpts = opts }
}

// NewSession constructs a session against the given persistence
// collaborator and starts the background cache sweep.
func NewSession(store remote.Store, opts ...SessionOption) *Session {
	s := &Session{
		remote:        store,
		clock:         clock.NewSystem(),
		sweepInterval: DefaultSweepInterval,
		notices:       make(chan Notice, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}

	s.registry = NewRegistry(s.clock)
	s.store = cache.New(append([]cache.Option{cache.WithClock(s.clock)}, s.cacheOpts...)...)
	s.engine = layout.NewEngine()
	s.saver = autosave.NewScheduler(s.saveFile, autosave.Hooks{
		OnDirty: func(id string) { s.registry.MarkDirty(id, true) },
		OnSaved: s.saveConfirmed,
		OnError: s.saveFailed,
	}, append([]autosave.Option{autosave.WithClock(s.clock)}, s.saveOpts...)...)

	if s.prefs != nil {
		if o := s.prefs.GetLayoutOrientation(); o != "" {
			s.engine.SetOrientation(layout.Orientation(o))
		}
	}

	s.unsubscribe = append(s.unsubscribe,
		s.bus.Subscribe(events.SaveAll, func(any) { s.saver.FlushAll() }),
		s.bus.Subscribe(events.Revalidate, func(payload any) { s.revalidate(payload) }),
	)

	s.sweepTimer = s.clock.AfterFunc(s.sweepInterval, s.sweep)
	return s
}

// Registry exposes the open-file registry for read access and watching.
func (s *Session) Registry() *Registry { return s.registry }

// Layout exposes the panel layout engine.
func (s *Session) Layout() *layout.Engine { return s.engine }

// Cache exposes the payload cache.
func (s *Session) Cache() *cache.Store { return s.store }

// Bus exposes the session event bus.
func (s *Session) Bus() *events.Bus { return s.bus }

// Notices delivers asynchronous save outcomes to the UI.
func (s *Session) Notices() <-chan Notice { return s.notices }

// InitializeSession binds the session to a project. A project switch
// clears all open-file state, drops every panel and pending autosave
// (panels must never outlive the files they render, and the old
// project's debounces must not fire into the new one), and lazily
// sweeps already-expired cache entries; it deliberately does not flush
// fresh ones.
func (s *Session) InitializeSession(projectID string) {
	if s.registry.InitializeSession(projectID) {
		s.engine.Clear()
		s.saver.ForgetAll()
		s.store.ClearExpired()
		if s.prefs != nil {
			s.prefs.SetLastProjectID(projectID)
		}
	}
}

// FileData returns a file's payload, serving from cache when fresh and
// falling back to the remote store on a miss. Successful fetches
// populate the cache with the default TTL.
func (s *Session) FileData(ctx context.Context, fileID string) (*remote.Payload, error) {
	if data, ok := s.store.Get(fileID); ok {
		if payload, ok := data.(*remote.Payload); ok {
			return payload, nil
		}
	}

	payload, err := s.remote.Fetch(ctx, fileID)
	if err != nil {
		return nil, err
	}
	s.store.Set(fileID, payload, 0)
	return payload, nil
}

// OpenFile fetches a file and opens it in the registry, creating the
// first panel when none exists. The fetched payload decides the file's
// kind and title.
func (s *Session) OpenFile(ctx context.Context, fileID string) error {
	payload, err := s.FileData(ctx, fileID)
	if err != nil {
		return err
	}

	kind := KindDocument
	if payload.Kind == string(KindCanvas) {
		kind = KindCanvas
	}
	s.registry.Open(fileID, kind, payload.Title)
	s.engine.Open(fileID)
	s.bus.Emit(events.FileSelected, fileID)
	return nil
}

// ShowFile points a panel at an already-open file, keeping the panel's
// size and position. Unknown files no-op; the panel must never render a
// file that is not open.
func (s *Session) ShowFile(panelID, fileID string) {
	if _, ok := s.registry.Get(fileID); !ok {
		return
	}
	s.engine.Rebind(panelID, fileID)
}

// CloseFile removes a file from the session: its registry entry, its
// cache entry, every panel bound to it, and any pending autosave state.
// An in-flight save keeps running but its completion no-ops.
func (s *Session) CloseFile(fileID string) {
	s.registry.Close(fileID)
	s.store.Delete(fileID)
	s.engine.RemoveForFile(fileID)
	s.saver.Forget(fileID)
}

// SetActiveFile moves the active pointer and announces the selection.
func (s *Session) SetActiveFile(fileID string) {
	before := s.registry.ActiveID()
	s.registry.SetActive(fileID)
	if s.registry.ActiveID() != before {
		s.bus.Emit(events.FileSelected, fileID)
	}
}

// EditFile records a local content change: the file is marked dirty
// synchronously and the save is debounced. Unknown ids no-op.
func (s *Session) EditFile(fileID string, content []byte) {
	if _, ok := s.registry.Get(fileID); !ok {
		return
	}
	s.saver.Edit(fileID, content)
}

// SaveFile persists a file immediately, bypassing the debounce.
func (s *Session) SaveFile(fileID string) {
	s.saver.Flush(fileID)
}

// SaveAll persists every dirty file immediately.
func (s *Session) SaveAll() {
	s.saver.FlushAll()
}

// SaveStatus reports a file's position in the autosave pipeline.
func (s *Session) SaveStatus(fileID string) autosave.Status {
	return s.saver.Status(fileID)
}

// RenameFile applies the title optimistically, persists it, and rolls
// back to the captured prior title if persistence fails. The prior value
// is captured before the optimistic mutation so the rollback is exact.
func (s *Session) RenameFile(ctx context.Context, fileID, title string) error {
	prior, ok := s.registry.Get(fileID)
	if !ok {
		return errors.E(errors.Op("workspace.RenameFile"), errors.KindNotFound, "file "+fileID)
	}

	s.registry.Rename(fileID, title)

	payload, err := s.FileData(ctx, fileID)
	if err != nil {
		s.registry.Rename(fileID, prior.Title)
		return err
	}

	updated := &remote.Payload{Title: title, Kind: payload.Kind, Content: payload.Content}
	ack, err := s.remote.Save(ctx, fileID, updated)
	if err != nil {
		s.registry.Rename(fileID, prior.Title)
		return err
	}

	updated.UpdatedAt = ack.SavedAt
	s.store.Set(fileID, updated, 0)
	return nil
}

// SplitPanel splits the panel showing the active file, then restores any
// remembered sizes for the resulting pairing.
func (s *Session) SplitPanel() (layout.Panel, error) {
	active := s.registry.ActiveID()
	if active == "" {
		return layout.Panel{}, errors.E(errors.Op("workspace.SplitPanel"), errors.KindInvalid, "no active file")
	}

	panel, err := s.engine.Split(active)
	if err != nil {
		return layout.Panel{}, err
	}

	if s.prefs != nil {
		key := s.engine.PairingKey(s.registry.ProjectID())
		if sizes := s.prefs.GetPanelSizes(key); sizes != nil {
			s.engine.SetSizes(sizes)
		}
	}
	return panel, nil
}

// ResizePanel adjusts one panel's share of the layout axis.
func (s *Session) ResizePanel(panelID string, size float64) {
	s.engine.Resize(panelID, size)
}

// PersistPanelSizes snapshots the current sizes for the current pairing.
// Called when a resize drag settles, not on every intermediate step.
func (s *Session) PersistPanelSizes() {
	if s.prefs == nil {
		return
	}
	sizes := s.engine.Sizes()
	if len(sizes) < 2 {
		return
	}
	s.prefs.SetPanelSizes(s.engine.PairingKey(s.registry.ProjectID()), sizes)
}

// RemovePanel deletes a panel. The file it rendered stays open: panels
// and open files are independently lifecycled.
func (s *Session) RemovePanel(panelID string) {
	s.engine.Remove(panelID)
}

// SetLayoutOrientation swaps the layout axis and writes the preference
// through.
func (s *Session) SetLayoutOrientation(o layout.Orientation) {
	s.engine.SetOrientation(o)
	if s.prefs != nil {
		s.prefs.SetLayoutOrientation(string(o))
	}
}

// Close stops the background sweep and cancels in-flight saves.
func (s *Session) Close() {
	if s.sweepTimer != nil {
		s.sweepTimer.Stop()
	}
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.saver.Close()
}

// saveFile is the autosave persistence callback.
func (s *Session) saveFile(ctx context.Context, fileID string, content []byte) (time.Time, error) {
	file, ok := s.registry.Get(fileID)
	if !ok {
		// Closed while the save was queued; nothing to persist against
		return time.Time{}, errors.E(errors.Op("workspace.saveFile"), errors.KindNotFound, "file "+fileID)
	}

	payload := &remote.Payload{Title: file.Title, Kind: string(file.Kind), Content: content}
	ack, err := s.remote.Save(ctx, fileID, payload)
	if err != nil {
		return time.Time{}, err
	}

	// Refresh the cached payload wholesale with what the server now holds
	payload.UpdatedAt = ack.SavedAt
	s.store.Set(fileID, payload, 0)
	return ack.SavedAt, nil
}

func (s *Session) saveConfirmed(fileID string, savedAt time.Time) {
	s.registry.MarkSaved(fileID, savedAt)
	s.pushNotice(Notice{Kind: NoticeSaved, FileID: fileID, SavedAt: savedAt})
}

func (s *Session) saveFailed(fileID string, err error) {
	logger.Warn("Workspace: Save failed file=%s: %v", fileID, err)
	s.pushNotice(Notice{Kind: NoticeSaveFailed, FileID: fileID, Err: err})
}

// pushNotice delivers a notice without ever blocking the pipeline.
func (s *Session) pushNotice(n Notice) {
	select {
	case s.notices <- n:
	default:
		logger.Warn("Workspace: Notice channel full, dropping %v for file=%s", n.Kind, n.FileID)
	}
}

// revalidate handles the revalidate signal: drop the named entry (or the
// whole cache) so the next read forces a fresh fetch.
func (s *Session) revalidate(payload any) {
	if fileID, ok := payload.(string); ok && fileID != "" {
		s.store.Delete(fileID)
		return
	}
	s.store.Clear()
}

// sweep evicts expired cache entries and reschedules itself.
func (s *Session) sweep() {
	s.store.ClearExpired()
	s.sweepTimer = s.clock.AfterFunc(s.sweepInterval, s.sweep)
}
