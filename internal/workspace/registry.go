package workspace

import (
	"sync"
	"time"

	"github.com/atelier-studio/atelier/internal/clock"
	"github.com/atelier-studio/atelier/internal/logger"
)

// ChangeKind names a slice of registry state a watcher can observe, so
// consumers re-render only for the updates they care about.
type ChangeKind int

const (
	// ChangeOpenFiles fires when the set of open files changes.
	ChangeOpenFiles ChangeKind = iota
	// ChangeActiveFile fires when the active-file pointer moves.
	ChangeActiveFile
	// ChangeDirty fires when a file's dirty flag or timestamps change.
	ChangeDirty
)

// Registry is the single source of truth for which files are open in one
// project session and which is active. Operations on unknown ids are
// silent no-ops: close-then-edit races from the UI are expected, not
// programmer error.
type Registry struct {
	mu        sync.RWMutex
	projectID string
	order     []string // insertion order; also the close tie-break order
	files     map[string]*OpenFile
	activeID  string
	clock     clock.Clock

	watcherMu sync.Mutex
	nextID    int
	watchers  map[ChangeKind]map[int]func()
}

// NewRegistry creates an empty registry.
func NewRegistry(c clock.Clock) *Registry {
	if c == nil {
		c = clock.NewSystem()
	}
	return &Registry{
		files:    make(map[string]*OpenFile),
		clock:    c,
		watchers: make(map[ChangeKind]map[int]func()),
	}
}

// Watch registers a callback for one slice of registry state and returns
// an unsubscribe function.
func (r *Registry) Watch(kind ChangeKind, fn func()) func() {
	r.watcherMu.Lock()
	defer r.watcherMu.Unlock()

	if r.watchers[kind] == nil {
		r.watchers[kind] = make(map[int]func())
	}
	id := r.nextID
	r.nextID++
	r.watchers[kind][id] = fn

	return func() {
		r.watcherMu.Lock()
		defer r.watcherMu.Unlock()
		delete(r.watchers[kind], id)
	}
}

// notify runs watchers for the given kinds, outside the state lock.
func (r *Registry) notify(kinds ...ChangeKind) {
	r.watcherMu.Lock()
	var fns []func()
	for _, kind := range kinds {
		for _, fn := range r.watchers[kind] {
			fns = append(fns, fn)
		}
	}
	r.watcherMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// InitializeSession binds the registry to a project. Switching projects
// clears all open files and the active pointer so no stale state leaks
// across projects; re-initializing the same project is a no-op. Reports
// whether the project changed.
func (r *Registry) InitializeSession(projectID string) bool {
	r.mu.Lock()
	if r.projectID == projectID {
		r.mu.Unlock()
		return false
	}
	logger.Info("Workspace: Switching project %q -> %q, clearing %d open files", r.projectID, projectID, len(r.files))
	r.projectID = projectID
	r.files = make(map[string]*OpenFile)
	r.order = nil
	r.activeID = ""
	r.mu.Unlock()

	r.notify(ChangeOpenFiles, ChangeActiveFile)
	return true
}

// Open inserts a file if it is not already open and always makes it
// active. Re-opening updates the title but never resets the dirty flag,
// so an unsaved edit survives a redundant open.
func (r *Registry) Open(id string, kind Kind, title string) {
	if id == "" {
		return
	}

	r.mu.Lock()
	f, exists := r.files[id]
	if exists {
		f.Title = title
	} else {
		r.files[id] = &OpenFile{
			ID:           id,
			Kind:         kind,
			Title:        title,
			LastModified: r.clock.Now(),
		}
		r.order = append(r.order, id)
	}
	activeChanged := r.activeID != id
	r.activeID = id
	r.mu.Unlock()

	if !exists {
		r.notify(ChangeOpenFiles)
	}
	if activeChanged {
		r.notify(ChangeActiveFile)
	}
}

// Close removes a file from the session. When the active file closes,
// the next active is the first remaining file in registry iteration
// order — a defined but otherwise arbitrary tie-break. Unknown ids are a
// silent no-op.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	if _, ok := r.files[id]; !ok {
		r.mu.Unlock()
		return
	}

	delete(r.files, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	activeChanged := false
	if r.activeID == id {
		r.activeID = ""
		if len(r.order) > 0 {
			r.activeID = r.order[0]
		}
		activeChanged = true
	}
	r.mu.Unlock()

	r.notify(ChangeOpenFiles)
	if activeChanged {
		r.notify(ChangeActiveFile)
	}
}

// SetActive moves the active pointer. A no-op unless id is open and
// differs from the current active file.
func (r *Registry) SetActive(id string) {
	r.mu.Lock()
	if _, ok := r.files[id]; !ok || r.activeID == id {
		r.mu.Unlock()
		return
	}
	r.activeID = id
	r.mu.Unlock()

	r.notify(ChangeActiveFile)
}

// MarkDirty sets a file's dirty flag. Transitioning to dirty refreshes
// LastModified; setting an unchanged flag is a no-op so watchers see no
// redundant notifications.
func (r *Registry) MarkDirty(id string, dirty bool) {
	r.mu.Lock()
	f, ok := r.files[id]
	if !ok || f.IsDirty == dirty {
		r.mu.Unlock()
		return
	}
	f.IsDirty = dirty
	if dirty {
		f.LastModified = r.clock.Now()
	}
	r.mu.Unlock()

	r.notify(ChangeDirty)
}

// MarkSaved clears the dirty flag and stamps the server-confirmed save
// time. Unknown ids no-op: the file may have closed while its save was
// in flight.
func (r *Registry) MarkSaved(id string, savedAt time.Time) {
	r.mu.Lock()
	f, ok := r.files[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	f.IsDirty = false
	if !savedAt.IsZero() {
		f.LastModified = savedAt
	}
	r.mu.Unlock()

	r.notify(ChangeDirty)
}

// Rename updates a file's title. Reports whether the file was found, so
// optimistic-update callers know whether a rollback will be needed.
func (r *Registry) Rename(id, title string) bool {
	r.mu.Lock()
	f, ok := r.files[id]
	if !ok || f.Title == title {
		r.mu.Unlock()
		return ok
	}
	f.Title = title
	f.LastModified = r.clock.Now()
	r.mu.Unlock()

	r.notify(ChangeOpenFiles)
	return true
}

// ProjectID returns the project this registry is bound to.
func (r *Registry) ProjectID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.projectID
}

// ActiveID returns the active file id, or "" when nothing is open.
func (r *Registry) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// Get returns a copy of the open file with the given id.
func (r *Registry) Get(id string) (OpenFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok {
		return OpenFile{}, false
	}
	return *f, true
}

// Files returns copies of the open files in registry iteration order.
func (r *Registry) Files() []OpenFile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	files := make([]OpenFile, 0, len(r.order))
	for _, id := range r.order {
		files = append(files, *r.files[id])
	}
	return files
}

// Len returns the number of open files.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}
