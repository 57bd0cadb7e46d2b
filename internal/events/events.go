// Package events carries named signals between workspace components.
// Emission is synchronous fan-out; the application runs single-threaded
// over an event loop, so handlers never race with store mutations.
package events

import (
	"sync"

	"github.com/atelier-studio/atelier/internal/logger"
)

// Signal names a workspace-level event.
type Signal string

const (
	// FileSelected fires when the active file changes.
	FileSelected Signal = "file-selected"
	// SaveAll requests an immediate save of every dirty file.
	SaveAll Signal = "save-all"
	// Revalidate requests that cached payloads be dropped and refetched.
	Revalidate Signal = "revalidate"
)

// Handler receives a signal's payload. The payload type is owned by the
// emitter; handlers type-assert what they expect.
type Handler func(payload any)

// Bus is a minimal subscribe/emit hub for Signals.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Signal]map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Signal]map[int]Handler)}
}

// Subscribe registers a handler for sig and returns an unsubscribe
// function. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(sig Signal, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[sig] == nil {
		b.subs[sig] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.subs[sig][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[sig], id)
	}
}

// Emit synchronously invokes every handler subscribed to sig.
func (b *Bus) Emit(sig Signal, payload any) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[sig]))
	for _, h := range b.subs[sig] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	if len(handlers) > 0 {
		logger.Debug("Events: Emitting %s to %d handlers", sig, len(handlers))
	}
	for _, h := range handlers {
		h(payload)
	}
}
