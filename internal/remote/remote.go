// Package remote is the boundary to the workspace server. The session
// core treats it as an opaque collaborator with two verbs: fetch a file's
// payload and save one back. Everything behind these calls (transport,
// auth, storage) is out of the session's hands.
package remote

import (
	"context"
	"time"
)

// Payload is a fetched or to-be-saved file body with its display
// metadata. The session never interprets Content.
type Payload struct {
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	Content   []byte    `json:"content"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Ack confirms a save. SavedAt is the server-confirmed timestamp and is
// stamped onto the open file's LastModified.
type Ack struct {
	SavedAt time.Time `json:"saved_at"`
}

// Store is the persistence collaborator contract. Fetch reports a
// missing file with a KindNotFound error; Save failures are surfaced to
// the caller and never discard local state.
type Store interface {
	Fetch(ctx context.Context, fileID string) (*Payload, error)
	Save(ctx context.Context, fileID string, payload *Payload) (Ack, error)
}
