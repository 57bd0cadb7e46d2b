package workspace

import "time"

// Kind distinguishes the two editable resource types.
type Kind string

const (
	KindDocument Kind = "document"
	KindCanvas   Kind = "canvas"
)

// OpenFile is a document or canvas the user has available for editing in
// the session, independent of whether any panel currently renders it.
type OpenFile struct {
	ID           string
	Kind         Kind
	Title        string
	IsDirty      bool // local edits exist that are not confirmed persisted
	LastModified time.Time
}
