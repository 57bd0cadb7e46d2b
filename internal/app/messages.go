package app

import "github.com/atelier-studio/atelier/internal/workspace"

// NoticeMsg carries an asynchronous save outcome from the session.
type NoticeMsg struct {
	Notice workspace.Notice
}

// FileOpenedMsg reports the result of opening a file from the sidebar.
type FileOpenedMsg struct {
	FileID string
	Err    error
}

// RenameResultMsg reports the result of a rename round trip.
type RenameResultMsg struct {
	FileID string
	Err    error
}

// ClearFlashMsg expires the transient status message.
type ClearFlashMsg struct{}
