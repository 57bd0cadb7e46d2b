package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
)

const flashDuration = 3 * time.Second

// listenForNotice creates a command that waits for the next session
// notice. Re-issued after every NoticeMsg so the channel is always
// drained.
func (m *Model) listenForNotice() tea.Cmd {
	ch := m.session.Notices()
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeMsg{Notice: n}
	}
}

// openFile creates a command that fetches and opens a file without
// blocking the event loop.
func (m *Model) openFile(fileID string) tea.Cmd {
	return func() tea.Msg {
		err := m.session.OpenFile(context.Background(), fileID)
		return FileOpenedMsg{FileID: fileID, Err: err}
	}
}

// renameFile creates a command that persists a rename. The session
// applies the title optimistically and rolls back on failure.
func (m *Model) renameFile(fileID, title string) tea.Cmd {
	return func() tea.Msg {
		err := m.session.RenameFile(context.Background(), fileID, title)
		return RenameResultMsg{FileID: fileID, Err: err}
	}
}

// clearFlashLater expires the flash message after a short delay.
func clearFlashLater() tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return ClearFlashMsg{}
	})
}
