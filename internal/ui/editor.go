package ui

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/atelier-studio/atelier/internal/autosave"
	"github.com/atelier-studio/atelier/internal/workspace"
)

// Editor is one visible editing surface: a bordered panel with a title
// bar and a textarea bound to a single open file.
type Editor struct {
	panelID string
	fileID  string
	title   string
	dirty   bool
	status  autosave.Status
	kind    workspace.Kind

	input   textarea.Model
	width   int
	height  int
	focused bool
}

// NewEditor creates an editor panel bound to a file.
func NewEditor(panelID, fileID string) *Editor {
	ta := textarea.New()
	ta.Placeholder = "Start typing..."
	ta.ShowLineNumbers = false

	return &Editor{
		panelID: panelID,
		fileID:  fileID,
		input:   ta,
	}
}

// PanelID returns the layout panel this editor renders.
func (e *Editor) PanelID() string { return e.panelID }

// FileID returns the file this editor is bound to.
func (e *Editor) FileID() string { return e.fileID }

// SetSize sets the panel's outer dimensions
func (e *Editor) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.input.SetWidth(width - BorderSize)
	e.input.SetHeight(height - BorderSize - TitleHeight)
}

// SetContent replaces the textarea content without moving the cursor to
// the end; used when the file is first opened.
func (e *Editor) SetContent(content string) {
	e.input.SetValue(content)
}

// Content returns the current textarea content.
func (e *Editor) Content() string {
	return e.input.Value()
}

// SetFileState refreshes the title bar from registry state.
func (e *Editor) SetFileState(f workspace.OpenFile, status autosave.Status) {
	e.title = f.Title
	e.dirty = f.IsDirty
	e.kind = f.Kind
	e.status = status
}

// Focus gives the textarea keyboard focus
func (e *Editor) Focus() tea.Cmd {
	e.focused = true
	return e.input.Focus()
}

// Blur removes keyboard focus
func (e *Editor) Blur() {
	e.focused = false
	e.input.Blur()
}

// IsFocused returns the focus state
func (e *Editor) IsFocused() bool {
	return e.focused
}

// Update forwards messages to the textarea and reports whether the
// content changed, so the caller can feed the autosave pipeline.
func (e *Editor) Update(msg tea.Msg) (tea.Cmd, bool) {
	before := e.input.Value()
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd, e.input.Value() != before
}

// View renders the editor panel
func (e *Editor) View() string {
	style := PanelStyle
	if e.focused {
		style = PanelFocusedStyle
	}

	title := e.title
	if title == "" {
		title = "Untitled"
	}
	titleBar := PanelTitleStyle.Render(title)
	switch {
	case e.status == autosave.Saving:
		titleBar += StatusSavingStyle.Render("saving…")
	case e.dirty:
		titleBar += PanelDirtyStyle.Render(markerDirty)
	}

	return style.Width(e.width - BorderSize).Height(e.height - BorderSize).
		Render(titleBar + "\n" + e.input.View())
}
