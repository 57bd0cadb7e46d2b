package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/atelier-studio/atelier/internal/keys"
	"github.com/atelier-studio/atelier/internal/layout"
	"github.com/atelier-studio/atelier/internal/notification"
	"github.com/atelier-studio/atelier/internal/ui"
	"github.com/atelier-studio/atelier/internal/workspace"
)

// Init starts the notice listener
func (m *Model) Init() tea.Cmd {
	return m.listenForNotice()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case NoticeMsg:
		return m.handleNotice(msg)

	case FileOpenedMsg:
		if msg.Err != nil {
			m.setFlash("Could not open file: "+msg.Err.Error(), true)
			m.refresh()
			return m, clearFlashLater()
		}
		m.showOpenedFile(msg.FileID)
		m.syncPanels()
		return m.focusEditorPane()

	case RenameResultMsg:
		if msg.Err != nil {
			m.setFlash("Rename failed, title restored", true)
			m.refresh()
			return m, clearFlashLater()
		}
		m.refresh()
		return m, nil

	case ClearFlashMsg:
		m.flash = ""
		m.flashErr = false
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Everything else (cursor blinks etc.) goes to the focused widget
	if m.modal != nil {
		return m, m.modal.Update(msg)
	}
	if m.openModal != nil {
		return m, m.openModal.Update(msg)
	}
	if ed := m.focusedEditorWidget(); ed != nil && m.focus == FocusEditor {
		cmd, _ := ed.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleNotice reacts to a save outcome and resumes listening.
func (m *Model) handleNotice(msg NoticeMsg) (tea.Model, tea.Cmd) {
	n := msg.Notice
	cmds := []tea.Cmd{m.listenForNotice()}

	switch n.Kind {
	case workspace.NoticeSaved:
		m.setFlash("Saved", false)
		cmds = append(cmds, clearFlashLater())
	case workspace.NoticeSaveFailed:
		title := n.FileID
		if f, ok := m.session.Registry().Get(n.FileID); ok {
			title = f.Title
		}
		m.setFlash("Save failed: "+title, true)
		// Desktop notification so failures are seen even when the
		// terminal is in the background. Best effort.
		_ = notification.SaveFailed(title)
		cmds = append(cmds, clearFlashLater())
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

// handleKey routes a key press by mode: modal, sidebar, or editor.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.modal != nil {
		switch key {
		case keys.Enter:
			fileID, title := m.modal.FileID, m.modal.Value()
			m.modal = nil
			m.refresh()
			return m, m.renameFile(fileID, title)
		case keys.Escape:
			m.modal = nil
			m.refresh()
			return m, nil
		default:
			return m, m.modal.Update(msg)
		}
	}

	if m.openModal != nil {
		switch key {
		case keys.Enter:
			id := m.openModal.Value()
			m.openModal = nil
			m.refresh()
			if id == "" {
				return m, nil
			}
			return m, m.openFile(id)
		case keys.Escape:
			m.openModal = nil
			m.refresh()
			return m, nil
		default:
			return m, m.openModal.Update(msg)
		}
	}

	switch key {
	case keys.CtrlC:
		m.session.SaveAll()
		return m, tea.Quit

	case keys.Tab:
		if m.focus == FocusSidebar {
			return m.focusEditorPane()
		}
		return m.focusSidebarPane()

	case keys.ShiftTab:
		if len(m.editors) > 1 && m.focus == FocusEditor {
			m.editors[m.focusedEditor].Blur()
			m.focusedEditor = (m.focusedEditor + 1) % len(m.editors)
			ed := m.editors[m.focusedEditor]
			m.session.SetActiveFile(ed.FileID())
			m.refresh()
			return m, ed.Focus()
		}
		return m, nil

	case keys.CtrlB:
		m.sidebarVisible = !m.sidebarVisible
		m.prefs.SetSidebarVisible(m.sidebarVisible)
		if !m.sidebarVisible && m.focus == FocusSidebar {
			model, cmd := m.focusEditorPane()
			m.updateSizes()
			return model, cmd
		}
		m.updateSizes()
		return m, nil

	case keys.CtrlS:
		if active := m.session.Registry().ActiveID(); active != "" {
			m.session.SaveFile(active)
			m.refresh()
		}
		return m, nil

	case keys.CtrlA:
		m.session.SaveAll()
		m.refresh()
		return m, nil

	case keys.CtrlT:
		if _, err := m.session.SplitPanel(); err != nil {
			m.setFlash("Cannot split: "+err.Error(), true)
			m.refresh()
			return m, clearFlashLater()
		}
		m.syncPanels()
		return m, nil

	case keys.CtrlX:
		if ed := m.focusedEditorWidget(); ed != nil {
			m.session.RemovePanel(ed.PanelID())
			m.session.PersistPanelSizes()
			m.syncPanels()
		}
		return m, nil

	case keys.CtrlR:
		if active := m.session.Registry().ActiveID(); active != "" {
			f, _ := m.session.Registry().Get(active)
			m.modal = ui.NewRenameModal(active, f.Title)
			m.refresh()
		}
		return m, nil

	case keys.CtrlN:
		m.openModal = ui.NewOpenModal()
		m.refresh()
		return m, nil

	case keys.CtrlLeft:
		m.resizeFocused(-1)
		return m, nil

	case keys.CtrlRight:
		m.resizeFocused(1)
		return m, nil

	case keys.CtrlO:
		if m.session.Layout().Orientation() == layout.Horizontal {
			m.session.SetLayoutOrientation(layout.Vertical)
		} else {
			m.session.SetLayoutOrientation(layout.Horizontal)
		}
		m.updateSizes()
		return m, nil

	case keys.CtrlW:
		id := m.session.Registry().ActiveID()
		if m.focus == FocusSidebar {
			id = m.sidebar.SelectedID()
		}
		if id != "" {
			m.session.CloseFile(id)
			m.syncPanels()
		}
		return m, nil
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(key)
	}
	return m.handleEditorKey(msg)
}

func (m *Model) handleSidebarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Up:
		m.sidebar.MoveUp()
	case keys.Down:
		m.sidebar.MoveDown()
	case keys.Enter:
		if id := m.sidebar.SelectedID(); id != "" {
			return m, m.openFile(id)
		}
	case "q":
		m.session.SaveAll()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleEditorKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	ed := m.focusedEditorWidget()
	if ed == nil {
		return m, nil
	}

	cmd, changed := ed.Update(msg)
	if changed {
		m.session.EditFile(ed.FileID(), []byte(ed.Content()))
		m.refresh()
	}
	return m, cmd
}

func (m *Model) focusEditorPane() (tea.Model, tea.Cmd) {
	if len(m.editors) == 0 {
		return m, nil
	}
	m.focus = FocusEditor
	m.sidebar.SetFocused(false)
	ed := m.editors[m.focusedEditor]
	m.session.SetActiveFile(ed.FileID())
	m.refresh()
	return m, ed.Focus()
}

func (m *Model) focusSidebarPane() (tea.Model, tea.Cmd) {
	m.focus = FocusSidebar
	m.sidebar.SetFocused(true)
	if ed := m.focusedEditorWidget(); ed != nil {
		ed.Blur()
	}
	m.refresh()
	return m, nil
}

// showOpenedFile makes a just-opened file visible: when panels exist
// but none renders it, the focused panel is rebound to it. The first
// open needs nothing; the session already created its panel.
func (m *Model) showOpenedFile(fileID string) {
	for _, p := range m.session.Layout().Panels() {
		if p.FileID == fileID {
			return
		}
	}
	if ed := m.focusedEditorWidget(); ed != nil {
		m.session.ShowFile(ed.PanelID(), fileID)
	}
}

const (
	// panelResizeStep is how much layout share one resize key press moves.
	panelResizeStep = 5.0
	// sidebarResizeStep is the column change per press when the sidebar
	// has focus.
	sidebarResizeStep = 2
)

// resizeFocused grows (direction 1) or shrinks (direction -1) the
// focused surface: the sidebar's column width when it has focus,
// otherwise the focused panel's share of the layout axis. Each press is
// a settled state, so panel shares write through to preferences and the
// pairing reopens at the same proportions.
func (m *Model) resizeFocused(direction int) {
	if m.focus == FocusSidebar {
		if !m.sidebarVisible {
			return
		}
		w := m.prefs.GetSidebarWidth() + direction*sidebarResizeStep
		if w < ui.MinSidebarWidth {
			w = ui.MinSidebarWidth
		}
		if m.width > 0 && w > m.width/2 {
			w = m.width / 2
		}
		m.prefs.SetSidebarWidth(w)
		m.updateSizes()
		return
	}

	ed := m.focusedEditorWidget()
	if ed == nil {
		return
	}
	for _, p := range m.session.Layout().Panels() {
		if p.ID == ed.PanelID() {
			m.session.ResizePanel(p.ID, p.Size+float64(direction)*panelResizeStep)
			m.session.PersistPanelSizes()
			m.updateSizes()
			return
		}
	}
}

func (m *Model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashErr = isError
}
