// Package app is the Bubble Tea model wiring the workspace session to
// the terminal UI: keyboard handling, panel sizing, and the listener
// that surfaces save outcomes.
package app

import (
	"context"
	"fmt"

	"github.com/atelier-studio/atelier/internal/autosave"
	"github.com/atelier-studio/atelier/internal/config"
	"github.com/atelier-studio/atelier/internal/layout"
	"github.com/atelier-studio/atelier/internal/logger"
	"github.com/atelier-studio/atelier/internal/ui"
	"github.com/atelier-studio/atelier/internal/workspace"
)

// Focus identifies which pane receives keyboard input
type Focus int

const (
	FocusSidebar Focus = iota
	FocusEditor
)

// Model is the top-level Bubble Tea model
type Model struct {
	session *workspace.Session
	prefs   *config.Preferences
	version string

	header    *ui.Header
	footer    *ui.Footer
	sidebar   *ui.Sidebar
	editors   []*ui.Editor // ordered to match the layout engine's panels
	modal     *ui.RenameModal
	openModal *ui.OpenModal

	width          int
	height         int
	focus          Focus
	focusedEditor  int
	sidebarVisible bool

	flash    string
	flashErr bool
}

// New creates the application model
func New(session *workspace.Session, prefs *config.Preferences, version string) *Model {
	m := &Model{
		session:        session,
		prefs:          prefs,
		version:        version,
		header:         ui.NewHeader(),
		footer:         ui.NewFooter(),
		sidebar:        ui.NewSidebar(),
		focus:          FocusSidebar,
		sidebarVisible: prefs.GetSidebarVisible(),
	}
	m.sidebar.SetFocused(true)
	// Files opened before the program started (CLI args) already have
	// panels; build their editors now.
	m.syncPanels()
	return m
}

// Close shuts the session down on exit
func (m *Model) Close() {
	m.session.Close()
}

// refresh pulls registry and autosave state into the widgets.
func (m *Model) refresh() {
	files := m.session.Registry().Files()
	activeID := m.session.Registry().ActiveID()
	m.sidebar.SetFiles(files, activeID)

	dirty := 0
	saving := false
	for _, f := range files {
		if f.IsDirty {
			dirty++
		}
		if m.session.SaveStatus(f.ID) == autosave.Saving {
			saving = true
		}
	}

	m.header.SetProjectName(m.session.Registry().ProjectID())
	switch {
	case saving:
		m.header.SetSaveStatus("saving…")
	case dirty > 0:
		m.header.SetSaveStatus(fmt.Sprintf("%d unsaved", dirty))
	default:
		m.header.SetSaveStatus("")
	}

	m.footer.SetContext(m.focus == FocusSidebar, m.modal != nil || m.openModal != nil, dirty)

	for _, ed := range m.editors {
		if f, ok := m.session.Registry().Get(ed.FileID()); ok {
			ed.SetFileState(f, m.session.SaveStatus(f.ID))
		}
	}
}

// syncPanels reconciles the editor widgets with the layout engine's
// panels: new panels get editors seeded with the file's payload, editors
// whose panel is gone are dropped.
func (m *Model) syncPanels() {
	panels := m.session.Layout().Panels()

	existing := make(map[string]*ui.Editor, len(m.editors))
	for _, ed := range m.editors {
		existing[ed.PanelID()] = ed
	}

	editors := make([]*ui.Editor, 0, len(panels))
	for _, p := range panels {
		// A panel rebound to another file needs a fresh editor
		if ed, ok := existing[p.ID]; ok && ed.FileID() == p.FileID {
			editors = append(editors, ed)
			continue
		}
		ed := ui.NewEditor(p.ID, p.FileID)
		if payload, err := m.session.FileData(context.Background(), p.FileID); err == nil {
			ed.SetContent(string(payload.Content))
		} else {
			logger.Warn("App: Could not seed panel for file=%s: %v", p.FileID, err)
		}
		editors = append(editors, ed)
	}
	m.editors = editors

	if m.focusedEditor >= len(m.editors) {
		m.focusedEditor = len(m.editors) - 1
	}
	if m.focusedEditor < 0 {
		m.focusedEditor = 0
	}
	m.updateSizes()
	m.refresh()
}

// updateSizes distributes the terminal area: header and footer rows,
// sidebar columns, and the rest split across editor panels following
// the layout engine's proportional sizes.
func (m *Model) updateSizes() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)

	bodyHeight := m.height - ui.HeaderHeight - ui.FooterHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	sidebarWidth := 0
	if m.sidebarVisible {
		sidebarWidth = m.prefs.GetSidebarWidth()
		if sidebarWidth < ui.MinSidebarWidth {
			sidebarWidth = ui.MinSidebarWidth
		}
		if sidebarWidth > m.width/2 {
			sidebarWidth = m.width / 2
		}
		m.sidebar.SetSize(sidebarWidth, bodyHeight)
	}

	editorArea := m.width - sidebarWidth
	if editorArea < 1 {
		editorArea = 1
	}
	if len(m.editors) == 0 {
		return
	}

	panels := m.session.Layout().Panels()
	sizeFor := func(panelID string) float64 {
		for _, p := range panels {
			if p.ID == panelID {
				return p.Size
			}
		}
		return layout.SizeTotal / float64(len(m.editors))
	}

	if m.session.Layout().Orientation() == layout.Vertical {
		used := 0
		for i, ed := range m.editors {
			h := int(float64(bodyHeight) * sizeFor(ed.PanelID()) / layout.SizeTotal)
			if i == len(m.editors)-1 {
				h = bodyHeight - used
			}
			if h < 3 {
				h = 3
			}
			ed.SetSize(editorArea, h)
			used += h
		}
		return
	}

	used := 0
	for i, ed := range m.editors {
		w := int(float64(editorArea) * sizeFor(ed.PanelID()) / layout.SizeTotal)
		if i == len(m.editors)-1 {
			w = editorArea - used
		}
		if w < 10 {
			w = 10
		}
		ed.SetSize(w, bodyHeight)
		used += w
	}
}

// focusedEditorWidget returns the editor with keyboard focus, or nil.
func (m *Model) focusedEditorWidget() *ui.Editor {
	if len(m.editors) == 0 || m.focusedEditor < 0 || m.focusedEditor >= len(m.editors) {
		return nil
	}
	return m.editors[m.focusedEditor]
}
