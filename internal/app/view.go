package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/atelier-studio/atelier/internal/layout"
	"github.com/atelier-studio/atelier/internal/ui"
)

// View renders the application
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		v.SetContent("Loading...")
		return v
	}

	header := m.header.View()
	footer := m.footer.View()
	if m.flash != "" {
		style := ui.StatusSavedStyle
		if m.flashErr {
			style = ui.StatusErrorStyle
		}
		footer = ui.FooterStyle.Width(m.width).Render(style.Render(m.flash))
	}

	var editorViews []string
	for _, ed := range m.editors {
		editorViews = append(editorViews, ed.View())
	}

	var editorArea string
	switch {
	case len(editorViews) == 0:
		editorArea = lipgloss.NewStyle().
			Foreground(ui.ColorTextMuted).
			Italic(true).
			Padding(1, 2).
			Render("Select a file and press enter to start editing")
	case m.session.Layout().Orientation() == layout.Vertical:
		editorArea = lipgloss.JoinVertical(lipgloss.Left, editorViews...)
	default:
		editorArea = lipgloss.JoinHorizontal(lipgloss.Top, editorViews...)
	}

	var body string
	if m.sidebarVisible {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), editorArea)
	} else {
		body = editorArea
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	var overlay string
	switch {
	case m.modal != nil:
		overlay = m.modal.View()
	case m.openModal != nil:
		overlay = m.openModal.View()
	}
	if overlay != "" {
		bgStyle := lipgloss.NewStyle().Background(lipgloss.Color("#000000"))
		v.SetContent(lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			overlay,
			lipgloss.WithWhitespaceStyle(bgStyle),
		))
		return v
	}

	v.SetContent(view)
	return v
}
