package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/atelier-studio/atelier/internal/keys"
)

// RenameModal collects a new title for an open file.
type RenameModal struct {
	FileID string
	value  string
	form   *huh.Form
}

// NewRenameModal creates the modal pre-filled with the current title.
func NewRenameModal(fileID, currentTitle string) *RenameModal {
	m := &RenameModal{FileID: fileID, value: currentTitle}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New title").
				CharLimit(ModalInputCharLimit).
				Value(&m.value),
		),
	).WithTheme(modalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 8)
	// Initialize eagerly so the first render is correct
	m.form.Init()
	return m
}

// Value returns the entered title.
func (m *RenameModal) Value() string {
	return m.value
}

// Update forwards messages to the form. Enter and Escape are not
// consumed here; the app layer decides confirm vs cancel.
func (m *RenameModal) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			return nil
		}
	}
	f, cmd := m.form.Update(msg)
	m.form = f.(*huh.Form)
	return cmd
}

// View renders the modal box.
func (m *RenameModal) View() string {
	title := ModalTitleStyle.Render("Rename File")
	help := ModalHelpStyle.Render("Enter: confirm  Esc: cancel")
	return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), help))
}

// OpenModal collects the id of a workspace file to open.
type OpenModal struct {
	value string
	form  *huh.Form
}

// NewOpenModal creates an empty open-file prompt.
func NewOpenModal() *OpenModal {
	m := &OpenModal{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("File id").
				CharLimit(ModalInputCharLimit).
				Value(&m.value),
		),
	).WithTheme(modalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 8)
	m.form.Init()
	return m
}

// Value returns the entered file id with surrounding whitespace stripped.
func (m *OpenModal) Value() string {
	return strings.TrimSpace(m.value)
}

// Update forwards messages to the form. Enter and Escape are not
// consumed here; the app layer decides confirm vs cancel.
func (m *OpenModal) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			return nil
		}
	}
	f, cmd := m.form.Update(msg)
	m.form = f.(*huh.Form)
	return cmd
}

// View renders the modal box.
func (m *OpenModal) View() string {
	title := ModalTitleStyle.Render("Open File")
	help := ModalHelpStyle.Render("Enter: open  Esc: cancel")
	return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), help))
}

// modalTheme returns a huh theme matching the modal color palette.
func modalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)

		t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
		t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		return t
	})
}
