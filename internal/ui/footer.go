package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	bindings       []KeyBinding
	sidebarFocused bool // Whether the file list has focus
	modalOpen      bool // Whether a modal is showing
	dirtyCount     int  // Files with unconfirmed edits
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "tab", Desc: "switch pane"},
			{Key: "ctrl+n", Desc: "open"},
			{Key: "ctrl+s", Desc: "save"},
			{Key: "ctrl+a", Desc: "save all"},
			{Key: "ctrl+t", Desc: "split"},
			{Key: "ctrl+←/→", Desc: "resize"},
			{Key: "ctrl+x", Desc: "close panel"},
			{Key: "ctrl+r", Desc: "rename"},
			{Key: "ctrl+w", Desc: "close file"},
			{Key: "ctrl+b", Desc: "sidebar"},
			{Key: "ctrl+c", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(sidebarFocused, modalOpen bool, dirtyCount int) {
	f.sidebarFocused = sidebarFocused
	f.modalOpen = modalOpen
	f.dirtyCount = dirtyCount
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings allows custom keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// View renders the footer
func (f *Footer) View() string {
	var parts []string

	if f.modalOpen {
		for _, b := range []KeyBinding{
			{Key: "enter", Desc: "confirm"},
			{Key: "esc", Desc: "cancel"},
		} {
			parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
		}
		return f.render(parts)
	}

	bindings := f.bindings
	if f.sidebarFocused {
		bindings = []KeyBinding{
			{Key: "↑/↓", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "ctrl+n", Desc: "open by id"},
			{Key: "ctrl+w", Desc: "close file"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}
	for _, b := range bindings {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}

	if f.dirtyCount > 0 {
		unsaved := fmt.Sprintf("%d unsaved", f.dirtyCount)
		parts = append(parts, PanelDirtyStyle.Render(unsaved))
	}

	return f.render(parts)
}

func (f *Footer) render(parts []string) string {
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := strings.Join(parts, sep)
	return FooterStyle.Width(f.width).Render(content)
}
