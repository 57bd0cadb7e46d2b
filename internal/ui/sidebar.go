package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/atelier-studio/atelier/internal/workspace"
)

// kind markers shown before each file title
const (
	markerDocument = "▤"
	markerCanvas   = "▦"
	markerDirty    = "●"
)

// Sidebar is the left panel listing the session's open files. The
// selection is a cursor over the list; opening happens on enter, so
// navigating never churns the cache.
type Sidebar struct {
	files        []workspace.OpenFile
	activeID     string
	selectedIdx  int
	width        int
	height       int
	focused      bool
	scrollOffset int
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetFiles replaces the file list, keeping the cursor on the same file
// when it is still present.
func (s *Sidebar) SetFiles(files []workspace.OpenFile, activeID string) {
	selectedID := s.SelectedID()
	s.files = files
	s.activeID = activeID

	s.selectedIdx = 0
	for i, f := range files {
		if f.ID == selectedID {
			s.selectedIdx = i
			break
		}
	}
	s.clampScroll()
}

// SelectedID returns the file id under the cursor, or "" when empty.
func (s *Sidebar) SelectedID() string {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.files) {
		return ""
	}
	return s.files[s.selectedIdx].ID
}

// MoveUp moves the cursor up one file
func (s *Sidebar) MoveUp() {
	if s.selectedIdx > 0 {
		s.selectedIdx--
	}
	s.clampScroll()
}

// MoveDown moves the cursor down one file
func (s *Sidebar) MoveDown() {
	if s.selectedIdx < len(s.files)-1 {
		s.selectedIdx++
	}
	s.clampScroll()
}

// visibleRows is the number of file rows that fit in the sidebar.
func (s *Sidebar) visibleRows() int {
	rows := s.height - BorderSize - TitleHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (s *Sidebar) clampScroll() {
	rows := s.visibleRows()
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+rows {
		s.scrollOffset = s.selectedIdx - rows + 1
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}

// View renders the sidebar
func (s *Sidebar) View() string {
	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := s.width - BorderSize
	if innerWidth < 1 {
		innerWidth = 1
	}

	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render("Files"))
	b.WriteString("\n")

	if len(s.files) == 0 {
		b.WriteString(SidebarItemStyle.Render(
			lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true).Render("No files open")))
	} else {
		rows := s.visibleRows()
		end := s.scrollOffset + rows
		if end > len(s.files) {
			end = len(s.files)
		}
		lines := make([]string, 0, end-s.scrollOffset)
		for i := s.scrollOffset; i < end; i++ {
			lines = append(lines, s.renderItem(s.files[i], i == s.selectedIdx, innerWidth))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	return style.Width(s.width - BorderSize).Height(s.height - BorderSize).Render(b.String())
}

// renderItem renders a single file row: kind marker, title truncated to
// the available width, and a trailing dirty marker that is never cut off.
func (s *Sidebar) renderItem(f workspace.OpenFile, selected bool, width int) string {
	marker := markerDocument
	if f.Kind == workspace.KindCanvas {
		marker = markerCanvas
	}

	// Reserve: padding (2), marker+space (2), dirty marker slot (2)
	titleWidth := width - 6
	if titleWidth < 1 {
		titleWidth = 1
	}
	title := runewidth.Truncate(f.Title, titleWidth, "…")

	suffix := " "
	if f.IsDirty {
		suffix = " " + SidebarDirtyStyle.Render(markerDirty)
	} else if f.ID == s.activeID {
		suffix = " " + SidebarKindStyle.Render("·")
	}

	pad := titleWidth - runewidth.StringWidth(title)
	if pad < 0 {
		pad = 0
	}
	line := SidebarKindStyle.Render(marker) + " " + title + strings.Repeat(" ", pad) + suffix

	if selected {
		return SidebarSelectedStyle.Render(line)
	}
	return SidebarItemStyle.Render(line)
}
