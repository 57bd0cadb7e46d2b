package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Header represents the top header bar
type Header struct {
	width       int
	projectName string
	saveStatus  string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetProjectName sets the current project name to display
func (h *Header) SetProjectName(name string) {
	h.projectName = name
}

// SetSaveStatus sets the save pipeline summary shown on the right,
// e.g. "saving..." or "2 unsaved".
func (h *Header) SetSaveStatus(status string) {
	h.saveStatus = status
}

// View renders the header
func (h *Header) View() string {
	titleText := " atelier"
	var rightText string
	if h.projectName != "" {
		rightText = h.projectName
		if h.saveStatus != "" {
			rightText += " (" + h.saveStatus + ")"
		}
		rightText += " "
	}

	paddingLen := h.width - len(titleText) - len(rightText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText
	return h.renderGradient(fullContent)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a gradient background fading
// from the primary color into the main background. The save-status
// portion is muted so the project name stays the focal point.
func (h *Header) renderGradient(content string) string {
	if len(content) == 0 {
		return ""
	}

	startR, startG, startB := parseHexColor(HexPrimary)
	endR, endG, endB := parseHexColor(HexBg)

	statusStart := -1
	if h.saveStatus != "" {
		statusStart = strings.Index(content, "("+h.saveStatus+")")
	}

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < 8) // Bold for the "atelier" title

		if statusStart >= 0 && i >= statusStart {
			style = style.Foreground(ColorTextMuted)
		} else {
			style = style.Foreground(ColorText)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
