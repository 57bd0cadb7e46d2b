// Package ui provides the terminal widgets for the Atelier workspace:
// header, footer, sidebar, editor panels, and the rename modal.
package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// TitleHeight is the height of panel titles
	TitleHeight = 1

	// MinSidebarWidth keeps the file list readable on narrow terminals
	MinSidebarWidth = 20

	// DefaultWrapWidth is the fallback width when the terminal size is unknown
	DefaultWrapWidth = 80
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256
)
