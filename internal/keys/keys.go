// Package keys provides string constants for Bubble Tea v2 key press events.
//
// These constants are derived from tea.KeyPressMsg{Code: tea.KeyXxx}.String()
// and are guaranteed to match the actual runtime values. Using these constants
// instead of hardcoded strings prevents typo bugs (e.g., "escape" vs "esc").
//
// Single-character keys like "q" are not included here because they are
// unambiguous and cannot be misspelled in a meaningful way.
package keys

import tea "charm.land/bubbletea/v2"

// Navigation keys
var (
	Up     = tea.KeyPressMsg{Code: tea.KeyUp}.String()     // "up"
	Down   = tea.KeyPressMsg{Code: tea.KeyDown}.String()   // "down"
	PgUp   = tea.KeyPressMsg{Code: tea.KeyPgUp}.String()   // "pgup"
	PgDown = tea.KeyPressMsg{Code: tea.KeyPgDown}.String() // "pgdown"

	CtrlLeft  = (tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModCtrl}).String()  // "ctrl+left"
	CtrlRight = (tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModCtrl}).String() // "ctrl+right"
)

// Action keys
var (
	Enter    = tea.KeyPressMsg{Code: tea.KeyEnter}.String()                    // "enter"
	Tab      = tea.KeyPressMsg{Code: tea.KeyTab}.String()                      // "tab"
	ShiftTab = (tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}).String() // "shift+tab"
	Escape   = tea.KeyPressMsg{Code: tea.KeyEscape}.String()                   // "esc"
)

// Ctrl combinations
var (
	CtrlC = (tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}).String() // "ctrl+c"
	CtrlN = (tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}).String() // "ctrl+n"
	CtrlS = (tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}).String() // "ctrl+s"
	CtrlA = (tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl}).String() // "ctrl+a"
	CtrlW = (tea.KeyPressMsg{Code: 'w', Mod: tea.ModCtrl}).String() // "ctrl+w"
	CtrlB = (tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}).String() // "ctrl+b"
	CtrlT = (tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}).String() // "ctrl+t"
	CtrlR = (tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}).String() // "ctrl+r"
	CtrlO = (tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}).String() // "ctrl+o"
	CtrlX = (tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl}).String() // "ctrl+x"
)
