package input

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// DOM key codes sent by TV remotes
const (
	KeyCodeEnter     = 13
	KeyCodeBack      = 27
	KeyCodeSpace     = 32
	KeyCodeLeft      = 37
	KeyCodeUp        = 38
	KeyCodeRight     = 39
	KeyCodeDown      = 40
	KeyCodeMediaPlay = 415
)

// DOMKey is a keydown observed in the page
type DOMKey struct {
	Code   int
	Target string // tag name of the focused element
}

// InTextField reports whether the key was typed into a form field
func (k DOMKey) InTextField() bool {
	switch strings.ToUpper(k.Target) {
	case "INPUT", "TEXTAREA":
		return true
	}
	return false
}

// KeyMsgForCode maps a remote key code to the terminal key with the same
// meaning
func KeyMsgForCode(code int) (tea.KeyMsg, bool) {
	switch code {
	case KeyCodeLeft:
		return tea.KeyMsg{Type: tea.KeyLeft}, true
	case KeyCodeUp:
		return tea.KeyMsg{Type: tea.KeyUp}, true
	case KeyCodeRight:
		return tea.KeyMsg{Type: tea.KeyRight}, true
	case KeyCodeDown:
		return tea.KeyMsg{Type: tea.KeyDown}, true
	case KeyCodeEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}, true
	case KeyCodeBack:
		return tea.KeyMsg{Type: tea.KeyEsc}, true
	case KeyCodeSpace, KeyCodeMediaPlay:
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true
	}
	return tea.KeyMsg{}, false
}
