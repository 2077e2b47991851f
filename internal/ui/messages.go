package ui

import (
	"time"

	"iyftv/internal/eventbus"
	"iyftv/internal/focus"
	"iyftv/internal/navigation"
	"iyftv/internal/player"
	"iyftv/internal/ui/input"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// DOMKeyMsg is a remote key pressed inside the live page
type DOMKeyMsg struct {
	Key input.DOMKey
}

// tickMsg is sent on a timer for animations and expiry
type tickMsg time.Time

// scanMsg contains the result of a rescan
type scanMsg struct {
	items []focus.Item
	err   error
}

// focusMsg contains the result of a focus move
type focusMsg struct {
	item  focus.Item
	moved bool
	err   error
}

// selectMsg contains the result of activating the focused item
type selectMsg struct {
	activation navigation.Activation
	ok         bool
	err        error
}

// playerMsg contains the video state after a player action or poll
type playerMsg struct {
	state player.State
	video bool // false when the page has no video
	err   error
}

// overlayMsg reports that the overlay was drawn or hidden
type overlayMsg struct {
	err error
}

// backMsg contains the result of going back
type backMsg struct {
	err error
}

// rescanMsg asks for a rescan once the page settled
type rescanMsg struct{}

// clearStatusMsg clears the status line unless a newer message replaced it
type clearStatusMsg struct {
	seq int
}
