package navigation

import (
	"context"

	"iyftv/internal/focus"
)

// State is the focus state of the page. It exists only while spatial
// navigation is enabled.
type State struct {
	Current        *focus.Item
	Items          []focus.Item
	Enabled        bool
	ViewportOffset int // first visible row
	ViewportHeight int // rows that fit on screen
}

// Scanner produces a fresh item snapshot
type Scanner interface {
	Scan(ctx context.Context) ([]focus.Item, error)
}

// Focuser applies focus to an item on the page and scrolls it into view
type Focuser interface {
	Focus(ctx context.Context, item focus.Item) error
}

// Activator performs an Activation on the page
type Activator interface {
	Activate(ctx context.Context, a Activation) error
}

// ActivationKind says how an item is activated
type ActivationKind string

const (
	ActivateFollow ActivationKind = "follow" // navigate to the item's own link
	ActivateLink   ActivationKind = "link"   // click the first link inside the item
	ActivateClick  ActivationKind = "click"  // click the item itself
)

// Activation is the outcome of selecting an item
type Activation struct {
	Kind ActivationKind
	Item focus.Item
	URL  string
}
