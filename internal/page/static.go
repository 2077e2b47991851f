package page

import (
	"context"
	"log"
	"sync"

	"iyftv/internal/focus"
	"iyftv/internal/navigation"
)

// StaticHooks stands in for the page driver when the page is a file on
// disk. Focus only lives in the terminal and activations are recorded.
type StaticHooks struct {
	mu      sync.Mutex
	focused string
	opened  []navigation.Activation
}

// NewStaticHooks creates hooks for an offline page
func NewStaticHooks() *StaticHooks {
	return &StaticHooks{}
}

// Focus records the focused item
func (h *StaticHooks) Focus(ctx context.Context, item focus.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	h.focused = item.ID
	h.mu.Unlock()
	return nil
}

// Activate records the activation
func (h *StaticHooks) Activate(ctx context.Context, a navigation.Activation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	h.opened = append(h.opened, a)
	h.mu.Unlock()
	log.Printf("Page: %s %s (%s)", a.Kind, a.Item.ID, a.URL)
	return nil
}

// Back has no history to go back to
func (h *StaticHooks) Back(ctx context.Context) error {
	return ctx.Err()
}

// Focused returns the id of the last focused item
func (h *StaticHooks) Focused() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// Opened returns every activation so far
func (h *StaticHooks) Opened() []navigation.Activation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]navigation.Activation(nil), h.opened...)
}
