// Package notify keeps the stack of short-lived toast messages.
package notify

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"iyftv/internal/eventbus"
)

const (
	// DefaultDuration is how long a toast stays up
	DefaultDuration = 3 * time.Second
	// LeaveDuration is the fade-out phase at the end of a toast's life
	LeaveDuration = 300 * time.Millisecond
	// WelcomeDelay is the pause before the welcome toast
	WelcomeDelay = time.Second
	// WelcomeMessage announces that the mod is active
	WelcomeMessage = "IYF TV Mod loaded successfully"
)

// Toast is a single notification
type Toast struct {
	ID       string
	Message  string
	Duration time.Duration
	Created  time.Time
}

// Expires returns when the toast disappears
func (t Toast) Expires() time.Time {
	return t.Created.Add(t.Duration)
}

// Leaving reports whether the toast is in its fade-out phase at now
func (t Toast) Leaving(now time.Time) bool {
	return !now.Before(t.Expires().Add(-LeaveDuration))
}

// Sink mirrors toasts somewhere else, such as the live page
type Sink interface {
	Toast(ctx context.Context, message string, d time.Duration) error
}

// Notifier owns the active toasts
type Notifier struct {
	mu     sync.Mutex
	toasts []Toast
	bus    eventbus.EventBus
	sink   Sink
	now    func() time.Time
}

// New creates a notifier. bus and sink may be nil.
func New(bus eventbus.EventBus, sink Sink) *Notifier {
	if bus == nil {
		bus = eventbus.Discard{}
	}
	return &Notifier{bus: bus, sink: sink, now: time.Now}
}

// Show adds a toast with the default duration
func (n *Notifier) Show(ctx context.Context, message string) Toast {
	return n.ShowFor(ctx, message, DefaultDuration)
}

// ShowFor adds a toast that lasts d
func (n *Notifier) ShowFor(ctx context.Context, message string, d time.Duration) Toast {
	if d <= 0 {
		d = DefaultDuration
	}
	t := Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Duration: d,
		Created:  n.now(),
	}

	n.mu.Lock()
	n.toasts = append(n.toasts, t)
	n.mu.Unlock()

	if n.sink != nil {
		if err := n.sink.Toast(ctx, message, d); err != nil {
			log.Printf("Notify: failed to mirror toast: %v", err)
		}
	}
	n.bus.Publish(eventbus.NotificationEvent{ID: t.ID, Message: message})
	return t
}

// Active returns the toasts still visible at now, oldest first
func (n *Notifier) Active(now time.Time) []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	var active []Toast
	for _, t := range n.toasts {
		if now.Before(t.Expires()) {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Created.Before(active[j].Created)
	})
	return active
}

// Prune drops expired toasts and returns how many were removed
func (n *Notifier) Prune(now time.Time) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.toasts[:0]
	for _, t := range n.toasts {
		if now.Before(t.Expires()) {
			kept = append(kept, t)
		}
	}
	removed := len(n.toasts) - len(kept)
	n.toasts = kept
	return removed
}

// Welcome shows the welcome toast after WelcomeDelay unless ctx ends first
func (n *Notifier) Welcome(ctx context.Context) {
	timer := time.NewTimer(WelcomeDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
		n.Show(ctx, WelcomeMessage)
	}
}
