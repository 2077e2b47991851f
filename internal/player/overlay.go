package player

import (
	"context"
	"sync"
	"time"
)

// OverlayDuration is how long the remote overlay stays up after the last key
const OverlayDuration = 3 * time.Second

// OverlaySink draws the overlay somewhere other than the terminal
type OverlaySink interface {
	ShowOverlay(ctx context.Context) error
	HideOverlay(ctx context.Context) error
}

// Overlay tracks the on-screen remote-control hint shown during playback
type Overlay struct {
	mu      sync.Mutex
	enabled bool
	until   time.Time
	shown   bool
	sink    OverlaySink
}

// NewOverlay creates an overlay. sink may be nil.
func NewOverlay(enabled bool, sink OverlaySink) *Overlay {
	return &Overlay{enabled: enabled, sink: sink}
}

// SetEnabled turns the overlay feature on or off
func (o *Overlay) SetEnabled(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enabled = enabled
	if !enabled {
		o.shown = false
	}
}

// Show displays the overlay until now+OverlayDuration. It returns false
// when the feature is off.
func (o *Overlay) Show(ctx context.Context, now time.Time) (bool, error) {
	o.mu.Lock()
	if !o.enabled {
		o.mu.Unlock()
		return false, nil
	}
	o.until = now.Add(OverlayDuration)
	wasShown := o.shown
	o.shown = true
	o.mu.Unlock()

	if o.sink != nil && !wasShown {
		return true, o.sink.ShowOverlay(ctx)
	}
	return true, nil
}

// Visible reports whether the overlay is up at now
func (o *Overlay) Visible(now time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.shown && now.Before(o.until)
}

// Expire hides the overlay when its time is up. It reports whether the
// overlay was hidden by this call.
func (o *Overlay) Expire(ctx context.Context, now time.Time) (bool, error) {
	o.mu.Lock()
	if !o.shown || now.Before(o.until) {
		o.mu.Unlock()
		return false, nil
	}
	o.shown = false
	o.mu.Unlock()

	if o.sink != nil {
		return true, o.sink.HideOverlay(ctx)
	}
	return true, nil
}
