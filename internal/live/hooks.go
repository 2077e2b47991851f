package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"iyftv/internal/focus"
	"iyftv/internal/navigation"
)

// ErrGone reports a stamped element that no longer exists in the page
var ErrGone = errors.New("element is no longer on the page")

// Focus moves the page focus to item and scrolls it to the center
func (s *Session) Focus(ctx context.Context, item focus.Item) error {
	var ok bool
	if err := s.eval(ctx, focusScript(item.ID), &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", item.ID, ErrGone)
	}
	return nil
}

// Activate follows, clicks through or clicks the item
func (s *Session) Activate(ctx context.Context, a navigation.Activation) error {
	var ok bool
	if err := s.eval(ctx, activateScript(a.Item.ID, string(a.Kind)), &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", a.Item.ID, ErrGone)
	}
	return nil
}

// Toast shows a notification inside the page
func (s *Session) Toast(ctx context.Context, message string, d time.Duration) error {
	var ok bool
	return s.eval(ctx, toastScript(message, d.Milliseconds()), &ok)
}

// ShowOverlay displays the remote-control overlay
func (s *Session) ShowOverlay(ctx context.Context) error {
	var ok bool
	return s.eval(ctx, overlayScript(true), &ok)
}

// HideOverlay hides the remote-control overlay
func (s *Session) HideOverlay(ctx context.Context) error {
	var ok bool
	return s.eval(ctx, overlayScript(false), &ok)
}
