package live

import (
	"context"
	"fmt"
	"log"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"iyftv/internal/adblock"
	"iyftv/internal/eventbus"
)

// BlockRequests pauses every fetch() request the page makes and fails the
// ones the filter refuses
func (s *Session) BlockRequests(ctx context.Context, filter *adblock.Filter) error {
	s.filter.Store(filter)
	err := s.run(ctx, fetch.Enable().WithPatterns([]*fetch.RequestPattern{
		{URLPattern: "*", ResourceType: network.ResourceTypeFetch},
	}))
	if err != nil {
		return fmt.Errorf("failed to enable request blocking: %w", err)
	}
	return nil
}

// handleRequestPaused must not block the listener, so the verdict is sent
// from its own goroutine
func (s *Session) handleRequestPaused(ev *fetch.EventRequestPaused) {
	filter := s.filter.Load()
	go func() {
		c := chromedp.FromContext(s.ctx)
		if c == nil || c.Target == nil {
			return
		}
		execCtx := cdp.WithExecutor(s.ctx, c.Target)

		if filter != nil && filter.BlocksURL(ev.Request.URL) {
			if err := fetch.FailRequest(ev.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx); err != nil {
				log.Printf("Live: failed to block %s: %v", ev.Request.URL, err)
				return
			}
			s.bus.Publish(eventbus.RequestBlockedEvent{URL: ev.Request.URL})
			return
		}
		if err := fetch.ContinueRequest(ev.RequestID).Do(execCtx); err != nil {
			log.Printf("Live: failed to continue %s: %v", ev.Request.URL, err)
		}
	}()
}
