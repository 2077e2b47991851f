// Package live drives the real site in a Chromium tab over the DevTools
// protocol. It implements the page, focus, toast, overlay and video hooks
// the rest of the application works against.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"iyftv/internal/adblock"
	"iyftv/internal/eventbus"
)

// Options configures a Session
type Options struct {
	URL         string
	DevToolsURL string // attach to a running browser instead of starting one
	ChromePath  string
	Headless    bool
	Timeout     time.Duration
	FocusColor  string
	Bus         eventbus.EventBus
}

// KeyEvent is a remote key pressed while the browser window had focus
type KeyEvent struct {
	Code   int    `json:"code"`
	Target string `json:"target"`
}

// Session is one browser tab showing the site
type Session struct {
	opts        Options
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	bus         eventbus.EventBus
	keys        chan KeyEvent
	filter      atomic.Pointer[adblock.Filter]

	// eval runs a script in the page and decodes its JSON result
	eval func(ctx context.Context, script string, res interface{}) error

	closeOnce sync.Once
}

// Open starts or attaches to a browser, loads the site and installs the
// page hooks
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.FocusColor == "" {
		opts.FocusColor = "#0f0f0f"
	}
	bus := opts.Bus
	if bus == nil {
		bus = eventbus.Discard{}
	}

	allocCtx, allocCancel := newAllocator(opts)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		opts:        opts,
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		bus:         bus,
		keys:        make(chan KeyEvent, 16),
	}
	s.eval = s.evalInTab

	chromedp.ListenTarget(tabCtx, s.handleTargetEvent)

	err := s.run(ctx,
		runtime.AddBinding(keyBinding),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(installScript(opts.FocusColor)).Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if opts.URL != "" {
		if err := s.Navigate(ctx, opts.URL); err != nil {
			s.Close()
			return nil, err
		}
	}
	log.Printf("Live: session open at %s", opts.URL)
	return s, nil
}

func newAllocator(opts Options) (context.Context, context.CancelFunc) {
	if opts.DevToolsURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), opts.DevToolsURL)
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
		chromedp.WindowSize(1920, 1080),
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}
	return chromedp.NewExecAllocator(context.Background(), allocOpts...)
}

// Keys delivers remote keys pressed inside the page
func (s *Session) Keys() <-chan KeyEvent {
	return s.keys
}

// Navigate loads url and installs the hooks on it
func (s *Session) Navigate(ctx context.Context, url string) error {
	var ok bool
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(installScript(s.opts.FocusColor), &ok),
	)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

// Back goes one entry back in the tab's history
func (s *Session) Back(ctx context.Context) error {
	var ok bool
	err := s.run(ctx,
		chromedp.NavigateBack(),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(installScript(s.opts.FocusColor), &ok),
	)
	if err != nil {
		return fmt.Errorf("failed to go back: %w", err)
	}
	return nil
}

// Location returns the URL the tab is showing
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

// Snapshot stamps ids and rectangles onto candidate elements and returns
// the page markup
func (s *Session) Snapshot(ctx context.Context) (string, error) {
	var html string
	if err := s.eval(ctx, stampScript(), &html); err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

// Remove deletes the stamped elements with the given ids
func (s *Session) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	var removed int
	if err := s.eval(ctx, removeScript(ids), &removed); err != nil {
		return fmt.Errorf("failed to remove elements: %w", err)
	}
	log.Printf("Live: removed %d of %d elements", removed, len(ids))
	return nil
}

// Close shuts the tab and, when it was started here, the browser
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
	})
}

// run executes actions on the tab, bounded by the session timeout and by ctx
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *Session) evalInTab(ctx context.Context, script string, res interface{}) error {
	return s.run(ctx, chromedp.Evaluate(script, res))
}

func (s *Session) handleTargetEvent(ev interface{}) {
	switch ev := ev.(type) {
	case *runtime.EventBindingCalled:
		if ev.Name == keyBinding {
			s.handleKey(ev.Payload)
		}
	case *fetch.EventRequestPaused:
		s.handleRequestPaused(ev)
	}
}

func (s *Session) handleKey(payload string) {
	var key KeyEvent
	if err := json.Unmarshal([]byte(payload), &key); err != nil {
		log.Printf("Live: bad key payload %q: %v", payload, err)
		return
	}
	select {
	case s.keys <- key:
	default:
		log.Printf("Live: key channel full, dropping key %d", key.Code)
	}
}
