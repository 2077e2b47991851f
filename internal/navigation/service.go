// Package navigation owns the focus state and every side effect of moving
// focus: rescans, applying focus on the page and announcing moves.
package navigation

import (
	"context"
	"fmt"
	"log"
	"sync"

	"iyftv/internal/eventbus"
	"iyftv/internal/focus"
)

// Service handles all navigation logic
type Service struct {
	mu        sync.Mutex
	state     State
	bus       eventbus.EventBus
	scanner   Scanner
	focuser   Focuser
	activator Activator
}

// NewService creates a navigation service. focuser and activator may be nil
// when focus only lives in the terminal.
func NewService(bus eventbus.EventBus, scanner Scanner, focuser Focuser, activator Activator) *Service {
	if bus == nil {
		bus = eventbus.Discard{}
	}
	return &Service{
		state: State{
			Enabled:        true,
			ViewportHeight: 4, // Default, will be updated
		},
		bus:       bus,
		scanner:   scanner,
		focuser:   focuser,
		activator: activator,
	}
}

// Snapshot returns a copy of the current state
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Items = append([]focus.Item(nil), s.state.Items...)
	if s.state.Current != nil {
		cur := *s.state.Current
		st.Current = &cur
	}
	return st
}

// Current returns the focused item
func (s *Service) Current() (focus.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == nil {
		return focus.Item{}, false
	}
	return *s.state.Current, true
}

// Enabled reports whether spatial navigation is on
func (s *Service) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Enabled
}

// SetEnabled turns navigation on or off. Turning it off drops the focus state.
func (s *Service) SetEnabled(enabled bool) {
	s.mu.Lock()
	if s.state.Enabled == enabled {
		s.mu.Unlock()
		return
	}
	s.state.Enabled = enabled
	if !enabled {
		s.state.Current = nil
		s.state.Items = nil
		s.state.ViewportOffset = 0
	}
	s.mu.Unlock()

	log.Printf("Navigation: enabled=%v", enabled)
	s.bus.Publish(eventbus.NavigationStateEvent{Enabled: enabled})
}

// SetViewportHeight updates how many rows fit on screen
func (s *Service) SetViewportHeight(rows int) {
	if rows < 1 {
		rows = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ViewportHeight = rows
	s.ensureVisible()
}

// Refresh rescans the page. The focused item survives when it is still
// present, otherwise focus is dropped.
func (s *Service) Refresh(ctx context.Context) ([]focus.Item, error) {
	if !s.Enabled() {
		return nil, nil
	}
	items, err := s.scanner.Scan(ctx)
	if err != nil {
		s.bus.Publish(eventbus.ErrorEvent{Message: "Scan failed", Err: err})
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}
	s.Push(items)
	return items, nil
}

// Push replaces the item snapshot with one observed elsewhere
func (s *Service) Push(items []focus.Item) {
	s.mu.Lock()
	if !s.state.Enabled {
		s.mu.Unlock()
		return
	}
	s.state.Items = append([]focus.Item(nil), items...)
	if s.state.Current != nil {
		if i := focus.IndexOf(s.state.Items, s.state.Current.ID); i >= 0 {
			cur := s.state.Items[i]
			s.state.Current = &cur
		} else {
			log.Printf("Navigation: focused item %s disappeared", s.state.Current.ID)
			s.state.Current = nil
		}
	}
	s.ensureVisible()
	s.mu.Unlock()

	s.bus.Publish(eventbus.ItemsScannedEvent{Count: len(items)})
}

// FocusFirst focuses the first item of the snapshot, scanning if needed
func (s *Service) FocusFirst(ctx context.Context) (focus.Item, bool, error) {
	if !s.Enabled() {
		return focus.Item{}, false, nil
	}
	if len(s.Snapshot().Items) == 0 {
		if _, err := s.Refresh(ctx); err != nil {
			return focus.Item{}, false, err
		}
	}

	s.mu.Lock()
	if len(s.state.Items) == 0 {
		s.mu.Unlock()
		return focus.Item{}, false, nil
	}
	target := s.state.Items[0]
	s.mu.Unlock()

	if err := s.moveTo(ctx, target, "initial"); err != nil {
		return focus.Item{}, false, err
	}
	return target, true, nil
}

// Navigate moves focus in a direction. An empty snapshot is rescanned once
// before giving up. When no target exists nothing changes.
func (s *Service) Navigate(ctx context.Context, dir focus.Direction) (focus.Item, bool, error) {
	if !s.Enabled() {
		return focus.Item{}, false, nil
	}

	if len(s.Snapshot().Items) == 0 {
		if _, err := s.Refresh(ctx); err != nil {
			return focus.Item{}, false, err
		}
	}

	s.mu.Lock()
	target, ok := focus.Route(dir, s.state.Current, s.state.Items)
	s.mu.Unlock()
	if !ok {
		return focus.Item{}, false, nil
	}

	if err := s.moveTo(ctx, target, dir.String()); err != nil {
		return focus.Item{}, false, err
	}
	return target, true, nil
}

// Select resolves what activating the focused item means and performs it
func (s *Service) Select(ctx context.Context) (Activation, bool, error) {
	current, ok := s.Current()
	if !ok || !s.Enabled() {
		return Activation{}, false, nil
	}

	a := Resolve(current)
	if s.activator != nil {
		if err := s.activator.Activate(ctx, a); err != nil {
			return a, false, fmt.Errorf("failed to activate %s: %w", current.ID, err)
		}
	}

	log.Printf("Navigation: activated %s (%s %s)", current.ID, a.Kind, a.URL)
	s.bus.Publish(eventbus.ItemActivatedEvent{ItemID: current.ID, Kind: string(a.Kind), URL: a.URL})
	return a, true, nil
}

// Resolve decides how an item is activated: its own link, else the first
// link inside it, else a plain click
func Resolve(item focus.Item) Activation {
	switch {
	case item.Href != "":
		return Activation{Kind: ActivateFollow, Item: item, URL: item.Href}
	case item.LinkHref != "":
		return Activation{Kind: ActivateLink, Item: item, URL: item.LinkHref}
	default:
		return Activation{Kind: ActivateClick, Item: item}
	}
}

// RowOf returns the row holding the item with the given id, or -1
func (s *Service) RowOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rowOf(focus.Rows(s.state.Items), id)
}

func (s *Service) moveTo(ctx context.Context, target focus.Item, reason string) error {
	// The page must accept focus before the state moves
	if s.focuser != nil {
		if err := s.focuser.Focus(ctx, target); err != nil {
			return fmt.Errorf("failed to focus %s: %w", target.ID, err)
		}
	}

	s.mu.Lock()
	from := ""
	if s.state.Current != nil {
		from = s.state.Current.ID
	}
	s.state.Current = &target
	s.ensureVisible()
	s.mu.Unlock()

	s.bus.Publish(eventbus.FocusMovedEvent{FromID: from, ToID: target.ID, Direction: reason})
	return nil
}

// ensureVisible keeps the focused row inside the viewport. Caller holds s.mu.
func (s *Service) ensureVisible() {
	rows := focus.Rows(s.state.Items)
	if s.state.Current == nil {
		if s.state.ViewportOffset >= len(rows) {
			s.state.ViewportOffset = 0
		}
		return
	}
	row := rowOf(rows, s.state.Current.ID)
	if row < 0 {
		return
	}
	if row < s.state.ViewportOffset {
		s.state.ViewportOffset = row
	} else if row >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = row - s.state.ViewportHeight + 1
	}
}

func rowOf(rows [][]focus.Item, id string) int {
	for r, row := range rows {
		for _, it := range row {
			if it.ID == id {
				return r
			}
		}
	}
	return -1
}
