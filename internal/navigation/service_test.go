package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iyftv/internal/eventbus"
	"iyftv/internal/focus"
)

type recorder struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (r *recorder) Publish(e eventbus.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

func (r *recorder) ofType(t eventbus.EventType) []eventbus.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []eventbus.DomainEvent
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeScanner struct {
	snapshots [][]focus.Item
	calls     int
	err       error
}

func (f *fakeScanner) Scan(context.Context) ([]focus.Item, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.snapshots) == 0 {
		return nil, nil
	}
	snap := f.snapshots[0]
	if len(f.snapshots) > 1 {
		f.snapshots = f.snapshots[1:]
	}
	return snap, nil
}

type fakeFocuser struct {
	focused []string
	err     error
}

func (f *fakeFocuser) Focus(_ context.Context, item focus.Item) error {
	f.focused = append(f.focused, item.ID)
	return f.err
}

type fakeActivator struct {
	got []Activation
}

func (f *fakeActivator) Activate(_ context.Context, a Activation) error {
	f.got = append(f.got, a)
	return nil
}

func at(id string, top, left float64) focus.Item {
	return focus.Item{ID: id, Rect: focus.Rect{Top: top, Left: left, Width: 100, Height: 100}}
}

// Two rows of two
func grid() []focus.Item {
	return []focus.Item{at("a", 0, 0), at("b", 0, 200), at("c", 200, 0), at("d", 200, 200)}
}

func TestNavigateRescansEmptySnapshotOnce(t *testing.T) {
	scanner := &fakeScanner{snapshots: [][]focus.Item{grid()}}
	focuser := &fakeFocuser{}
	bus := &recorder{}
	s := NewService(bus, scanner, focuser, nil)

	item, ok, err := s.Navigate(context.Background(), focus.Down)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", item.ID, "no current item routes to the first")
	assert.Equal(t, 1, scanner.calls)
	assert.Equal(t, []string{"a"}, focuser.focused)

	moved := bus.ofType(eventbus.EventFocusMoved)
	require.Len(t, moved, 1)
	assert.Equal(t, eventbus.FocusMovedEvent{FromID: "", ToID: "a", Direction: "down"}, moved[0])
}

func TestNavigateEmptyAfterRescanIsNoop(t *testing.T) {
	scanner := &fakeScanner{}
	focuser := &fakeFocuser{}
	s := NewService(nil, scanner, focuser, nil)

	_, ok, err := s.Navigate(context.Background(), focus.Right)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, scanner.calls)
	assert.Empty(t, focuser.focused)
	_, has := s.Current()
	assert.False(t, has)
}

func TestNavigateMovesThroughGrid(t *testing.T) {
	s := NewService(nil, &fakeScanner{}, nil, nil)
	s.Push(grid())
	ctx := context.Background()

	steps := []struct {
		dir  focus.Direction
		want string
	}{
		{focus.Down, "a"},
		{focus.Right, "b"},
		{focus.Down, "c"},
		{focus.Right, "d"},
		{focus.Down, "a"},
		{focus.Up, "d"},
		{focus.Left, "c"},
	}
	for _, step := range steps {
		item, ok, err := s.Navigate(ctx, step.dir)
		require.NoError(t, err)
		require.True(t, ok, step.dir.String())
		assert.Equal(t, step.want, item.ID, step.dir.String())
	}
}

func TestNavigateAbsentTargetLeavesFocus(t *testing.T) {
	s := NewService(nil, &fakeScanner{}, nil, nil)
	s.Push([]focus.Item{at("only", 0, 0)})
	ctx := context.Background()

	_, ok, err := s.Navigate(ctx, focus.Down)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = s.Navigate(ctx, focus.Left)
	require.NoError(t, err)
	assert.False(t, ok)
	cur, has := s.Current()
	require.True(t, has)
	assert.Equal(t, "only", cur.ID)
}

func TestNavigateFocusError(t *testing.T) {
	focuser := &fakeFocuser{}
	bus := &recorder{}
	s := NewService(bus, &fakeScanner{}, focuser, nil)
	s.Push(grid())
	ctx := context.Background()

	_, _, err := s.Navigate(ctx, focus.Down)
	require.NoError(t, err)
	offset := s.Snapshot().ViewportOffset

	focuser.err = errors.New("detached")
	_, ok, err := s.Navigate(ctx, focus.Right)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, focuser.focused)

	cur, has := s.Current()
	require.True(t, has)
	assert.Equal(t, "a", cur.ID, "focus stays where the page has it")
	assert.Equal(t, offset, s.Snapshot().ViewportOffset)
	assert.Len(t, bus.ofType(eventbus.EventFocusMoved), 1)
}

func TestFocusFirstFocusError(t *testing.T) {
	bus := &recorder{}
	s := NewService(bus, &fakeScanner{snapshots: [][]focus.Item{grid()}}, &fakeFocuser{err: errors.New("detached")}, nil)

	_, ok, err := s.FocusFirst(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
	_, has := s.Current()
	assert.False(t, has)
	assert.Empty(t, bus.ofType(eventbus.EventFocusMoved))
}

func TestNavigateScanError(t *testing.T) {
	bus := &recorder{}
	s := NewService(bus, &fakeScanner{err: errors.New("boom")}, nil, nil)

	_, ok, err := s.Navigate(context.Background(), focus.Down)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Len(t, bus.ofType(eventbus.EventError), 1)
}

func TestRefreshKeepsOrDropsCurrent(t *testing.T) {
	moved := grid()
	moved[1].Rect.Left = 300
	scanner := &fakeScanner{snapshots: [][]focus.Item{grid(), moved, {at("x", 0, 0)}}}
	bus := &recorder{}
	s := NewService(bus, scanner, nil, nil)
	ctx := context.Background()

	_, err := s.Refresh(ctx)
	require.NoError(t, err)
	_, _, err = s.Navigate(ctx, focus.Down)
	require.NoError(t, err)
	_, _, err = s.Navigate(ctx, focus.Right)
	require.NoError(t, err)

	_, err = s.Refresh(ctx)
	require.NoError(t, err)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)
	assert.Equal(t, 300.0, cur.Rect.Left, "current picks up fresh geometry")

	_, err = s.Refresh(ctx)
	require.NoError(t, err)
	_, ok = s.Current()
	assert.False(t, ok, "stale current is dropped")

	assert.Len(t, bus.ofType(eventbus.EventItemsScanned), 3)
}

func TestFocusFirst(t *testing.T) {
	focuser := &fakeFocuser{}
	s := NewService(nil, &fakeScanner{snapshots: [][]focus.Item{grid()}}, focuser, nil)

	item, ok, err := s.FocusFirst(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", item.ID)
	assert.Equal(t, []string{"a"}, focuser.focused)
}

func TestFocusFirstNothingToFocus(t *testing.T) {
	s := NewService(nil, &fakeScanner{}, nil, nil)
	_, ok, err := s.FocusFirst(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	activator := &fakeActivator{}
	bus := &recorder{}
	s := NewService(bus, &fakeScanner{}, nil, activator)
	ctx := context.Background()

	_, ok, err := s.Select(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "nothing focused")

	item := at("a", 0, 0)
	item.LinkHref = "/play/7"
	s.Push([]focus.Item{item})
	_, _, err = s.Navigate(ctx, focus.Down)
	require.NoError(t, err)

	a, ok, err := s.Select(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ActivateLink, a.Kind)
	assert.Equal(t, "/play/7", a.URL)
	require.Len(t, activator.got, 1)

	activated := bus.ofType(eventbus.EventItemActivated)
	require.Len(t, activated, 1)
	assert.Equal(t, eventbus.ItemActivatedEvent{ItemID: "a", Kind: "link", URL: "/play/7"}, activated[0])
}

func TestResolve(t *testing.T) {
	assert.Equal(t, ActivateFollow, Resolve(focus.Item{Href: "/a", LinkHref: "/b"}).Kind)
	assert.Equal(t, "/a", Resolve(focus.Item{Href: "/a", LinkHref: "/b"}).URL)
	assert.Equal(t, ActivateLink, Resolve(focus.Item{LinkHref: "/b"}).Kind)
	assert.Equal(t, ActivateClick, Resolve(focus.Item{ID: "x"}).Kind)
}

func TestDisableDestroysState(t *testing.T) {
	bus := &recorder{}
	scanner := &fakeScanner{snapshots: [][]focus.Item{grid()}}
	s := NewService(bus, scanner, nil, nil)
	ctx := context.Background()

	_, _, err := s.Navigate(ctx, focus.Down)
	require.NoError(t, err)

	s.SetEnabled(false)
	st := s.Snapshot()
	assert.False(t, st.Enabled)
	assert.Nil(t, st.Current)
	assert.Empty(t, st.Items)

	_, ok, err := s.Navigate(ctx, focus.Down)
	require.NoError(t, err)
	assert.False(t, ok)
	s.Push(grid())
	assert.Empty(t, s.Snapshot().Items, "pushes are ignored while disabled")
	assert.Equal(t, 1, scanner.calls)

	s.SetEnabled(true)
	item, ok, err := s.Navigate(ctx, focus.Down)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", item.ID)

	assert.Len(t, bus.ofType(eventbus.EventNavigationState), 2)
}

func TestViewportFollowsFocus(t *testing.T) {
	var items []focus.Item
	for r := 0; r < 6; r++ {
		items = append(items, at(string(rune('a'+r)), float64(r*200), 0))
	}
	s := NewService(nil, &fakeScanner{}, nil, nil)
	s.SetViewportHeight(2)
	s.Push(items)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _, err := s.Navigate(ctx, focus.Down)
		require.NoError(t, err)
	}
	// Focus on row 3 of 6 with two visible rows
	assert.Equal(t, 3, s.RowOf("d"))
	assert.Equal(t, 2, s.Snapshot().ViewportOffset)

	for i := 0; i < 3; i++ {
		_, _, err := s.Navigate(ctx, focus.Down)
		require.NoError(t, err)
	}
	// Wrapped to the first row
	assert.Equal(t, 0, s.Snapshot().ViewportOffset)
}
