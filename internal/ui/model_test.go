package ui

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iyftv/internal/adblock"
	"iyftv/internal/classify"
	"iyftv/internal/config"
	"iyftv/internal/eventbus"
	"iyftv/internal/navigation"
	"iyftv/internal/notify"
	"iyftv/internal/page"
	"iyftv/internal/player"
	"iyftv/internal/ui/input"
	inputtypes "iyftv/internal/ui/input/types"
)

const testPage = `<html><body>
<div class="video-grid">
  <div class="card" data-iyf-id="v1" data-iyf-rect="0,0,200,150"><img src="1.jpg"><a href="/play/1">Pilot</a></div>
  <div class="card" data-iyf-id="v2" data-iyf-rect="0,220,200,150"><img src="2.jpg"><a href="/play/2">Second episode</a></div>
  <div class="card" data-iyf-id="v3" data-iyf-rect="200,0,200,150"><img src="3.jpg"><a href="/play/3">Finale</a></div>
</div>
<div class="ad-banner" data-iyf-id="ad1">广告</div>
</body></html>`

// syncBus delivers events synchronously so tests see their effects at once
type syncBus struct {
	mu       sync.Mutex
	events   []eventbus.DomainEvent
	handlers map[eventbus.EventType][]eventbus.EventHandler
}

func newSyncBus() *syncBus {
	return &syncBus{handlers: make(map[eventbus.EventType][]eventbus.EventHandler)}
}

func (b *syncBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	b.events = append(b.events, e)
	handlers := append([]eventbus.EventHandler(nil), b.handlers[e.Type()]...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(e)
	}
}

func (b *syncBus) Subscribe(t eventbus.EventType, h eventbus.EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
	return func() {}
}

type testEnv struct {
	model  *Model
	bus    *syncBus
	cfg    config.ConfigService
	hooks  *page.StaticHooks
	video  *player.MemoryVideo
	filter *adblock.Filter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	bus := newSyncBus()
	cfg := config.NewConfigServiceAt(filepath.Join(t.TempDir(), "config.toml"), bus)

	filter, err := adblock.New(adblock.Options{Enabled: true, TextMarker: "广告", URLPatterns: []string{"ads"}})
	require.NoError(t, err)
	classifier, err := classify.New()
	require.NoError(t, err)

	scanner := page.NewScanner(page.NewReaderSource(strings.NewReader(testPage)), filter, classifier, bus)
	hooks := page.NewStaticHooks()
	nav := navigation.NewService(bus, scanner, hooks, hooks)
	video := player.NewMemoryVideo(10 * time.Minute)
	ctl := player.NewController(video, player.Settings{Shortcuts: true}, bus)
	t.Cleanup(ctl.Close)

	m := NewModel(Deps{
		Bus:       bus,
		Config:    cfg,
		Navigator: nav,
		Scanner:   scanner,
		Player:    ctl,
		Overlay:   player.NewOverlay(true, nil),
		Notifier:  notify.New(bus, nil),
		Filter:    filter,
		Back:      hooks,
		Source:    "fixture.html",
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &testEnv{model: m, bus: bus, cfg: cfg, hooks: hooks, video: video, filter: filter}
}

// run executes cmd and every command of a batch it returns. It must not be
// used on timer commands.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func (e *testEnv) feed(msgs []tea.Msg) {
	for _, msg := range msgs {
		e.model.Update(msg)
	}
}

func (e *testEnv) key(msg tea.KeyMsg) {
	_, cmd := e.model.Update(msg)
	e.feed(run(cmd))
}

func (e *testEnv) scan(t *testing.T) {
	t.Helper()
	msgs := run(e.model.scanCmd())
	require.Len(t, msgs, 1)
	_, cmd := e.model.Update(msgs[0])
	// The first scan focuses the first item
	e.feed(run(cmd))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFirstScanFocusesFirstItem(t *testing.T) {
	env := newTestEnv(t)
	env.scan(t)

	cur, ok := env.model.nav.Current()
	require.True(t, ok)
	assert.Equal(t, "v1", cur.ID)
	assert.Equal(t, "v1", env.hooks.Focused())
	assert.False(t, env.model.scanning)

	view := env.model.View()
	assert.Contains(t, view, "Pilot")
	assert.Contains(t, view, "Finale")
	assert.Contains(t, view, "fixture.html")
}

func TestArrowKeysMoveFocus(t *testing.T) {
	env := newTestEnv(t)
	env.scan(t)

	env.key(tea.KeyMsg{Type: tea.KeyRight})
	cur, _ := env.model.nav.Current()
	assert.Equal(t, "v2", cur.ID)

	env.key(runes("j"))
	cur, _ = env.model.nav.Current()
	assert.Equal(t, "v3", cur.ID)

	env.key(tea.KeyMsg{Type: tea.KeyUp})
	cur, _ = env.model.nav.Current()
	assert.Equal(t, "v2", cur.ID)
}

func TestRemoteKeysMoveFocus(t *testing.T) {
	env := newTestEnv(t)
	env.scan(t)

	_, cmd := env.model.Update(DOMKeyMsg{Key: input.DOMKey{Code: input.KeyCodeRight, Target: "DIV"}})
	env.feed(run(cmd))
	cur, _ := env.model.nav.Current()
	assert.Equal(t, "v2", cur.ID)

	// Keys typed into a text field stay there
	_, cmd = env.model.Update(DOMKeyMsg{Key: input.DOMKey{Code: input.KeyCodeRight, Target: "INPUT"}})
	assert.Nil(t, cmd)
}

func TestEnterOpensFocusedItem(t *testing.T) {
	env := newTestEnv(t)
	env.scan(t)

	_, cmd := env.model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	sel, ok := msgs[0].(selectMsg)
	require.True(t, ok)
	assert.True(t, sel.ok)

	env.model.Update(sel)
	assert.Equal(t, "Opened /play/1", env.model.statusMessage)

	opened := env.hooks.Opened()
	require.Len(t, opened, 1)
	assert.Equal(t, navigation.ActivateLink, opened[0].Kind)
}

func TestSpaceTogglesPlaybackAndArrowsSeek(t *testing.T) {
	env := newTestEnv(t)
	env.scan(t)

	env.key(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, env.model.playerState)
	assert.True(t, env.model.playerState.Playing())
	assert.True(t, env.model.overlay.Visible(time.Now()))

	// While playing, arrows drive the player and focus stays put
	env.key(tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, 10, env.model.playerState.CurrentTime, 1e-9)
	env.key(tea.KeyMsg{Type: tea.KeyDown})
	assert.InDelta(t, 0.9, env.model.playerState.Volume, 1e-9)

	cur, _ := env.model.nav.Current()
	assert.Equal(t, "v1", cur.ID)

	// Pausing gives the arrows back to navigation
	env.key(runes("p"))
	assert.False(t, env.model.playerState.Playing())
	env.key(tea.KeyMsg{Type: tea.KeyRight})
	cur, _ = env.model.nav.Current()
	assert.Equal(t, "v2", cur.ID)
}

func TestTickAdvancesOfflineClock(t *testing.T) {
	env := newTestEnv(t)
	env.model.clock = env.video
	env.key(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	env.model.onTick(time.Now())
	st, err := env.video.State(env.model.ctx)
	require.NoError(t, err)
	assert.InDelta(t, tickInterval.Seconds(), st.CurrentTime, 1e-9)
}

func TestSettingsToggleWritesConfig(t *testing.T) {
	env := newTestEnv(t)

	env.key(runes("s"))
	assert.Equal(t, inputtypes.ModeSettings, env.model.inputHandler.CurrentMode())
	view := env.model.View()
	assert.Contains(t, view, "Settings")
	assert.Contains(t, view, "Ad blocking")

	// First entry is ad blocking
	env.key(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, false, env.cfg.Read(keyAdBlock))
	assert.False(t, env.filter.Enabled())

	// Moving past the end wraps around
	env.key(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, len(settingsList)-1, env.model.settingsCursor)

	env.key(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, inputtypes.ModeNormal, env.model.inputHandler.CurrentMode())
}

func TestResetSettingsRestoresDefaults(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.cfg.Write(keyAdBlock, false))
	env.model.Update(EventMsg{Event: eventbus.ConfigChangedEvent{Key: keyAdBlock, Value: false}})
	require.False(t, env.filter.Enabled())

	env.key(runes("s"))
	_, _ = env.model.Update(runes("R"))
	assert.Equal(t, inputtypes.ModeResetConfirm, env.model.inputHandler.CurrentMode())
	assert.Contains(t, env.model.View(), "Reset all settings")

	// The reset returns a status timer, so its commands are not run here
	env.model.Update(runes("y"))
	assert.Equal(t, inputtypes.ModeSettings, env.model.inputHandler.CurrentMode())
	assert.Equal(t, true, env.cfg.Read(keyAdBlock))
	assert.True(t, env.filter.Enabled())
	assert.Equal(t, "Settings reset to defaults", env.model.statusMessage)
}

func TestToggleNavigation(t *testing.T) {
	env := newTestEnv(t)
	env.scan(t)

	env.model.Update(runes("n"))
	assert.False(t, env.model.nav.Enabled())
	assert.Equal(t, false, env.cfg.Read(keyNavigation))
	assert.Contains(t, env.model.View(), "navigation is off")

	// Arrows are swallowed while navigation is off
	_, cmd := env.model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd)

	_, cmd = env.model.Update(runes("n"))
	assert.True(t, env.model.nav.Enabled())
	require.NotNil(t, cmd)
}

func TestEventsUpdateCountersAndStatus(t *testing.T) {
	env := newTestEnv(t)

	env.model.Update(EventMsg{Event: eventbus.AdsRemovedEvent{IDs: []string{"a", "b"}}})
	env.model.Update(EventMsg{Event: eventbus.RequestBlockedEvent{URL: "https://ads.example.com"}})
	env.model.Update(EventMsg{Event: eventbus.ErrorEvent{Message: "Scan failed"}})

	view := env.model.View()
	assert.Contains(t, view, "ads 2 | blocked 1")
	assert.Contains(t, view, "Scan failed")
	assert.True(t, env.model.statusError)
}

func TestScanCountsRemovedAds(t *testing.T) {
	env := newTestEnv(t)
	env.scan(t)

	var removed []string
	for _, e := range env.bus.events {
		if ev, ok := e.(eventbus.AdsRemovedEvent); ok {
			removed = append(removed, ev.IDs...)
		}
	}
	assert.Equal(t, []string{"ad1"}, removed)
}

func TestClearStatusIgnoresStaleTimers(t *testing.T) {
	env := newTestEnv(t)
	env.model.setStatus("first", false)
	env.model.setStatus("second", false)

	env.model.Update(clearStatusMsg{seq: env.model.statusSeq - 1})
	assert.Equal(t, "second", env.model.statusMessage)

	env.model.Update(clearStatusMsg{seq: env.model.statusSeq})
	assert.Empty(t, env.model.statusMessage)
}

func TestToastsShowAndExpire(t *testing.T) {
	env := newTestEnv(t)
	env.model.notifier.Show(env.model.ctx, "hello there")
	assert.Contains(t, env.model.View(), "hello there")

	env.model.onTick(time.Now().Add(notify.DefaultDuration + time.Second))
	assert.Empty(t, env.model.notifier.Active(time.Now().Add(notify.DefaultDuration+time.Second)))
}

func TestQuit(t *testing.T) {
	env := newTestEnv(t)

	_, cmd := env.model.Update(runes("q"))
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
	assert.Error(t, env.model.ctx.Err())
}

func TestReadyMarkerAfterFirstScan(t *testing.T) {
	env := newTestEnv(t)
	env.model.e2e = true
	env.scan(t)
	assert.True(t, env.model.scannedOnce)
}
