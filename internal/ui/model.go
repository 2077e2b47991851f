package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"

	"iyftv/internal/adblock"
	"iyftv/internal/config"
	"iyftv/internal/eventbus"
	"iyftv/internal/focus"
	"iyftv/internal/navigation"
	"iyftv/internal/notify"
	"iyftv/internal/page"
	"iyftv/internal/player"
	"iyftv/internal/ui/input"
	inputtypes "iyftv/internal/ui/input/types"
	"iyftv/internal/ui/views"
)

const (
	tickInterval   = 100 * time.Millisecond
	pollInterval   = 500 * time.Millisecond
	statusDuration = 3 * time.Second
	settleDelay    = time.Second

	// ReadyMarker is written as the window title after the first scan when
	// IYFTV_E2E_TEST is set
	ReadyMarker = "__READY__"
)

// Backer goes back in the page's history
type Backer interface {
	Back(ctx context.Context) error
}

// Deps are the services the model drives. Only Navigator and Notifier are
// required.
type Deps struct {
	Bus            eventbus.EventBus
	Config         config.ConfigService
	Navigator      *navigation.Service
	Scanner        *page.Scanner
	Player         *player.Controller
	Overlay        *player.Overlay
	Notifier       *notify.Notifier
	Filter         *adblock.Filter
	Back           Backer
	Clock          *player.MemoryVideo // advanced on every tick when set
	Source         string
	Live           bool
	RescanInterval time.Duration
}

// Model represents the UI state
type Model struct {
	bus      eventbus.EventBus
	cfg      config.ConfigService
	nav      *navigation.Service
	scanner  *page.Scanner
	player   *player.Controller
	overlay  *player.Overlay
	notifier *notify.Notifier
	filter   *adblock.Filter
	back     Backer
	clock    *player.MemoryVideo
	source   string
	live     bool

	ctx    context.Context
	cancel context.CancelFunc

	// UI-specific state
	width          int
	height         int
	help           help.Model
	keys           input.KeyMap
	playbackKeys   input.KeyMap
	spinner        spinner.Model
	renderer       *views.Renderer
	inputHandler   *input.Handler
	pager          *Pager
	inPagerMode    bool
	settingsCursor int

	scanning    bool
	scannedOnce bool
	e2e         bool
	rescanEvery time.Duration
	lastScan    time.Time
	lastPoll    time.Time
	overlayUp   bool
	playerState *player.State

	adsRemoved    int
	blocked       int
	statusMessage string
	statusError   bool
	statusSeq     int
}

// NewModel creates a new UI model
func NewModel(deps Deps) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	bus := deps.Bus
	if bus == nil {
		bus = eventbus.Discard{}
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.New(bus, nil)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := &Model{
		bus:          bus,
		cfg:          deps.Config,
		nav:          deps.Navigator,
		scanner:      deps.Scanner,
		player:       deps.Player,
		overlay:      deps.Overlay,
		notifier:     notifier,
		filter:       deps.Filter,
		back:         deps.Back,
		clock:        deps.Clock,
		source:       deps.Source,
		live:         deps.Live,
		ctx:          ctx,
		cancel:       cancel,
		help:         help.New(),
		keys:         input.DefaultKeyMap(),
		playbackKeys: input.PlaybackKeyMap(),
		spinner:      sp,
		inputHandler: input.New(),
		pager:        &Pager{},
		e2e:          os.Getenv("IYFTV_E2E_TEST") == "1",
		rescanEvery:  deps.RescanInterval,
	}
	m.renderer = views.NewRenderer(m.focusColor())
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.program = p
}

// Close cancels everything the model started
func (m *Model) Close() {
	m.cancel()
}

// Init starts the first scan, the timers and the welcome toast
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(), m.spinner.Tick, m.scanCmd()}
	if readBool(m.cfg, keyWelcome) {
		cmds = append(cmds, m.welcomeCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		actions := m.inputHandler.HandleKey(msg, m.inputContext())
		return m, m.processActions(actions)

	case DOMKeyMsg:
		actions := m.inputHandler.HandleDOMKey(msg.Key, m.inputContext())
		return m, m.processActions(actions)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	now := time.Now()
	st := m.nav.Snapshot()
	mode := m.inputHandler.CurrentMode()

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Source:         m.source,
		Rows:           focus.Rows(st.Items),
		ViewportOffset: st.ViewportOffset,
		ViewportHeight: st.ViewportHeight,
		Navigation:     st.Enabled,
		Scanning:       m.scanning,
		Spinner:        m.spinner.View(),
		Player:         m.playerState,
		Mode:           m.inputHandler.ModeName(),
		StatusMessage:  m.statusMessage,
		StatusError:    m.statusError,
		AdsRemoved:     m.adsRemoved,
		Blocked:        m.blocked,
		ShowSettings:   mode == inputtypes.ModeSettings || mode == inputtypes.ModeResetConfirm,
		ConfirmReset:   mode == inputtypes.ModeResetConfirm,
		SettingsCursor: m.settingsCursor,
	}
	if st.Current != nil {
		vs.FocusedID = st.Current.ID
	}
	if m.overlay != nil {
		vs.Overlay = m.overlay.Visible(now)
	}
	for _, t := range m.notifier.Active(now) {
		vs.Toasts = append(vs.Toasts, views.ToastView{Message: t.Message, Leaving: t.Leaving(now)})
	}
	if vs.ShowSettings {
		vs.Settings = settingsView(m.cfg)
	}

	keys := m.keys
	if m.videoPlaying() {
		keys = m.playbackKeys
	}
	vs.HelpView = m.help.View(keys)

	return m.renderer.Render(vs)
}

func (m *Model) inputContext() *input.ModelContext {
	_, focused := m.nav.Current()
	return &input.ModelContext{
		Navigation:    m.nav.Enabled(),
		Focused:       focused,
		Playing:       m.videoPlaying(),
		Settings:      len(settingsList),
		SettingsIndex: m.settingsCursor,
	}
}

func (m *Model) videoPlaying() bool {
	return m.playerState != nil && m.playerState.Playing()
}

// updateViewportHeight converts the terminal height into card rows
func (m *Model) updateViewportHeight() {
	// Title, source, gap, padding and the bottom block
	reserved := 10
	rowHeight := views.CardHeight + 2
	rows := (m.height - reserved) / rowHeight
	if rows < 1 {
		rows = 1
	}
	m.nav.SetViewportHeight(rows)
}

func (m *Model) processActions(actions []inputtypes.Action) tea.Cmd {
	var cmds []tea.Cmd
	for _, action := range actions {
		if cmd := m.processAction(action); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	log.Printf("processAction: %T", action)
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		dir, err := focus.ParseDirection(a.Direction)
		if err != nil {
			log.Printf("UI: %v", err)
			return nil
		}
		return m.navigateCmd(dir)

	case inputtypes.FocusFirstAction:
		return m.focusFirstCmd()

	case inputtypes.SelectAction:
		return m.selectCmd()

	case inputtypes.BackAction:
		return m.backCmd()

	case inputtypes.PlayerAction:
		return tea.Batch(m.playerCmd(player.ActionKind(a.Kind)), m.showOverlayCmd())

	case inputtypes.RescanAction:
		return m.scanCmd()

	case inputtypes.ToggleNavigationAction:
		enabled := !m.nav.Enabled()
		if m.cfg != nil {
			if err := m.cfg.Write(keyNavigation, enabled); err != nil {
				return m.setStatus(fmt.Sprintf("Failed to save setting: %v", err), true)
			}
		}
		return m.applySetting(keyNavigation, enabled)

	case inputtypes.InspectAction:
		item, ok := m.nav.Current()
		if !ok {
			return nil
		}
		outer := ""
		if m.scanner != nil {
			outer, _ = m.scanner.Outer(item.ID)
		}
		return m.pagerCmd(item.ID, RenderItemDetails(item, m.nav.RowOf(item.ID), outer))

	case inputtypes.HelpAction:
		return m.pagerCmd("help", RenderHelpContent(m.keys, m.playbackKeys))

	case inputtypes.MoveSettingAction:
		n := len(settingsList)
		m.settingsCursor = ((m.settingsCursor+a.Delta)%n + n) % n

	case inputtypes.ToggleSettingAction:
		key, value, err := toggleSetting(m.cfg, a.Index)
		if err != nil {
			return m.setStatus(fmt.Sprintf("Failed to save setting: %v", err), true)
		}
		if key == "" {
			return nil
		}
		return m.applySetting(key, value)

	case inputtypes.ResetSettingsAction:
		if err := resetSettings(m.cfg); err != nil {
			return m.setStatus(fmt.Sprintf("Failed to reset settings: %v", err), true)
		}
		return tea.Batch(m.applyAllSettings(), m.setStatus("Settings reset to defaults", false))

	case inputtypes.QuitAction:
		m.cancel()
		return tea.Quit
	}

	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case tickMsg:
		// Don't continue tick loop if we're in pager mode
		if m.inPagerMode {
			return m, nil
		}
		return m, tea.Batch(append(m.onTick(time.Time(msg)), tick())...)

	case scanMsg:
		m.scanning = false
		m.lastScan = time.Now()
		var cmds []tea.Cmd
		if msg.err != nil {
			log.Printf("UI: scan failed: %v", msg.err)
			cmds = append(cmds, m.setStatus(fmt.Sprintf("Scan failed: %v", msg.err), true))
		}
		if !m.scannedOnce {
			m.scannedOnce = true
			if m.e2e {
				cmds = append(cmds, tea.SetWindowTitle(ReadyMarker))
			}
		}
		if _, ok := m.nav.Current(); !ok && len(msg.items) > 0 {
			cmds = append(cmds, m.focusFirstCmd())
		}
		return m, tea.Batch(cmds...)

	case focusMsg:
		if msg.err != nil {
			log.Printf("UI: focus failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Focus failed: %v", msg.err), true)
		}
		return m, nil

	case selectMsg:
		if msg.err != nil {
			log.Printf("UI: activation failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Could not open item: %v", msg.err), true)
		}
		if !msg.ok {
			return m, nil
		}
		status := fmt.Sprintf("Opened %s", msg.activation.Item.Label)
		if msg.activation.URL != "" {
			status = fmt.Sprintf("Opened %s", msg.activation.URL)
		}
		return m, tea.Batch(m.setStatus(status, false), m.rescanLater())

	case backMsg:
		if msg.err != nil {
			log.Printf("UI: back failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Back failed: %v", msg.err), true)
		}
		return m, m.rescanLater()

	case rescanMsg:
		return m, m.scanCmd()

	case playerMsg:
		if msg.err != nil {
			log.Printf("UI: player: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Player: %v", msg.err), true)
		}
		if !msg.video {
			m.playerState = nil
			return m, nil
		}
		appeared := m.playerState == nil
		st := msg.state
		m.playerState = &st
		if appeared && m.player != nil {
			return m, m.setRateCmd()
		}
		return m, nil

	case overlayMsg:
		if msg.err != nil {
			log.Printf("UI: overlay: %v", msg.err)
		}
		return m, nil

	case pagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			// Pager failed: log only; do not surface in status bar
			log.Printf("Pager for %s failed: %v", msg.title, msg.err)
		}
		return m, tick()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.statusError = false
		}
		return m, nil
	}

	return m, nil
}

// onTick expires toasts and the overlay, advances the offline clock and
// schedules periodic rescans and player polls
func (m *Model) onTick(now time.Time) []tea.Cmd {
	var cmds []tea.Cmd

	m.notifier.Prune(now)

	if m.overlay != nil && m.overlayUp && !m.overlay.Visible(now) {
		m.overlayUp = false
		cmds = append(cmds, m.expireOverlayCmd(now))
	}

	if m.clock != nil {
		m.clock.Advance(tickInterval)
	}

	if m.rescanEvery > 0 && !m.scanning && m.scannedOnce && now.Sub(m.lastScan) >= m.rescanEvery {
		cmds = append(cmds, m.scanCmd())
	}

	if m.player != nil && now.Sub(m.lastPoll) >= pollInterval {
		m.lastPoll = now
		cmds = append(cmds, m.pollCmd())
	}
	return cmds
}

// handleEvent processes domain events
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.AdsRemovedEvent:
		m.adsRemoved += len(e.IDs)

	case eventbus.RequestBlockedEvent:
		m.blocked++

	case eventbus.ErrorEvent:
		msg := e.Message
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return m.setStatus(msg, true)

	case eventbus.NavigationStateEvent:
		if e.Enabled {
			return m.toastCmd("Spatial navigation enabled")
		}
		return m.toastCmd("Spatial navigation disabled")

	case eventbus.ConfigChangedEvent:
		return m.applySetting(e.Key, e.Value)

	case eventbus.ConfigLoadedEvent:
		return m.applyAllSettings()
	}
	return nil
}

// applySetting makes a changed config key take effect
func (m *Model) applySetting(key string, value interface{}) tea.Cmd {
	switch key {
	case keyAdBlock:
		if m.filter != nil {
			m.filter.SetEnabled(cast.ToBool(value))
		}
	case keyNavigation:
		enabled := cast.ToBool(value)
		if enabled == m.nav.Enabled() {
			return nil
		}
		m.nav.SetEnabled(enabled)
		if enabled {
			return m.scanCmd()
		}
	case keyOverlay:
		if m.overlay != nil {
			m.overlay.SetEnabled(cast.ToBool(value))
		}
	case keyUIEnhancements, keyFocusColor:
		m.renderer.SetFocusColor(m.focusColor())
	}
	return nil
}

func (m *Model) applyAllSettings() tea.Cmd {
	var cmds []tea.Cmd
	for _, s := range settingsList {
		cmds = append(cmds, m.applySetting(s.key, readBool(m.cfg, s.key)))
	}
	cmds = append(cmds, m.applySetting(keyFocusColor, nil))
	return tea.Batch(cmds...)
}

// focusColor is the focused card background, empty when the highlight is off
func (m *Model) focusColor() string {
	if !readBool(m.cfg, keyUIEnhancements) {
		return ""
	}
	if m.cfg == nil {
		v, _ := config.Default(keyFocusColor)
		return cast.ToString(v)
	}
	return cast.ToString(m.cfg.Read(keyFocusColor))
}

func (m *Model) setStatus(message string, isError bool) tea.Cmd {
	m.statusSeq++
	m.statusMessage = message
	m.statusError = isError
	seq := m.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// tick returns a command that sends a tick message after a delay
func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) rescanLater() tea.Cmd {
	if !m.live {
		return nil
	}
	return tea.Tick(settleDelay, func(time.Time) tea.Msg {
		return rescanMsg{}
	})
}

func (m *Model) scanCmd() tea.Cmd {
	if m.scanning {
		return nil
	}
	m.scanning = true
	nav, ctx := m.nav, m.ctx
	return func() tea.Msg {
		items, err := nav.Refresh(ctx)
		return scanMsg{items: items, err: err}
	}
}

func (m *Model) navigateCmd(dir focus.Direction) tea.Cmd {
	nav, ctx := m.nav, m.ctx
	return func() tea.Msg {
		item, moved, err := nav.Navigate(ctx, dir)
		return focusMsg{item: item, moved: moved, err: err}
	}
}

func (m *Model) focusFirstCmd() tea.Cmd {
	nav, ctx := m.nav, m.ctx
	return func() tea.Msg {
		item, moved, err := nav.FocusFirst(ctx)
		return focusMsg{item: item, moved: moved, err: err}
	}
}

func (m *Model) selectCmd() tea.Cmd {
	nav, ctx := m.nav, m.ctx
	return func() tea.Msg {
		a, ok, err := nav.Select(ctx)
		return selectMsg{activation: a, ok: ok, err: err}
	}
}

func (m *Model) backCmd() tea.Cmd {
	if m.back == nil {
		return nil
	}
	back, ctx := m.back, m.ctx
	return func() tea.Msg {
		return backMsg{err: back.Back(ctx)}
	}
}

func (m *Model) playerCmd(kind player.ActionKind) tea.Cmd {
	if m.player == nil {
		return nil
	}
	ctl, ctx := m.player, m.ctx
	return func() tea.Msg {
		st, ok, err := ctl.Do(ctx, kind)
		if errors.Is(err, player.ErrNoVideo) {
			return playerMsg{}
		}
		if err == nil && !ok {
			// Shortcuts are switched off
			return nil
		}
		return playerMsg{state: st, video: true, err: err}
	}
}

func (m *Model) pollCmd() tea.Cmd {
	ctl, ctx := m.player, m.ctx
	return func() tea.Msg {
		st, err := ctl.State(ctx)
		if errors.Is(err, player.ErrNoVideo) {
			return playerMsg{}
		}
		if err != nil {
			// Polls fail while the page navigates; the next one catches up
			log.Printf("UI: player poll: %v", err)
			return nil
		}
		return playerMsg{state: st, video: true}
	}
}

func (m *Model) setRateCmd() tea.Cmd {
	ctl, ctx := m.player, m.ctx
	return func() tea.Msg {
		if err := ctl.SetRate(ctx); err != nil && !errors.Is(err, player.ErrNoVideo) {
			log.Printf("UI: failed to set playback rate: %v", err)
		}
		return nil
	}
}

func (m *Model) showOverlayCmd() tea.Cmd {
	if m.overlay == nil || m.player == nil {
		return nil
	}
	m.overlayUp = true
	o, ctx := m.overlay, m.ctx
	return func() tea.Msg {
		_, err := o.Show(ctx, time.Now())
		return overlayMsg{err: err}
	}
}

func (m *Model) expireOverlayCmd(now time.Time) tea.Cmd {
	o, ctx := m.overlay, m.ctx
	return func() tea.Msg {
		_, err := o.Expire(ctx, now)
		return overlayMsg{err: err}
	}
}

func (m *Model) toastCmd(message string) tea.Cmd {
	n, ctx := m.notifier, m.ctx
	return func() tea.Msg {
		n.Show(ctx, message)
		return nil
	}
}

func (m *Model) welcomeCmd() tea.Cmd {
	n, ctx := m.notifier, m.ctx
	return func() tea.Msg {
		n.Welcome(ctx)
		return nil
	}
}
