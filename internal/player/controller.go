package player

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spf13/cast"

	"iyftv/internal/eventbus"
)

// Settings are the configuration values the controller uses
type Settings struct {
	Shortcuts  bool
	Speed      float64
	Seek       float64
	VolumeStep float64
}

// Config keys the controller follows
const (
	KeyShortcuts  = "features.keyboard_shortcuts"
	KeySpeed      = "player.video_speed"
	KeySeek       = "player.seek_seconds"
	KeyVolumeStep = "player.volume_step"
)

// Controller performs player actions on a Video and announces the result
type Controller struct {
	mu       sync.Mutex
	video    Video
	settings Settings
	bus      eventbus.EventBus
	unsub    func()
}

// NewController creates a controller. Zero settings fall back to defaults.
func NewController(video Video, settings Settings, bus eventbus.EventBus) *Controller {
	if bus == nil {
		bus = eventbus.Discard{}
	}
	if settings.Seek <= 0 {
		settings.Seek = DefaultSeek
	}
	if settings.VolumeStep <= 0 {
		settings.VolumeStep = DefaultVolumeStep
	}
	if settings.Speed <= 0 {
		settings.Speed = DefaultRate
	}
	c := &Controller{video: video, settings: settings, bus: bus}
	c.unsub = bus.Subscribe(eventbus.EventConfigChanged, c.handleConfigChanged)
	return c
}

// Close stops following configuration changes
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
	}
}

// Settings returns the settings in effect
func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Enabled reports whether the shortcuts are on
func (c *Controller) Enabled() bool {
	return c.Settings().Shortcuts
}

// State reads the video state
func (c *Controller) State(ctx context.Context) (State, error) {
	return c.video.State(ctx)
}

// Playing reports whether the video is playing. Errors count as not playing.
func (c *Controller) Playing(ctx context.Context) bool {
	if !c.Enabled() {
		return false
	}
	s, err := c.video.State(ctx)
	return err == nil && s.Playing()
}

// Do performs the action of the given kind with the configured magnitude.
// The boolean is false when shortcuts are disabled.
func (c *Controller) Do(ctx context.Context, kind ActionKind) (State, bool, error) {
	settings := c.Settings()
	if !settings.Shortcuts {
		return State{}, false, nil
	}

	action := Action{Kind: kind}
	switch kind {
	case ActionSeekForward, ActionSeekBackward:
		action.Amount = settings.Seek
	case ActionVolumeUp, ActionVolumeDown:
		action.Amount = settings.VolumeStep
	case ActionSetRate:
		action.Amount = settings.Speed
	}
	s, err := c.apply(ctx, action)
	return s, err == nil, err
}

// SetRate applies the configured playback speed to the video
func (c *Controller) SetRate(ctx context.Context) error {
	_, err := c.apply(ctx, Action{Kind: ActionSetRate, Amount: c.Settings().Speed})
	return err
}

func (c *Controller) apply(ctx context.Context, action Action) (State, error) {
	before, err := c.video.State(ctx)
	if err != nil {
		return State{}, fmt.Errorf("failed to read video state: %w", err)
	}
	after := Apply(action, before)
	if err := c.video.Commit(ctx, after); err != nil {
		return before, fmt.Errorf("failed to update video: %w", err)
	}

	c.bus.Publish(eventbus.PlayerChangedEvent{
		Action: string(action.Kind),
		Paused: after.Paused,
		Time:   after.CurrentTime,
		Volume: after.Volume,
	})
	return after, nil
}

func (c *Controller) handleConfigChanged(e eventbus.DomainEvent) {
	changed, ok := e.(eventbus.ConfigChangedEvent)
	if !ok {
		return
	}

	c.mu.Lock()
	var err error
	rate := false
	switch changed.Key {
	case KeyShortcuts:
		c.settings.Shortcuts, err = cast.ToBoolE(changed.Value)
	case KeySpeed:
		var v float64
		if v, err = cast.ToFloat64E(changed.Value); err == nil && v > 0 {
			c.settings.Speed = v
			rate = true
		}
	case KeySeek:
		var v float64
		if v, err = cast.ToFloat64E(changed.Value); err == nil && v > 0 {
			c.settings.Seek = v
		}
	case KeyVolumeStep:
		var v float64
		if v, err = cast.ToFloat64E(changed.Value); err == nil && v > 0 {
			c.settings.VolumeStep = v
		}
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("Player: ignoring %s=%v: %v", changed.Key, changed.Value, err)
		return
	}
	if rate {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.SetRate(ctx); err != nil {
			log.Printf("Player: failed to apply speed: %v", err)
		}
	}
}
