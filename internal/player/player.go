// Package player implements the remote-control shortcuts for the page's
// video element.
package player

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
)

// Defaults used when settings leave a value out
const (
	DefaultSeek       = 10.0
	DefaultVolumeStep = 0.1
	DefaultRate       = 1.0
)

// State mirrors the properties of an HTML media element that the shortcuts
// read and write
type State struct {
	Paused       bool
	Ended        bool
	CurrentTime  float64
	Duration     float64 // 0 or NaN when unknown
	Volume       float64
	PlaybackRate float64
}

// Playing reports whether the video is advancing
func (s State) Playing() bool {
	return !s.Paused && !s.Ended
}

// ActionKind identifies a player action
type ActionKind string

const (
	ActionTogglePlay   ActionKind = "toggle_play"
	ActionSeekForward  ActionKind = "seek_forward"
	ActionSeekBackward ActionKind = "seek_backward"
	ActionVolumeUp     ActionKind = "volume_up"
	ActionVolumeDown   ActionKind = "volume_down"
	ActionSetRate      ActionKind = "set_rate"
)

// Action is a player action with its magnitude. Amount is seconds for seeks,
// volume units for volume changes and the new rate for ActionSetRate.
type Action struct {
	Kind   ActionKind
	Amount float64
}

// Apply returns the state after performing a on s
func Apply(a Action, s State) State {
	switch a.Kind {
	case ActionTogglePlay:
		if s.Playing() {
			s.Paused = true
			break
		}
		if s.Ended {
			s.CurrentTime = 0
		}
		s.Paused = false
		s.Ended = false
	case ActionSeekForward:
		s.CurrentTime = clampTime(s.CurrentTime+a.Amount, s.Duration)
		s.Ended = false
	case ActionSeekBackward:
		s.CurrentTime = clampTime(s.CurrentTime-a.Amount, s.Duration)
		s.Ended = false
	case ActionVolumeUp:
		s.Volume = clamp(s.Volume+a.Amount, 0, 1)
	case ActionVolumeDown:
		s.Volume = clamp(s.Volume-a.Amount, 0, 1)
	case ActionSetRate:
		if a.Amount > 0 {
			s.PlaybackRate = a.Amount
		}
	}
	return s
}

func clampTime(t, duration float64) float64 {
	if t < 0 {
		t = 0
	}
	if duration > 0 && !math.IsInf(duration, 1) && t > duration {
		t = duration
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Video is the page's video element
type Video interface {
	State(ctx context.Context) (State, error)
	Commit(ctx context.Context, s State) error
}

// ErrNoVideo is returned when the page has no video element
var ErrNoVideo = errors.New("no video on page")

// MemoryVideo is a Video that lives in memory. It stands in for the page
// video when driving a saved page.
type MemoryVideo struct {
	mu    sync.Mutex
	state State
}

// NewMemoryVideo creates a paused video of the given length
func NewMemoryVideo(duration time.Duration) *MemoryVideo {
	return &MemoryVideo{state: State{
		Paused:       true,
		Duration:     duration.Seconds(),
		Volume:       1,
		PlaybackRate: DefaultRate,
	}}
}

// State returns the current state
func (m *MemoryVideo) State(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, ctx.Err()
}

// Commit replaces the state
func (m *MemoryVideo) Commit(ctx context.Context, s State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	return nil
}

// Advance moves playback forward by d scaled by the playback rate. The
// video ends when it reaches its duration.
func (m *MemoryVideo) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Playing() {
		return
	}
	m.state.CurrentTime += d.Seconds() * m.state.PlaybackRate
	if m.state.Duration > 0 && m.state.CurrentTime >= m.state.Duration {
		m.state.CurrentTime = m.state.Duration
		m.state.Ended = true
	}
}
