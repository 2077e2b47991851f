package live

import (
	"context"
	"fmt"

	"iyftv/internal/player"
)

type jsVideoState struct {
	Paused       bool    `json:"paused"`
	Ended        bool    `json:"ended"`
	CurrentTime  float64 `json:"currentTime"`
	Duration     float64 `json:"duration"`
	Volume       float64 `json:"volume"`
	PlaybackRate float64 `json:"playbackRate"`
}

// Video is the first video element of the page
type Video struct {
	s *Session
}

// Video returns the page's video element
func (s *Session) Video() *Video {
	return &Video{s: s}
}

// State reads the element. It fails with player.ErrNoVideo when the page
// has none.
func (v *Video) State(ctx context.Context) (player.State, error) {
	var js *jsVideoState
	if err := v.s.eval(ctx, videoStateScript, &js); err != nil {
		return player.State{}, fmt.Errorf("failed to read video: %w", err)
	}
	if js == nil {
		return player.State{}, player.ErrNoVideo
	}
	return player.State{
		Paused:       js.Paused,
		Ended:        js.Ended,
		CurrentTime:  js.CurrentTime,
		Duration:     js.Duration,
		Volume:       js.Volume,
		PlaybackRate: js.PlaybackRate,
	}, nil
}

// Commit writes time, volume, rate and play state back to the element
func (v *Video) Commit(ctx context.Context, st player.State) error {
	var ok bool
	script := videoCommitScript(jsVideoState{
		Paused:       st.Paused,
		Ended:        st.Ended,
		CurrentTime:  st.CurrentTime,
		Duration:     st.Duration,
		Volume:       st.Volume,
		PlaybackRate: st.PlaybackRate,
	})
	if err := v.s.eval(ctx, script, &ok); err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	if !ok {
		return player.ErrNoVideo
	}
	return nil
}
