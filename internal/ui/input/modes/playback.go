package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"iyftv/internal/player"
	"iyftv/internal/ui/input/types"
)

// PlaybackMode takes over the arrows while a video is playing: left and
// right seek, up and down change the volume. Other keys fall through to
// normal mode.
type PlaybackMode struct{}

func NewPlaybackMode() *PlaybackMode {
	return &PlaybackMode{}
}

func (m *PlaybackMode) Name() string {
	return "playback"
}

func (m *PlaybackMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *PlaybackMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *PlaybackMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	var kind player.ActionKind
	switch msg.String() {
	case "left", "h":
		kind = player.ActionSeekBackward
	case "right", "l":
		kind = player.ActionSeekForward
	case "up", "k":
		kind = player.ActionVolumeUp
	case "down", "j":
		kind = player.ActionVolumeDown
	default:
		return nil, false
	}
	return []types.Action{types.PlayerAction{Kind: string(kind)}}, true
}
