package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"iyftv/internal/player"
	"iyftv/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.String() != "g" {
		m.lastKeyWasG = false
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return []types.Action{types.BackAction{}}, true

	case tea.KeyUp:
		return navigate(ctx, "up")

	case tea.KeyDown:
		return navigate(ctx, "down")

	case tea.KeyLeft:
		return navigate(ctx, "left")

	case tea.KeyRight:
		return navigate(ctx, "right")

	case tea.KeyEnter:
		if ctx.HasFocus() {
			return []types.Action{types.SelectAction{}}, true
		}
		return nil, false

	case tea.KeySpace:
		return []types.Action{types.PlayerAction{Kind: string(player.ActionTogglePlay)}}, true
	}

	switch msg.String() {
	case "k":
		return navigate(ctx, "up")

	case "j":
		return navigate(ctx, "down")

	case "h":
		return navigate(ctx, "left")

	case "l":
		return navigate(ctx, "right")

	case " ", "p":
		return []types.Action{types.PlayerAction{Kind: string(player.ActionTogglePlay)}}, true

	case "r":
		return []types.Action{types.RescanAction{}}, true

	case "n":
		return []types.Action{types.ToggleNavigationAction{}}, true

	case "i":
		if ctx.HasFocus() {
			return []types.Action{types.InspectAction{}}, true
		}
		return nil, true

	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSettings}}, true

	case "?":
		return []types.Action{types.HelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg jumps back to the first item
			m.lastKeyWasG = false
			if !ctx.NavigationEnabled() {
				return nil, true
			}
			return []types.Action{types.FocusFirstAction{}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	}

	return nil, false
}

// Arrows are swallowed while navigation is off so they do not leak into
// other handlers
func navigate(ctx types.Context, direction string) ([]types.Action, bool) {
	if !ctx.NavigationEnabled() {
		return nil, true
	}
	return []types.Action{types.NavigateAction{Direction: direction}}, true
}
