package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"iyftv/internal/ui/input/types"
)

// SettingsMode edits the feature switches
type SettingsMode struct{}

func NewSettingsMode() *SettingsMode {
	return &SettingsMode{}
}

func (m *SettingsMode) Name() string {
	return "settings"
}

func (m *SettingsMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *SettingsMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *SettingsMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "s", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "up", "k":
		return []types.Action{types.MoveSettingAction{Delta: -1}}, true
	case "down", "j":
		return []types.Action{types.MoveSettingAction{Delta: 1}}, true
	case " ", "enter", "space":
		if ctx.SettingsCount() == 0 {
			return nil, true
		}
		return []types.Action{types.ToggleSettingAction{Index: ctx.SettingsCursor()}}, true
	case "R":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeResetConfirm}}, true
	}
	return nil, true
}
