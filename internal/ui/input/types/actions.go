package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "left", "right"
}

func (a NavigateAction) Type() string { return "navigate" }

type FocusFirstAction struct{}

func (a FocusFirstAction) Type() string { return "focus_first" }

type SelectAction struct{}

func (a SelectAction) Type() string { return "select" }

type BackAction struct{}

func (a BackAction) Type() string { return "back" }

// Player actions
type PlayerAction struct {
	Kind string // one of the player.Action* kinds
}

func (a PlayerAction) Type() string { return "player" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Command actions
type RescanAction struct{}

func (a RescanAction) Type() string { return "rescan" }

type ToggleNavigationAction struct{}

func (a ToggleNavigationAction) Type() string { return "toggle_navigation" }

type InspectAction struct{}

func (a InspectAction) Type() string { return "inspect" }

type HelpAction struct{}

func (a HelpAction) Type() string { return "help" }

// Settings actions
type MoveSettingAction struct {
	Delta int
}

func (a MoveSettingAction) Type() string { return "move_setting" }

type ToggleSettingAction struct {
	Index int
}

func (a ToggleSettingAction) Type() string { return "toggle_setting" }

type ResetSettingsAction struct{}

func (a ResetSettingsAction) Type() string { return "reset_settings" }

// Application actions
type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
