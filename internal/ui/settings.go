package ui

import (
	"github.com/spf13/cast"

	"iyftv/internal/config"
	"iyftv/internal/ui/views"
)

// Feature switches shown in the settings panel
const (
	keyAdBlock        = "features.ad_block"
	keyNavigation     = "features.spatial_navigation"
	keyShortcuts      = "features.keyboard_shortcuts"
	keyOverlay        = "features.fullscreen_controls"
	keyWelcome        = "features.welcome_toast"
	keyUIEnhancements = "features.ui_enhancements"
	keyFocusColor     = "theme.focus_container_color"
)

type setting struct {
	key   string
	label string
}

var settingsList = []setting{
	{keyAdBlock, "Ad blocking"},
	{keyNavigation, "Spatial navigation"},
	{keyShortcuts, "Player shortcuts"},
	{keyOverlay, "Remote overlay"},
	{keyWelcome, "Welcome toast"},
	{keyUIEnhancements, "Focus highlight"},
}

// settingsView reads the current switch values
func settingsView(cfg config.ConfigService) []views.SettingView {
	out := make([]views.SettingView, len(settingsList))
	for i, s := range settingsList {
		out[i] = views.SettingView{Label: s.label, On: readBool(cfg, s.key)}
	}
	return out
}

func readBool(cfg config.ConfigService, key string) bool {
	if cfg == nil {
		v, _ := config.Default(key)
		return cast.ToBool(v)
	}
	return cast.ToBool(cfg.Read(key))
}

// toggleSetting flips a switch. The write publishes ConfigChangedEvent.
func toggleSetting(cfg config.ConfigService, index int) (string, bool, error) {
	if index < 0 || index >= len(settingsList) {
		return "", false, nil
	}
	key := settingsList[index].key
	value := !readBool(cfg, key)
	if cfg == nil {
		return key, value, nil
	}
	return key, value, cfg.Write(key, value)
}

// resetSettings writes the default of every switch and the focus color
func resetSettings(cfg config.ConfigService) error {
	if cfg == nil {
		return nil
	}
	keys := make([]string, 0, len(settingsList)+1)
	for _, s := range settingsList {
		keys = append(keys, s.key)
	}
	keys = append(keys, keyFocusColor)
	for _, key := range keys {
		v, _ := config.Default(key)
		if err := cfg.Write(key, v); err != nil {
			return err
		}
	}
	return nil
}
