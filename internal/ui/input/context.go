package input

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Navigation    bool
	Focused       bool
	Playing       bool
	Settings      int
	SettingsIndex int
}

// NavigationEnabled reports whether spatial navigation is on
func (c *ModelContext) NavigationEnabled() bool {
	return c.Navigation
}

// HasFocus reports whether an item is focused
func (c *ModelContext) HasFocus() bool {
	return c.Focused
}

// VideoPlaying reports whether the page video is playing
func (c *ModelContext) VideoPlaying() bool {
	return c.Playing
}

// SettingsCount returns the number of editable settings
func (c *ModelContext) SettingsCount() int {
	return c.Settings
}

// SettingsCursor returns the highlighted setting
func (c *ModelContext) SettingsCursor() int {
	return c.SettingsIndex
}
