package config

import (
	"strings"

	"github.com/spf13/viper"
)

// defaultValues maps every known dotted key to its default.
var defaultValues = map[string]interface{}{
	"version": 1,

	"features.ad_block":            true,
	"features.video_quality":       true,
	"features.keyboard_shortcuts":  true,
	"features.ui_enhancements":     true,
	"features.fullscreen_controls": true,
	"features.spatial_navigation":  true,
	"features.welcome_toast":       true,

	"player.preferred_quality": "auto",
	"player.video_speed":       1.0,
	"player.seek_seconds":      10.0,
	"player.volume_step":       0.1,

	"theme.focus_container_color": "#0f0f0f",
	"theme.route_color":           "#0f0f0f",

	"adblock.url_patterns": []string{"ad", "ads", "advertisement"},
	"adblock.text_marker":  "广告",

	"live.url":                "https://www.iyf.tv",
	"live.devtools_url":       "",
	"live.chrome_path":        "",
	"live.headless":           true,
	"live.timeout_seconds":    30,
	"live.rescan_interval_ms": 2000,

	"service.addr": ":8086",
	"service.name": "iyf-tv-mod",
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaultValues {
		v.SetDefault(key, value)
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Features: FeatureSettings{
			AdBlock:            true,
			VideoQuality:       true,
			KeyboardShortcuts:  true,
			UIEnhancements:     true,
			FullscreenControls: true,
			SpatialNavigation:  true,
			WelcomeToast:       true,
		},
		Player: PlayerSettings{
			PreferredQuality: "auto",
			VideoSpeed:       1.0,
			SeekSeconds:      10,
			VolumeStep:       0.1,
		},
		Theme: ThemeSettings{
			FocusContainerColor: "#0f0f0f",
			RouteColor:          "#0f0f0f",
		},
		AdBlock: AdBlockSettings{
			URLPatterns: []string{"ad", "ads", "advertisement"},
			TextMarker:  "广告",
		},
		Live: LiveSettings{
			URL:              "https://www.iyf.tv",
			Headless:         true,
			TimeoutSeconds:   30,
			RescanIntervalMS: 2000,
		},
		Service: ServiceSettings{
			Addr: ":8086",
			Name: "iyf-tv-mod",
		},
	}
}

// Default returns the default value of a dotted key
func Default(key string) (interface{}, bool) {
	v, ok := defaultValues[strings.ToLower(key)]
	return v, ok
}
