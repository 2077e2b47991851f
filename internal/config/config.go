package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"iyftv/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version  int              `mapstructure:"version" toml:"version"`
	Features FeatureSettings  `mapstructure:"features" toml:"features"`
	Player   PlayerSettings   `mapstructure:"player" toml:"player"`
	Theme    ThemeSettings    `mapstructure:"theme" toml:"theme"`
	AdBlock  AdBlockSettings  `mapstructure:"adblock" toml:"adblock"`
	Live     LiveSettings     `mapstructure:"live" toml:"live"`
	Service  ServiceSettings  `mapstructure:"service" toml:"service"`
}

// FeatureSettings toggles the individual page modifications
type FeatureSettings struct {
	AdBlock            bool `mapstructure:"ad_block" toml:"ad_block"`
	VideoQuality       bool `mapstructure:"video_quality" toml:"video_quality"`
	KeyboardShortcuts  bool `mapstructure:"keyboard_shortcuts" toml:"keyboard_shortcuts"`
	UIEnhancements     bool `mapstructure:"ui_enhancements" toml:"ui_enhancements"`
	FullscreenControls bool `mapstructure:"fullscreen_controls" toml:"fullscreen_controls"`
	SpatialNavigation  bool `mapstructure:"spatial_navigation" toml:"spatial_navigation"`
	WelcomeToast       bool `mapstructure:"welcome_toast" toml:"welcome_toast"`
}

// PlayerSettings configures the video shortcuts
type PlayerSettings struct {
	PreferredQuality string  `mapstructure:"preferred_quality" toml:"preferred_quality"`
	VideoSpeed       float64 `mapstructure:"video_speed" toml:"video_speed"`
	SeekSeconds      float64 `mapstructure:"seek_seconds" toml:"seek_seconds"`
	VolumeStep       float64 `mapstructure:"volume_step" toml:"volume_step"`
}

// ThemeSettings holds colors used for focus rings and overlays
type ThemeSettings struct {
	FocusContainerColor string `mapstructure:"focus_container_color" toml:"focus_container_color"`
	RouteColor          string `mapstructure:"route_color" toml:"route_color"`
}

// AdBlockSettings configures the ad filter heuristics
type AdBlockSettings struct {
	URLPatterns []string `mapstructure:"url_patterns" toml:"url_patterns"`
	TextMarker  string   `mapstructure:"text_marker" toml:"text_marker"`
}

// LiveSettings configures the browser session used in live mode
type LiveSettings struct {
	URL              string `mapstructure:"url" toml:"url"`
	DevToolsURL      string `mapstructure:"devtools_url" toml:"devtools_url"`
	ChromePath       string `mapstructure:"chrome_path" toml:"chrome_path"`
	Headless         bool   `mapstructure:"headless" toml:"headless"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
	RescanIntervalMS int    `mapstructure:"rescan_interval_ms" toml:"rescan_interval_ms"`
}

// ServiceSettings configures the companion health service
type ServiceSettings struct {
	Addr string `mapstructure:"addr" toml:"addr"`
	Name string `mapstructure:"name" toml:"name"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Read(key string) interface{}
	Write(key string, value interface{}) error
	BindFlag(key string, flag *pflag.Flag) error
	Watch()
	Path() string
}

// configService is the concrete implementation
type configService struct {
	mu        sync.Mutex
	bus       eventbus.EventBus
	filePath  string
	v         *viper.Viper
	populated map[string]bool
}

// NewConfigService creates a config service backed by the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return NewConfigServiceAt(filepath.Join(configDir, "iyftv", "config.toml"), nil)
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// NewConfigServiceAt creates a config service for a specific file. bus may be nil.
func NewConfigServiceAt(path string, bus eventbus.EventBus) ConfigService {
	return &configService{
		bus:       bus,
		filePath:  path,
		v:         newViper(),
		populated: make(map[string]bool),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetEnvPrefix("IYFTV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Path returns the file the service loads from and saves to
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults
func (cs *configService) Load() (*Config, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, err := os.Stat(cs.filePath); err == nil {
		cs.v.SetConfigFile(cs.filePath)
		if err := cs.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg, err := cs.decode()
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Defaults fill
// every key the file leaves out.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Read returns the value stored under a dotted key such as
// "features.ad_block". Keys missing from the file resolve to their default.
func (cs *configService) Read(key string) interface{} {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	value := cs.v.Get(key)
	if !cs.v.InConfig(key) && !cs.populated[key] {
		log.Printf("Config: populating key %s with default value %v", key, value)
		cs.populated[key] = true
	}
	return value
}

// Write stores a single key, persists the whole configuration and publishes
// a ConfigChangedEvent.
func (cs *configService) Write(key string, value interface{}) error {
	cs.mu.Lock()
	if !cs.known(key) {
		cs.mu.Unlock()
		return fmt.Errorf("unknown config key %q", key)
	}
	log.Printf("Config: setting key %s to %v", key, value)
	previous := cs.v.Get(key)
	cs.v.Set(key, value)
	cfg, err := cs.decode()
	if err != nil {
		cs.v.Set(key, previous)
		cs.mu.Unlock()
		return err
	}
	cs.mu.Unlock()

	if err := cs.SaveToPath(cfg, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigChangedEvent{Key: key, Value: value})
	}
	return nil
}

// BindFlag lets a command-line flag override a key when the flag is set
func (cs *configService) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for %s", key)
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
	}
	return nil
}

// Watch reloads the file when it changes on disk and announces the reload
func (cs *configService) Watch() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.v.ConfigFileUsed() == "" {
		log.Printf("Config: no config file to watch")
		return
	}
	cs.v.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("Config: %s changed (%s)", e.Name, e.Op)
		if cs.bus != nil {
			cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: e.Name})
		}
	})
	cs.v.WatchConfig()
}

// decode unmarshals the current viper state. Caller holds cs.mu.
func (cs *configService) decode() (*Config, error) {
	var cfg Config
	if err := cs.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cs *configService) known(key string) bool {
	_, ok := defaultValues[strings.ToLower(key)]
	return ok
}
