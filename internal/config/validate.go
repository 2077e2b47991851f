package config

import (
	"errors"
	"fmt"
)

var qualities = map[string]bool{
	"auto": true, "360p": true, "480p": true, "720p": true, "1080p": true, "4k": true,
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Player.VideoSpeed <= 0 || c.Player.VideoSpeed > 16 {
		return fmt.Errorf("player.video_speed must be in (0, 16], got %v", c.Player.VideoSpeed)
	}
	if c.Player.SeekSeconds <= 0 {
		return errors.New("player.seek_seconds must be > 0")
	}
	if c.Player.VolumeStep <= 0 || c.Player.VolumeStep > 1 {
		return fmt.Errorf("player.volume_step must be in (0, 1], got %v", c.Player.VolumeStep)
	}
	if !qualities[c.Player.PreferredQuality] {
		return fmt.Errorf("player.preferred_quality %q is not one of auto, 360p, 480p, 720p, 1080p, 4k", c.Player.PreferredQuality)
	}

	if c.Live.TimeoutSeconds < 1 {
		return errors.New("live.timeout_seconds must be >= 1")
	}
	if c.Live.RescanIntervalMS < 0 {
		return errors.New("live.rescan_interval_ms must be >= 0")
	}

	if c.Service.Addr == "" {
		return errors.New("service.addr is required")
	}
	return nil
}
