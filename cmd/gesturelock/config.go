package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/ini.v1"

	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// Config holds persistent settings
type Config struct {
	Secret     string        // expected code
	HasSecret  bool          // Secret was configured, even if empty
	ResetDelay time.Duration // how long a result stays on screen
	Width      int           // grid width: columns for run, pixels for render
	Sound      bool          // play feedback cues
	Volume     float64       // cue volume, 0 = unchanged, -1 = half
	LogLevel   string        // trace, debug, info, warn, error, critical, off
	LogFile    string        // empty = no log for the TUI, stderr otherwise
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		ResetDelay: lock.DefaultResetDelay,
		Width:      360,
		LogLevel:   "info",
	}
}

// ConfigPath returns the path to the default config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gesturelock"
	}
	return filepath.Join(home, ".gesturelock")
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	sec := file.Section(ini.DEFAULT_SECTION)
	if sec.HasKey("secret") {
		cfg.Secret = sec.Key("secret").String()
		cfg.HasSecret = true
	}
	if sec.HasKey("reset_delay_ms") {
		ms, err := sec.Key("reset_delay_ms").Int()
		if err != nil || ms <= 0 {
			return cfg, fmt.Errorf("%s: reset_delay_ms: must be a positive integer, got %q", path, sec.Key("reset_delay_ms").String())
		}
		cfg.ResetDelay = time.Duration(ms) * time.Millisecond
	}
	if sec.HasKey("width") {
		w, err := sec.Key("width").Int()
		if err != nil || w <= 0 {
			return cfg, fmt.Errorf("%s: width: must be a positive integer, got %q", path, sec.Key("width").String())
		}
		cfg.Width = w
	}
	if sec.HasKey("sound") {
		on, err := sec.Key("sound").Bool()
		if err != nil {
			return cfg, fmt.Errorf("%s: sound: %w", path, err)
		}
		cfg.Sound = on
	}
	if sec.HasKey("volume") {
		v, err := sec.Key("volume").Float64()
		if err != nil {
			return cfg, fmt.Errorf("%s: volume: %w", path, err)
		}
		cfg.Volume = v
	}
	if v := sec.Key("log_level").String(); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogFile = sec.Key("log_file").String()

	return cfg, nil
}

// SaveConfig writes cfg to path
func SaveConfig(path string, cfg Config) error {
	file := ini.Empty()
	sec := file.Section(ini.DEFAULT_SECTION)
	if cfg.HasSecret {
		sec.Key("secret").SetValue(cfg.Secret)
	}
	sec.Key("reset_delay_ms").SetValue(strconv.FormatInt(cfg.ResetDelay.Milliseconds(), 10))
	sec.Key("width").SetValue(strconv.Itoa(cfg.Width))
	sec.Key("sound").SetValue(strconv.FormatBool(cfg.Sound))
	sec.Key("volume").SetValue(strconv.FormatFloat(cfg.Volume, 'g', -1, 64))
	sec.Key("log_level").SetValue(cfg.LogLevel)
	if cfg.LogFile != "" {
		sec.Key("log_file").SetValue(cfg.LogFile)
	}
	return file.SaveTo(path)
}
