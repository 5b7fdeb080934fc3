// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game     GameConfig     `toml:"game"`
	Audio    AudioConfig    `toml:"audio"`
	Feedback FeedbackConfig `toml:"feedback"`
	Log      LogConfig      `toml:"log"`
}

// GameConfig maps round settings. Zero or missing values keep the difficulty defaults.
type GameConfig struct {
	Difficulty       *string `toml:"difficulty"`
	RoundSeconds     *int    `toml:"round-seconds"`
	Lives            *int    `toml:"lives"`
	CountdownSeconds *int    `toml:"countdown-seconds"`
	Deck             *string `toml:"deck"`
	Seed             *int64  `toml:"seed"`
}

// AudioConfig maps synthesizer settings.
type AudioConfig struct {
	Enabled *bool    `toml:"enabled"`
	Volume  *float64 `toml:"volume"`
	Music   *bool    `toml:"music"`
	Player  *string  `toml:"player"`
}

// FeedbackConfig maps the non-audio feedback channels.
type FeedbackConfig struct {
	Vibration *bool `toml:"vibration"`
	Flash     *bool `toml:"flash"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	File   *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultFile is written by `movwise config` when no config exists yet.
const DefaultFile = `# movwise configuration

[game]
# easy, normal or hard. When set it replaces the difficulty saved in the profile.
# difficulty = "normal"
# Leave at 0 to use the difficulty defaults.
round-seconds = 0
lives = 0
countdown-seconds = 3
# CSV deck validated with the "prompts" schema. Empty uses the built-in deck.
deck = ""

[audio]
enabled = true
volume = 0.7
music = false
player = "aplay -q -t raw -f S16_LE -c 1 -r 44100"

[feedback]
vibration = true
flash = true

[log]
level = "info"
format = "text"
`

// EnsureFile writes DefaultFile to path when nothing exists there yet.
func EnsureFile(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultFile), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
