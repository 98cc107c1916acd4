// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Library  LibraryConfig  `yaml:"library"`
	Playback PlaybackConfig `yaml:"playback"`
	Art      ArtConfig      `yaml:"art"`
	State    StateConfig    `yaml:"state"`
	Log      LogConfig      `yaml:"log"`
}

// LibraryConfig represents the track library configuration.
type LibraryConfig struct {
	MediaDir string `yaml:"media_dir" default:"media"`
}

// PlaybackConfig represents playback control configuration.
type PlaybackConfig struct {
	CooldownSecs         int      `yaml:"cooldown_secs" default:"10" validate:"gte=0"`
	NumLongestSubmitters int      `yaml:"num_longest_submitters" default:"3" validate:"gte=0"`
	IdentityLimit        int      `yaml:"identity_limit" default:"32" validate:"gt=0"`
	IdentityPrefixes     []string `yaml:"identity_prefixes"`
}

// ArtConfig represents cover art configuration.
type ArtConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single art provider configuration.
type ProviderConfig struct {
	Type     string         `yaml:"type" validate:"required"`
	Settings map[string]any `yaml:"settings"`
}

// StateConfig represents the preferences database configuration.
type StateConfig struct {
	DBPath string `yaml:"db_path" default:"data/state.db"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info"`
	Output string `yaml:"output" default:"stdout"`
	File   string `yaml:"file"`
}

// Load loads configuration from a YAML file. An empty path yields the
// defaults. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	// Defaults are applied first so that explicit zero values from the
	// file or environment (e.g. cooldown_secs: 0) are not clobbered.
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	cfg.overrideFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("BUSTY_MEDIA_DIR"); v != "" {
		c.Library.MediaDir = v
	}
	if v := os.Getenv("BUSTY_COOLDOWN_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Playback.CooldownSecs = n
		}
	}
	if v := os.Getenv("BUSTY_NUM_LONGEST_SUBMITTERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Playback.NumLongestSubmitters = n
		}
	}
	if v := os.Getenv("BUSTY_STATE_DB"); v != "" {
		c.State.DBPath = v
	}
}

// Cooldown returns the configured inter-track cooldown as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Playback.CooldownSecs) * time.Second
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
