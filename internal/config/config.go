package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/mathquest/internal/fetch"
)

// EnvPrefix is prepended to every environment override, e.g.
// MATHQUEST_GAME_ADVANCE_DELAY.
const EnvPrefix = "MATHQUEST"

// Config holds application settings loaded from the config file and environment.
type Config struct {
	Player string      `mapstructure:"player"` // progress profile name
	DB     string      `mapstructure:"db"`     // database path; empty uses store.DefaultDBPath
	Game   GameConfig  `mapstructure:"game"`
	Fetch  FetchConfig `mapstructure:"fetch"`
	LLM    LLMConfig   `mapstructure:"llm"`
}

// GameConfig tunes the level flow.
type GameConfig struct {
	AdvanceDelay time.Duration `mapstructure:"advance_delay"` // pause after a correct answer
}

// FetchConfig tunes the retry policy for generated content.
type FetchConfig struct {
	MaxRetries   int           `mapstructure:"max_retries"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
}

// LLMConfig holds client-side pacing for LLM calls.
type LLMConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"` // 0 = unlimited
}

// Retry converts the fetch section into a fetch.Config.
func (c Config) Retry() fetch.Config {
	return fetch.Config{MaxRetries: c.Fetch.MaxRetries, InitialDelay: c.Fetch.InitialDelay}
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Player) == "":
		return errors.New("player must not be empty")
	case c.Game.AdvanceDelay < 0:
		return errors.New("game.advance_delay must not be negative")
	case c.Fetch.MaxRetries < 0:
		return errors.New("fetch.max_retries must not be negative")
	case c.Fetch.InitialDelay <= 0:
		return errors.New("fetch.initial_delay must be positive")
	case c.LLM.RequestsPerMinute < 0:
		return errors.New("llm.requests_per_minute must not be negative")
	}
	return nil
}

// Load reads configuration from path, or from the default location when path
// is empty, then applies MATHQUEST_* environment overrides. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetDefault("player", "default")
	v.SetDefault("db", "")
	v.SetDefault("game.advance_delay", "1.5s")
	v.SetDefault("fetch.max_retries", fetch.DefaultConfig().MaxRetries)
	v.SetDefault("fetch.initial_delay", fetch.DefaultConfig().InitialDelay.String())
	v.SetDefault("llm.requests_per_minute", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// DefaultDir returns $XDG_CONFIG_HOME/mathquest, falling back to
// ~/.config/mathquest.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "mathquest"), nil
}
