// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the server configuration, read from a TOML file.
type Config struct {
	Listen  string        `toml:"listen"` // HTTP listen address
	Store   string        `toml:"store"`  // Path to the board's JSON store
	Agents  AgentsConfig  `toml:"agents"`
	Notify  NotifyConfig  `toml:"notify"`
	Poll    PollConfig    `toml:"poll"`
	Context ContextConfig `toml:"context"`
	Log     LogConfig     `toml:"log"`
}

// AgentsConfig holds the agent service connection settings.
type AgentsConfig struct {
	Address string `toml:"address"` // host:port of the orchestration service
}

// NotifyConfig holds the review notification settings.
type NotifyConfig struct {
	URL string `toml:"url"` // Review endpoint; empty disables notifications
}

// PollConfig holds the poll loop cadences, in seconds.
type PollConfig struct {
	MonitorInterval int `toml:"monitor_interval"`
	StreamInterval  int `toml:"stream_interval"`
}

// MonitorDuration returns the monitor cadence as a duration.
func (p PollConfig) MonitorDuration() time.Duration {
	return time.Duration(p.MonitorInterval) * time.Second
}

// StreamDuration returns the log streamer cadence as a duration.
func (p PollConfig) StreamDuration() time.Duration {
	return time.Duration(p.StreamInterval) * time.Second
}

// ContextConfig holds the worker context formatting caps.
type ContextConfig struct {
	Messages int `toml:"messages"` // Last N messages carried forward
	CharCap  int `toml:"char_cap"` // Per-message truncation cap
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Listen: ":8844",
		Store:  "agentdeck.json",
		Agents: AgentsConfig{Address: "127.0.0.1:9500"},
		Poll: PollConfig{
			MonitorInterval: 2,
			StreamInterval:  3,
		},
		Context: ContextConfig{
			Messages: 10,
			CharCap:  1000,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the config file at path, merged over defaults. A missing file
// is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Poll.MonitorInterval <= 0 {
		cfg.Poll.MonitorInterval = 2
	}
	if cfg.Poll.StreamInterval <= 0 {
		cfg.Poll.StreamInterval = 3
	}
	return cfg, nil
}
