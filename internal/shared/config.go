package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Hub   HubConfig   `toml:"hub"`
	Sync  SyncConfig  `toml:"sync"`
	Cache CacheConfig `toml:"cache"`
}

// HubConfig locates the Monty hub's REST and WebSocket endpoints.
type HubConfig struct {
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	UseTLS bool   `toml:"use_tls"`
}

// BaseURL returns the hub's HTTP base URL, e.g. "http://127.0.0.1:3001".
func (h HubConfig) BaseURL() string {
	scheme := "http"
	if h.UseTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, h.Host, h.Port)
}

// WebSocketURL returns the pianobar event feed URL, e.g. "ws://127.0.0.1:3001/api/pianobar/ws".
func (h HubConfig) WebSocketURL() string {
	scheme := "ws"
	if h.UseTLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d/api/pianobar/ws", scheme, h.Host, h.Port)
}

// SyncConfig tunes the realtime session's timers. Zero values fall back to
// the protocol defaults (3s reconnect, 5 attempts, 2s debounce, 10s pull).
type SyncConfig struct {
	ReconnectDelayMs     int `toml:"reconnect_delay_ms"`
	MaxReconnectAttempts int `toml:"max_reconnect_attempts"`
	PushDebounceMs       int `toml:"push_debounce_ms"`
	PullIntervalS        int `toml:"pull_interval_s"`
}

// CacheConfig contains local snapshot cache settings.
type CacheConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
