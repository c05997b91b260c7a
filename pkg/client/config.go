package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigOverrides carries optional CLI/runtime overrides for config values.
type ConfigOverrides struct {
	ServerURL  string
	RoomID     string
	UserID     int
	PlayerName string
	DebugLevel string
	LogFile    string
}

// AppConfig is the unified configuration structure for the client.
type AppConfig struct {
	// ServerURL is the ws:// or wss:// endpoint of the game server.
	ServerURL string `yaml:"server_url"`

	// RoomID is the room to join.
	RoomID string `yaml:"room_id"`

	// UserID is the local player's id as known to the server.
	UserID int `yaml:"user_id"`

	// PlayerName is the display name, informational only.
	PlayerName string `yaml:"player_name"`

	// Logging.
	DebugLevel  string `yaml:"debug_level"`
	LogFile     string `yaml:"log_file"`
	MaxLogFiles int    `yaml:"max_log_files"`

	// Reconnection tuning.
	ReconnectAttempts int `yaml:"reconnect_attempts"`
	ReconnectDelaySec int `yaml:"reconnect_delay_sec"`

	// Data directory, resolved at load time.
	DataDir string `yaml:"-"`

	// Notifications must be set by the caller before the client starts.
	Notifications *NotificationManager `yaml:"-"`
}

// LoadConfig reads <datadir>/<appName>.yaml if present, then applies the
// overrides. A missing config file is fine; flags can carry everything.
func LoadConfig(appName, datadir string, ov ConfigOverrides) (*AppConfig, error) {
	if datadir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		datadir = filepath.Join(base, appName)
	}
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, fmt.Errorf("create datadir %s: %w", datadir, err)
	}

	cfg := &AppConfig{
		DataDir:           datadir,
		DebugLevel:        "info",
		MaxLogFiles:       3,
		ReconnectAttempts: 5,
		ReconnectDelaySec: 1,
	}

	path := filepath.Join(datadir, appName+".yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No file, rely on overrides and defaults.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if ov.ServerURL != "" {
		cfg.ServerURL = ov.ServerURL
	}
	if ov.RoomID != "" {
		cfg.RoomID = ov.RoomID
	}
	if ov.UserID != 0 {
		cfg.UserID = ov.UserID
	}
	if ov.PlayerName != "" {
		cfg.PlayerName = ov.PlayerName
	}
	if ov.DebugLevel != "" {
		cfg.DebugLevel = ov.DebugLevel
	}
	if ov.LogFile != "" {
		cfg.LogFile = ov.LogFile
	}

	return cfg, nil
}

// ReconnectDelay returns the redial wait as a duration.
func (cfg *AppConfig) ReconnectDelay() time.Duration {
	return time.Duration(cfg.ReconnectDelaySec) * time.Second
}

// Validate checks that all required configuration values are present.
func (cfg *AppConfig) Validate() error {
	var missing []string

	if cfg.ServerURL == "" {
		missing = append(missing, "ServerURL")
	}
	if cfg.RoomID == "" {
		missing = append(missing, "RoomID")
	}
	if cfg.UserID == 0 {
		missing = append(missing, "UserID")
	}
	if cfg.Notifications == nil {
		missing = append(missing, "Notifications")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration values: %v", missing)
	}
	return nil
}
