package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/calyx-web/calyx/pkg/view"
	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the HTTP server and the host
// services wired into every render.
type ServerConfig struct {
	ServerAddr          string            `json:"server_addr"`
	LogLevel            string            `json:"log_level"`
	DataDir             string            `json:"data_dir"`
	SessionDatabasePath string            `json:"session_database_path"`
	SessionTTLHours     int               `json:"session_ttl_hours"`
	AdminToken          string            `json:"admin_token"`
	HomeView            string            `json:"home_view"`
	Components          map[string]string `json:"components"`
}

// Config is the top-level configuration struct that aggregates all other
// configs.
type Config struct {
	Server *ServerConfig `json:"server_config"`
	View   *view.Config  `json:"view_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ServerAddr:          ":8484",
		LogLevel:            "info",
		DataDir:             "./data",
		SessionDatabasePath: "./data/calyx_sessions.db?_journal_mode=WAL&_busy_timeout=5000",
		SessionTTLHours:     24,
		AdminToken:          "",
		HomeView:            "pages/home",
		Components:          map[string]string{},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Server: DefaultServerConfig(),
		View:   view.DefaultConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, as the server can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig writes the configuration to disk atomically.
func SaveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
