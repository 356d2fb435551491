package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "cedula"
	configFileName = "config.json"
)

// UserConfig is the user's local configuration stored in
// ~/.config/cedula/config.json
type UserConfig struct {
	SelectedServerURL string `json:"selected_server_url"`
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// Load reads the user configuration file
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// Missing config is not an error
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetSelectedServer updates the selected server URL and saves the config
func SetSelectedServer(serverURL string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.SelectedServerURL = serverURL
	return Save(cfg)
}

// GetSelectedServer returns the selected server URL, or empty if not set
func GetSelectedServer() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	return cfg.SelectedServerURL, nil
}
