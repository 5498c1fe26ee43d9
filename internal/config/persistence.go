// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the config file looked up in the home directory.
const DefaultConfigName = ".bookmeta"

// ConfigFilePath returns the config file viper loaded, or ~/.bookmeta.yaml
// when none was found.
func ConfigFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigName+".yaml")
}

// Dump renders the effective configuration as YAML. With redact set the
// API password is masked.
func Dump(redact bool) ([]byte, error) {
	c := AppConfig
	if redact && c.Server.BasicAuthPassword != "" {
		c.Server.BasicAuthPassword = "********"
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveConfigToFile writes the effective configuration to path, or to
// ConfigFilePath when path is empty.
func SaveConfigToFile(path string) error {
	if path == "" {
		path = ConfigFilePath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	data, err := Dump(false)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	// May contain the API password
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("[INFO] Configuration saved to file: %s", path)
	return nil
}

// LoadConfigFromFile reads a YAML file written by SaveConfigToFile into
// viper and rebuilds AppConfig. Missing files are not an error.
func LoadConfigFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applySetting("source_name", fileConfig.SourceName)
	applySetting("base_url", fileConfig.BaseURL)
	applySetting("request_timeout", fileConfig.RequestTimeout)
	applySetting("stagger_delay", fileConfig.StaggerDelay)
	applySetting("poll_interval", fileConfig.PollInterval)
	applySetting("cover_cache_max_entries", fileConfig.CoverCacheMaxEntries)
	applySetting("index_path", fileConfig.IndexPath)
	applySetting("log_level", fileConfig.LogLevel)
	applySetting("server.host", fileConfig.Server.Host)
	applySetting("server.port", fileConfig.Server.Port)
	applySetting("server.requests_per_minute", fileConfig.Server.RequestsPerMinute)
	applySetting("server.burst", fileConfig.Server.Burst)
	applySetting("server.basic_auth_username", fileConfig.Server.BasicAuthUsername)
	applySetting("server.basic_auth_password", fileConfig.Server.BasicAuthPassword)

	InitConfig()
	return nil
}

// applySetting sets key in viper unless value is the zero value.
func applySetting[T comparable](key string, value T) {
	var zero T
	if value != zero {
		viper.Set(key, value)
	}
}

// Reload rebuilds AppConfig after viper has re-read its sources and returns
// the previous value.
func Reload() (Config, error) {
	prev := AppConfig
	InitConfig()
	if err := AppConfig.Validate(); err != nil {
		AppConfig = prev
		return prev, fmt.Errorf("rejected reloaded config: %w", err)
	}
	return prev, nil
}
