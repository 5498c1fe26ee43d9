// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/jdfalk/bookmeta/internal/metadata"
)

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	Burst             int    `yaml:"burst"`
	BasicAuthUsername string `yaml:"basic_auth_username,omitempty"`
	BasicAuthPassword string `yaml:"basic_auth_password,omitempty"`
}

// Config holds application configuration
type Config struct {
	SourceName           string        `yaml:"source_name"`
	BaseURL              string        `yaml:"base_url"`
	RequestTimeout       time.Duration `yaml:"request_timeout"`
	StaggerDelay         time.Duration `yaml:"stagger_delay"`
	PollInterval         time.Duration `yaml:"poll_interval"`
	CoverCacheMaxEntries int           `yaml:"cover_cache_max_entries"`
	IndexPath            string        `yaml:"index_path"`
	LogLevel             string        `yaml:"log_level"`
	Server               ServerConfig  `yaml:"server"`
}

var AppConfig Config

// SetDefaults registers every default with viper. Safe to call repeatedly.
func SetDefaults() {
	d := metadata.DefaultConfig()
	viper.SetDefault("source_name", d.Name)
	viper.SetDefault("base_url", d.BaseURL)
	viper.SetDefault("request_timeout", d.Timeout)
	viper.SetDefault("stagger_delay", d.StaggerDelay)
	viper.SetDefault("poll_interval", d.PollInterval)
	viper.SetDefault("cover_cache_max_entries", 0)
	viper.SetDefault("index_path", "")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8484)
	viper.SetDefault("server.requests_per_minute", 60)
	viper.SetDefault("server.burst", 10)
	viper.SetDefault("server.basic_auth_username", "")
	viper.SetDefault("server.basic_auth_password", "")
}

// InitConfig initializes the application configuration
func InitConfig() {
	SetDefaults()

	AppConfig = Config{
		SourceName:           viper.GetString("source_name"),
		BaseURL:              viper.GetString("base_url"),
		RequestTimeout:       viper.GetDuration("request_timeout"),
		StaggerDelay:         viper.GetDuration("stagger_delay"),
		PollInterval:         viper.GetDuration("poll_interval"),
		CoverCacheMaxEntries: viper.GetInt("cover_cache_max_entries"),
		IndexPath:            viper.GetString("index_path"),
		LogLevel:             viper.GetString("log_level"),
		Server: ServerConfig{
			Host:              viper.GetString("server.host"),
			Port:              viper.GetInt("server.port"),
			RequestsPerMinute: viper.GetInt("server.requests_per_minute"),
			Burst:             viper.GetInt("server.burst"),
			BasicAuthUsername: viper.GetString("server.basic_auth_username"),
			BasicAuthPassword: viper.GetString("server.basic_auth_password"),
		},
	}

	if AppConfig.CoverCacheMaxEntries < 0 {
		AppConfig.CoverCacheMaxEntries = 0
	}
}

// Validate reports settings that would make the source unusable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.RequestTimeout)
	}
	if c.StaggerDelay < 0 || c.PollInterval <= 0 {
		return fmt.Errorf("stagger_delay must be >= 0 and poll_interval > 0")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// SourceConfig converts the application settings into a source configuration.
func (c Config) SourceConfig() metadata.Config {
	return metadata.Config{
		Name:         c.SourceName,
		BaseURL:      c.BaseURL,
		Timeout:      c.RequestTimeout,
		StaggerDelay: c.StaggerDelay,
		PollInterval: c.PollInterval,
	}
}

// ListenAddr returns host:port for the API server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
