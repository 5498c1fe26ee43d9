// file: internal/config/config_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitConfig tests configuration initialization with defaults
func TestInitConfig(t *testing.T) {
	viper.Reset()

	InitConfig()

	if AppConfig.BaseURL != "http://localhost/~nikan/bookmeta/index.php" {
		t.Errorf("unexpected default base_url %q", AppConfig.BaseURL)
	}
	if AppConfig.RequestTimeout != 20*time.Second {
		t.Errorf("Expected request_timeout 20s, got %v", AppConfig.RequestTimeout)
	}
	if AppConfig.StaggerDelay != 100*time.Millisecond {
		t.Errorf("Expected stagger_delay 100ms, got %v", AppConfig.StaggerDelay)
	}
	if AppConfig.PollInterval != 200*time.Millisecond {
		t.Errorf("Expected poll_interval 200ms, got %v", AppConfig.PollInterval)
	}
	if AppConfig.CoverCacheMaxEntries != 0 {
		t.Errorf("Expected unbounded cover cache by default, got %d", AppConfig.CoverCacheMaxEntries)
	}
	assert.Equal(t, "info", AppConfig.LogLevel)
	assert.Equal(t, "127.0.0.1:8484", AppConfig.ListenAddr())
	assert.NoError(t, AppConfig.Validate())
}

func TestInitConfigOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("base_url", "https://example.com/bookmeta/index.php")
	viper.Set("request_timeout", "5s")
	viper.Set("cover_cache_max_entries", -3)
	viper.Set("server.port", 9000)

	InitConfig()

	assert.Equal(t, "https://example.com/bookmeta/index.php", AppConfig.BaseURL)
	assert.Equal(t, 5*time.Second, AppConfig.RequestTimeout)
	assert.Equal(t, 0, AppConfig.CoverCacheMaxEntries)
	assert.Equal(t, 9000, AppConfig.Server.Port)
}

func TestValidate(t *testing.T) {
	viper.Reset()
	InitConfig()
	good := AppConfig

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.BaseURL = "/index.php" }},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://example.com/x" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative stagger", func(c *Config) { c.StaggerDelay = -time.Second }},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSourceConfig(t *testing.T) {
	viper.Reset()
	InitConfig()

	sc := AppConfig.SourceConfig()
	require.Equal(t, "Biblionet", sc.Name)
	assert.Equal(t, AppConfig.BaseURL, sc.BaseURL)
	assert.Equal(t, AppConfig.RequestTimeout, sc.Timeout)
	assert.Equal(t, AppConfig.StaggerDelay, sc.StaggerDelay)
	assert.Equal(t, AppConfig.PollInterval, sc.PollInterval)
}
