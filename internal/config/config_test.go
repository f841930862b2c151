package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/ws", cfg.Server.WSPath)
	assert.Equal(t, DriverREST, cfg.Provider.Driver)
	assert.Equal(t, "https://api.100ms.live/v2", cfg.Provider.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "@every 1m", cfg.Metrics.CollectSchedule)
	assert.True(t, cfg.Swagger.Enabled)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  base_path: /api/video
database:
  url: postgres://yaml
provider:
  driver: rest
  api_key: from-yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/api/video", cfg.Server.BasePath)
	assert.Equal(t, "from-yaml", cfg.Provider.APIKey)
	// untouched defaults survive a partial file
	assert.Equal(t, "/ws", cfg.Server.WSPath)

	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("100MS_API_KEY", "legacy-key")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("SWAGGER_ENABLED", "false")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://env", cfg.Database.URL)
	assert.Equal(t, "legacy-key", cfg.Provider.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Provider.Timeout)
	assert.False(t, cfg.Swagger.Enabled)

	t.Setenv("PROVIDER_API_KEY", "preferred-key")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "preferred-key", cfg.Provider.APIKey)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "rest with api key",
			mutate: func(c *Config) { c.Provider.APIKey = "k" },
		},
		{
			name: "rest with management credential",
			mutate: func(c *Config) {
				c.Provider.AccessKey = "ak"
				c.Provider.AppSecret = "secret"
			},
		},
		{
			name:    "rest without credential",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "missing database url",
			mutate: func(c *Config) {
				c.Provider.APIKey = "k"
				c.Database.URL = ""
			},
			wantErr: true,
		},
		{
			name: "livekit",
			mutate: func(c *Config) {
				c.Provider.Driver = DriverLiveKit
				c.LiveKit.APIKey = "key"
				c.LiveKit.APISecret = "secret"
			},
		},
		{
			name:    "livekit without secret",
			mutate:  func(c *Config) { c.Provider.Driver = DriverLiveKit },
			wantErr: true,
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Provider.Driver = "zoom" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{URL: "postgres://localhost"},
				Provider: ProviderConfig{Driver: DriverREST},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
