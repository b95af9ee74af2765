package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("STORAGE_TYPE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Second, cfg.API.UploadTimeout)
	assert.Equal(t, "auth_token", cfg.Auth.TokenKey)
	assert.Equal(t, "refresh_token", cfg.Auth.RefreshTokenKey)
	assert.Equal(t, "Confirm Attendance", cfg.Biometrics.PromptMessage)
	assert.Equal(t, "Cancel", cfg.Biometrics.CancelButtonText)
	assert.Equal(t, "#5B4BFF", cfg.UI.Theme.PrimaryColor)
	assert.False(t, cfg.Breaker.Enabled)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "memory")
	t.Setenv("API_TIMEOUT", "fifteen")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			API:     APIConfig{BaseURL: "http://x", Timeout: time.Second, UploadTimeout: time.Second},
			Auth:    AuthConfig{TokenKey: "a", RefreshTokenKey: "b"},
			Storage: StorageConfig{Type: "memory"},
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, true},
		{"unknown storage", func(c *Config) { c.Storage.Type = "s3" }, true},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres" }, true},
		{"local without path", func(c *Config) { c.Storage.Type = "local" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
