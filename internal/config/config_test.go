package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("POS_STORE_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 10*time.Second, cfg.POS.StoreTimeout)
	assert.Equal(t, 24*time.Hour, cfg.POS.SessionTTL)
	assert.Contains(t, cfg.Security.CORSAllowedHeaders, "X-Session-ID")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POS_STORE_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://kiosk.local, http://manager.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.POS.StoreTimeout)
	assert.Equal(t, []string{"http://kiosk.local", "http://manager.local"}, cfg.Security.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost", Name: "boba", User: "boba"},
			Redis:    RedisConfig{Host: "localhost"},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			POS:      POSConfig{StoreTimeout: time.Second, SessionTTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }, true},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, true},
		{"missing redis host", func(c *Config) { c.Redis.Host = "" }, true},
		{"zero store timeout", func(c *Config) { c.POS.StoreTimeout = 0 }, true},
		{"zero session ttl", func(c *Config) { c.POS.SessionTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
