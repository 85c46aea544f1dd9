package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	require.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, 24*time.Hour, cfg.Auth.SessionUpdateAge)
	require.Equal(t, 5*time.Minute, cfg.Auth.CacheTTL)
	require.True(t, cfg.Auth.AutoSignIn)
	require.Empty(t, cfg.Storage.Bucket)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKTRACKER_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TASKTRACKER_AUTH_SESSIONTTL", "48h")
	t.Setenv("TASKTRACKER_AUTH_COOKIESECURE", "true")
	t.Setenv("TASKTRACKER_STORAGE_BUCKET", "exports")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, 48*time.Hour, cfg.Auth.SessionTTL)
	require.True(t, cfg.Auth.CookieSecure)
	require.Equal(t, "exports", cfg.Storage.Bucket)
}

func TestLoad_RejectsWeakBcryptCost(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKTRACKER_AUTH_BCRYPTCOST", "4")

	_, err := Load()
	require.ErrorContains(t, err, "auth.bcryptcost")
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	valid, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"cache longer than session", func(c *Config) { c.Auth.CacheTTL = 8 * 24 * time.Hour }, "auth.cachettl"},
		{"zero session ttl", func(c *Config) { c.Auth.SessionTTL = 0 }, "auth.sessionttl"},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"zero housekeeping", func(c *Config) { c.Housekeeping.Interval = 0 }, "housekeeping.interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
