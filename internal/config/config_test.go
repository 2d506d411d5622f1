package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("YIELDWISE_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RentModel.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.True(t, cfg.Comparables.ImportOnStart)
	assert.Equal(t, filepath.Join(dir, "comparables.db"), cfg.DatabasePath())
	assert.False(t, cfg.UsesS3())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("YIELDWISE_DATA_DIR", t.TempDir())
	t.Setenv("YIELDWISE_PORT", "9090")
	t.Setenv("RENT_MODEL_URL", "http://model:5000")
	t.Setenv("RENT_MODEL_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RENT_CACHE_TTL", "1h")
	t.Setenv("COMPARABLES_SOURCE", "s3://sales/2024.csv")
	t.Setenv("COMPARABLES_RELOAD_CRON", "0 3 * * *")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "http://model:5000", cfg.RentModel.URL)
	assert.Equal(t, 3*time.Second, cfg.RentModel.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.True(t, cfg.UsesS3())
	assert.True(t, cfg.DevMode)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("YIELDWISE_DATA_DIR", t.TempDir())
	t.Setenv("YIELDWISE_PORT", "eighty")
	t.Setenv("RENT_CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Port: 8080, Redis: RedisConfig{TTL: time.Hour}}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: "invalid port",
		},
		{
			name:    "reload without source",
			mutate:  func(c *Config) { c.Comparables.ReloadSchedule = "@daily" },
			wantErr: "COMPARABLES_SOURCE is empty",
		},
		{
			name: "bad cron spec",
			mutate: func(c *Config) {
				c.Comparables.Source = "sales.csv"
				c.Comparables.ReloadSchedule = "every night"
			},
			wantErr: "invalid COMPARABLES_RELOAD_CRON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
