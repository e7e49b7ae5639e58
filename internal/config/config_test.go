package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config.yaml present

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "pacing.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 9, cfg.Season.CutoffMonth)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20.0, cfg.Server.RateLimit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PACING_STORE_DRIVER", "postgres")
	t.Setenv("PACING_FTP_HOST", "ftp.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "ftp.example.com", cfg.FTP.Host)
}

func TestSeasonCutoff(t *testing.T) {
	assert.Equal(t, time.September, SeasonConfig{}.Cutoff())
	assert.Equal(t, time.September, SeasonConfig{CutoffMonth: 13}.Cutoff())
	assert.Equal(t, time.July, SeasonConfig{CutoffMonth: 7}.Cutoff())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope"}))
}
