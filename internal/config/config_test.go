package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/db47h/trisim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trisim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: circuits\nmain: top\nclock_period: 250ms\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "circuits", cfg.Project)
	assert.Equal(t, "top", cfg.Main)
	assert.Equal(t, 250*time.Millisecond, cfg.ClockPeriod)
	assert.Equal(t, 256, cfg.FanoutCache)

	t.Setenv("TRISIM_MAIN", "other")
	t.Setenv("TRISIM_FANOUT_CACHE", "16")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.Main)
	assert.Equal(t, 16, cfg.FanoutCache)

	t.Setenv("TRISIM_CLOCK_PERIOD", "soon")
	_, err = config.Load(path)
	assert.Error(t, err)
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
