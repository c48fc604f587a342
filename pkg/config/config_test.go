package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaults verifies the built-in configuration stands when no file
// is given.
func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "08:00", cfg.Anchors.Wake)
	assert.Equal(t, "23:00", cfg.Anchors.Bed)
	assert.Equal(t, MinRegenerateInterval, cfg.Cadences.Regenerate)
	assert.Equal(t, MinCalibrateInterval, cfg.Cadences.Calibrate)
	assert.Equal(t, 2, cfg.Recovery.OverdueCoreThreshold)
	assert.Equal(t, "127.0.0.1:8600", cfg.ListenAddr)
}

// TestLoadFile verifies YAML values override defaults.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
anchors:
  wake: "06:30"
  bed: "22:00"
cadences:
  regenerate: 6h
  calibrate: 20m
recovery:
  overdue_core_threshold: 3
listen_addr: "127.0.0.1:9000"
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "06:30", cfg.Anchors.Wake)
	assert.Equal(t, "22:00", cfg.Anchors.Bed)
	assert.Equal(t, 6*time.Hour, cfg.Cadences.Regenerate)
	assert.Equal(t, 20*time.Minute, cfg.Cadences.Calibrate)
	assert.Equal(t, 3, cfg.Recovery.OverdueCoreThreshold)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

// TestLoadMissingFile verifies a nonexistent path falls back to
// defaults instead of erroring.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "08:00", cfg.Anchors.Wake)
}

// TestValidate covers anchor format errors and cadence floors.
func TestValidate(t *testing.T) {
	t.Run("bad wake anchor", func(t *testing.T) {
		cfg := Default()
		cfg.Anchors.Wake = "8am"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad bed anchor", func(t *testing.T) {
		cfg := Default()
		cfg.Anchors.Bed = "25:00"
		assert.Error(t, cfg.Validate())
	})

	t.Run("cadences clamp to floors", func(t *testing.T) {
		cfg := Default()
		cfg.Cadences.Regenerate = time.Minute
		cfg.Cadences.Calibrate = time.Second
		require.NoError(t, cfg.Validate())
		assert.Equal(t, MinRegenerateInterval, cfg.Cadences.Regenerate)
		assert.Equal(t, MinCalibrateInterval, cfg.Cadences.Calibrate)
	})

	t.Run("cadences above floors stand", func(t *testing.T) {
		cfg := Default()
		cfg.Cadences.Regenerate = 8 * time.Hour
		cfg.Cadences.Calibrate = time.Hour
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 8*time.Hour, cfg.Cadences.Regenerate)
		assert.Equal(t, time.Hour, cfg.Cadences.Calibrate)
	})

	t.Run("nonpositive threshold resets", func(t *testing.T) {
		cfg := Default()
		cfg.Recovery.OverdueCoreThreshold = 0
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 2, cfg.Recovery.OverdueCoreThreshold)
	})
}

// TestGeminiKeyFromEnv verifies the API key only ever comes from the
// environment.
func TestGeminiKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
}

// TestStaticAnchors verifies the provider resolves clock anchors
// against plan dates.
func TestStaticAnchors(t *testing.T) {
	provider := NewStaticAnchors(AnchorConfig{Wake: "07:00", Bed: "22:30"}, time.UTC)

	wake, bed, err := provider.Anchors("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC), wake)
	assert.Equal(t, time.Date(2026, 9, 1, 22, 30, 0, 0, time.UTC), bed)

	_, _, err = provider.Anchors("not-a-date")
	assert.Error(t, err)
}
