package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyond-all-reason/map-syncer/internal/config"
)

func TestLoadFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map-syncer.toml")

	contents := `
log_level = "DEBUG"
delete_after = "30m"
mqtt_host = "mqtt.example.com"
mqtt_tls = false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := config.Default()
	cfg.MapsDir = dir

	require.NoError(t, config.LoadFile(path, cfg))

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.DeleteAfter)
	assert.Equal(t, "mqtt.example.com", cfg.MQTTHost)
	assert.False(t, cfg.MQTTTLS)
	// Untouched keys keep their defaults.
	assert.Equal(t, config.DefaultLiveMapsURL, cfg.LiveMapsURL)
}

func TestLoadFile_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map-syncer.toml")

	require.NoError(t, os.WriteFile(path, []byte(`typo_key = "oops"`), 0o644))

	cfg := config.Default()
	err := config.LoadFile(path, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestLoadFile_BadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map-syncer.toml")

	require.NoError(t, os.WriteFile(path, []byte(`delete_after = "not-a-duration"`), 0o644))

	cfg := config.Default()
	err := config.LoadFile(path, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete_after")
}
