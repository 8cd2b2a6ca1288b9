package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyond-all-reason/map-syncer/internal/config"
)

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.Default()
		cfg.MapsDir = "/tmp/maps"

		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		require.NoError(t, config.Validate(valid()))
	})

	t.Run("missing maps dir", func(t *testing.T) {
		cfg := valid()
		cfg.MapsDir = ""
		err := config.Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maps directory")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.LogLevel = "VERBOSE"
		err := config.Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log-level")
	})

	t.Run("non-positive poll interval", func(t *testing.T) {
		cfg := valid()
		cfg.PollInterval = 0
		err := config.Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "polling-interval")
	})

	t.Run("mqtt enabled requires valid port", func(t *testing.T) {
		cfg := valid()
		cfg.MQTTHost = "broker.example.com"
		cfg.MQTTPort = 0
		err := config.Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mqtt-port")
	})

	t.Run("accumulates multiple errors", func(t *testing.T) {
		cfg := valid()
		cfg.MapsDir = ""
		cfg.LogLevel = "bogus"
		err := config.Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maps directory")
		assert.Contains(t, err.Error(), "log-level")
	})
}
