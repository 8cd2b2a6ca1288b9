package config

import (
	"errors"
	"fmt"
)

// Validate checks cross-field constraints on the fully resolved config
// (defaults -> file -> env -> CLI flags already applied).
func Validate(cfg *Config) error {
	var errs []error

	if cfg.MapsDir == "" {
		errs = append(errs, errors.New("maps directory is required"))
	}

	if cfg.LiveMapsURL == "" {
		errs = append(errs, errors.New("live-maps-url must not be empty"))
	}

	if cfg.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("polling-interval must be positive, got %s", cfg.PollInterval))
	}

	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, fmt.Errorf("log-level %q is not one of DEBUG/INFO/WARNING/ERROR/CRITICAL", cfg.LogLevel))
	}

	if cfg.MQTTEnabled() && cfg.MQTTPort <= 0 {
		errs = append(errs, fmt.Errorf("mqtt-port must be positive, got %d", cfg.MQTTPort))
	}

	return errors.Join(errs...)
}

var validLogLevels = map[string]bool{
	"DEBUG":    true,
	"INFO":     true,
	"WARNING":  true,
	"ERROR":    true,
	"CRITICAL": true,
}
