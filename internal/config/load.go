package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config so that a config file only overrides the keys it
// actually sets: an empty string or zero port counts as unset, and the
// boolean is a pointer so that an explicit false can be told apart from an
// absent key. Durations are strings because TOML has no native duration type.
type fileConfig struct {
	LogLevel string `toml:"log_level"`

	LiveMapsURL  string `toml:"live_maps_url"`
	DeleteAfter  string `toml:"delete_after"`
	PollInterval string `toml:"polling_interval"`

	MQTTHost     string `toml:"mqtt_host"`
	MQTTPort     int    `toml:"mqtt_port"`
	MQTTTLS      *bool  `toml:"mqtt_tls"`
	MQTTTopic    string `toml:"mqtt_topic"`
	MQTTUsername string `toml:"mqtt_username"`
	MQTTPassword string `toml:"mqtt_password"`

	HealthcheckURL string `toml:"healthcheck_url"`
	PIDFile        string `toml:"pid_file"`
}

// LoadFile reads an optional TOML config file and merges its values onto
// cfg. Keys absent from the file leave cfg unchanged. Unknown keys are
// rejected outright so a typo'd key fails loudly at startup instead of
// silently being ignored.
func LoadFile(path string, cfg *Config) error {
	var fc fileConfig

	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}

	if fc.LiveMapsURL != "" {
		cfg.LiveMapsURL = fc.LiveMapsURL
	}

	if fc.DeleteAfter != "" {
		d, err := time.ParseDuration(fc.DeleteAfter)
		if err != nil {
			return fmt.Errorf("config file %s: delete_after: %w", path, err)
		}

		cfg.DeleteAfter = d
	}

	if fc.PollInterval != "" {
		d, err := time.ParseDuration(fc.PollInterval)
		if err != nil {
			return fmt.Errorf("config file %s: polling_interval: %w", path, err)
		}

		cfg.PollInterval = d
	}

	if fc.MQTTHost != "" {
		cfg.MQTTHost = fc.MQTTHost
	}

	if fc.MQTTPort != 0 {
		cfg.MQTTPort = fc.MQTTPort
	}

	if fc.MQTTTLS != nil {
		cfg.MQTTTLS = *fc.MQTTTLS
	}

	if fc.MQTTTopic != "" {
		cfg.MQTTTopic = fc.MQTTTopic
	}

	if fc.MQTTUsername != "" {
		cfg.MQTTUsername = fc.MQTTUsername
	}

	if fc.MQTTPassword != "" {
		cfg.MQTTPassword = fc.MQTTPassword
	}

	if fc.HealthcheckURL != "" {
		cfg.HealthcheckURL = fc.HealthcheckURL
	}

	if fc.PIDFile != "" {
		cfg.PIDFile = fc.PIDFile
	}

	return nil
}
