// Package config resolves the daemon's configuration from defaults, an
// optional TOML file, environment variables, and CLI flags, in ascending
// priority.
package config

import "time"

// Config is the fully resolved configuration for one daemon run.
type Config struct {
	MapsDir string `toml:"-"`

	LogLevel string `toml:"log_level"`

	LiveMapsURL  string        `toml:"live_maps_url"`
	DeleteAfter  time.Duration `toml:"delete_after"`
	PollInterval time.Duration `toml:"polling_interval"`

	MQTTHost     string `toml:"mqtt_host"`
	MQTTPort     int    `toml:"mqtt_port"`
	MQTTTLS      bool   `toml:"mqtt_tls"`
	MQTTTopic    string `toml:"mqtt_topic"`
	MQTTUsername string `toml:"mqtt_username"`
	MQTTPassword string `toml:"mqtt_password"`

	HealthcheckURL string `toml:"healthcheck_url"`
	PIDFile        string `toml:"pid_file"`
}

// MQTTEnabled reports whether the subscription trigger source should run.
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}
