package config

import "os"

// Environment variable names for overrides. MQTT_USERNAME and MQTT_PASSWORD
// are deliberately unprefixed so secrets can be supplied via the same
// environment variables a broker client or sidecar already expects.
const (
	EnvConfigPath  = "MAPSYNCER_CONFIG"
	EnvMQTTUser    = "MQTT_USERNAME"
	EnvMQTTPass    = "MQTT_PASSWORD"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath   string
	MQTTUsername string
	MQTTPassword string
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. It does not mutate a Config; callers apply fields that weren't
// already set by a higher-priority layer (CLI flags).
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:   os.Getenv(EnvConfigPath),
		MQTTUsername: os.Getenv(EnvMQTTUser),
		MQTTPassword: os.Getenv(EnvMQTTPass),
	}
}
