package config

import "time"

// Default values for configuration options.
const (
	DefaultLiveMapsURL  = "https://maps-metadata.beyondallreason.dev/latest/live_maps.validated.json"
	DefaultMQTTTopic    = "dev.beyondallreason.maps-metadata/live_maps/updated:v1"
	DefaultMQTTPort     = 8883
	DefaultDeleteAfter  = 4 * time.Hour
	DefaultPollInterval = 10 * time.Minute
	DefaultLogLevel     = "WARNING"

	// UserAgent identifies the daemon to the inventory, download, and
	// healthcheck endpoints.
	UserAgent = "maps-metadata-sync-maps/1.0"

	// SocketTimeout bounds every outbound HTTP operation, guarding against a
	// stuck connection hanging the single consumer thread indefinitely.
	SocketTimeout = 60 * time.Second
)

// Default returns a Config populated with built-in defaults. This is the
// lowest-priority layer of the override chain; file, env, and CLI values
// are layered on top of it.
func Default() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		LiveMapsURL:  DefaultLiveMapsURL,
		DeleteAfter:  DefaultDeleteAfter,
		PollInterval: DefaultPollInterval,
		MQTTPort:     DefaultMQTTPort,
		MQTTTLS:      true,
		MQTTTopic:    DefaultMQTTTopic,
	}
}
