package trigger

import (
	"crypto/tls"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig is the immutable configuration for the subscription trigger
// source.
type MQTTConfig struct {
	Host     string
	Port     int
	TLS      bool
	Topic    string
	Username string
	Password string
}

func (c MQTTConfig) brokerURL() string {
	scheme := "tcp"
	if c.TLS {
		scheme = "ssl"
	}

	return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
}

// StartMQTT connects asynchronously to the broker configured by cfg,
// (re)subscribes to cfg.Topic on every connection, and pushes (Sync, "MQTT")
// to queue on every message whose topic matches exactly. Connection
// failures are logged by the client library and never crash the daemon;
// reconnection is automatic.
func StartMQTT(cfg MQTTConfig, queue *Queue, logger *slog.Logger) (stop func()) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.brokerURL())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("mqtt connected, subscribing", slog.String("topic", cfg.Topic))

		if token := client.Subscribe(cfg.Topic, 0, buildMessageHandler(cfg.Topic, queue)); token.Wait() && token.Error() != nil {
			logger.Warn("mqtt subscribe failed", slog.String("error", token.Error().Error()))
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", slog.String("error", err.Error()))
	})

	client := mqtt.NewClient(opts)
	client.Connect() // async: SetConnectRetry makes this non-blocking on initial failure.

	return func() {
		client.Disconnect(250) //nolint:mnd // 250ms graceful-disconnect grace period.
	}
}

// buildMessageHandler returns the callback pushed to every Subscribe call.
// Split out from StartMQTT so the matching logic can be unit tested against
// a fake mqtt.Message without a real broker.
func buildMessageHandler(configTopic string, queue *Queue) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		if msg.Topic() != configTopic {
			return
		}

		queue.Put(Event{Op: Sync, Reason: "MQTT"})
	}
}
