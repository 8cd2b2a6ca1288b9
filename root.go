package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/beyond-all-reason/map-syncer/internal/config"
	"github.com/beyond-all-reason/map-syncer/internal/reconcile"
	"github.com/beyond-all-reason/map-syncer/internal/syncloop"
	"github.com/beyond-all-reason/map-syncer/internal/trigger"
)

// version is set at build time via ldflags.
var version = "dev"

// Flags bound in newRootCmd. Whether a flag overrides the lower-priority
// config layers is decided by cmd.Flags().Changed, checked per flag in
// applyFlagOverrides, not by the flag's value.
var (
	flagConfigPath     string
	flagLogLevel       string
	flagLiveMapsURL    string
	flagDeleteAfter    int64
	flagPollInterval   int64
	flagMQTTHost       string
	flagMQTTPort       int
	flagMQTTNoTLS      bool
	flagMQTTTopic      string
	flagMQTTUsername   string
	flagMQTTPassword   string
	flagHealthcheckURL string
	flagPIDFile        string
)

// newRootCmd builds the daemon's single command. There is exactly one
// operation — run until stopped — so the root command carries the RunE
// directly rather than dispatching to subcommands.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "map-syncer <maps_directory>",
		Short:         "Synchronize a local maps directory against a live inventory",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&flagConfigPath, "config", "", "optional TOML config file path")
	flags.StringVar(&flagLogLevel, "log-level", "", "DEBUG, INFO, WARNING, ERROR, or CRITICAL")
	flags.StringVar(&flagLiveMapsURL, "live-maps-url", "", "URL of the live maps inventory JSON")
	flags.Int64Var(&flagDeleteAfter, "delete-after", int64(config.DefaultDeleteAfter/time.Second), "seconds a vanished map is kept before deletion")
	flags.Int64Var(&flagPollInterval, "polling-interval", int64(config.DefaultPollInterval/time.Second), "seconds between timer-triggered sync passes")
	flags.StringVar(&flagMQTTHost, "mqtt-host", "", "MQTT broker host (enables the MQTT trigger if set)")
	flags.IntVar(&flagMQTTPort, "mqtt-port", 0, "MQTT broker port")
	flags.BoolVar(&flagMQTTNoTLS, "mqtt-no-tls", false, "disable TLS for the MQTT connection")
	flags.StringVar(&flagMQTTTopic, "mqtt-topic", "", "MQTT topic to subscribe to")
	flags.StringVar(&flagMQTTUsername, "mqtt-username", "", "MQTT username (or $MQTT_USERNAME)")
	flags.StringVar(&flagMQTTPassword, "mqtt-password", "", "MQTT password (or $MQTT_PASSWORD)")
	flags.StringVar(&flagHealthcheckURL, "healthcheck-url", "", "optional URL pinged after each successful sync")
	flags.StringVar(&flagPIDFile, "pid-file", "", "optional PID file guarding against concurrent instances")

	return cmd
}

// runDaemon wires config, logging, the PID guard, the Reconciler, the three
// trigger sources, and the Sync Loop together, then blocks until STOP.
func runDaemon(cmd *cobra.Command, mapsDir string) error {
	cfg, err := resolveConfig(cmd, mapsDir)
	if err != nil {
		return fmt.Errorf("resolving configuration: %w", err)
	}

	logger := buildLogger(cfg.LogLevel)

	if cfg.PIDFile != "" {
		cleanup, err := writePIDFile(cfg.PIDFile)
		if err != nil {
			return err
		}

		defer cleanup()
	}

	client := &http.Client{Timeout: config.SocketTimeout}
	reconciler := reconcile.New(client, config.UserAgent+"/"+version, logger)

	queue := trigger.NewQueue()

	stopSignal := trigger.StartSignalSource(logger, queue)
	defer stopSignal()

	var stopMQTT func()
	if cfg.MQTTEnabled() {
		mqttCfg := trigger.MQTTConfig{
			Host:     cfg.MQTTHost,
			Port:     cfg.MQTTPort,
			TLS:      cfg.MQTTTLS,
			Topic:    cfg.MQTTTopic,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		}
		stopMQTT = trigger.StartMQTT(mqttCfg, queue, logger)
		defer stopMQTT()
	}

	stopTimer := trigger.StartTimer(cfg.PollInterval, queue)
	defer stopTimer()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := syncloop.Options{
		Directory:      cfg.MapsDir,
		InventoryURL:   cfg.LiveMapsURL,
		DeleteAfter:    cfg.DeleteAfter,
		HealthcheckURL: cfg.HealthcheckURL,
	}

	return syncloop.Run(ctx, queue, reconciler, client, opts, logger)
}

// resolveConfig layers defaults -> optional TOML file -> environment ->
// explicit CLI flags, then validates the result.
func resolveConfig(cmd *cobra.Command, mapsDir string) (*config.Config, error) {
	cfg := config.Default()
	cfg.MapsDir = mapsDir

	env := config.ReadEnvOverrides()

	configPath := flagConfigPath
	if configPath == "" {
		configPath = env.ConfigPath
	}

	if configPath != "" {
		if err := config.LoadFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	if env.MQTTUsername != "" {
		cfg.MQTTUsername = env.MQTTUsername
	}

	if env.MQTTPassword != "" {
		cfg.MQTTPassword = env.MQTTPassword
	}

	applyFlagOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlagOverrides copies every explicitly-set CLI flag onto cfg. Flags
// not passed on the command line never override a lower-priority layer; a
// flag that is passed overrides it even when its value is the zero value.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}

	if flags.Changed("live-maps-url") {
		cfg.LiveMapsURL = flagLiveMapsURL
	}

	if flags.Changed("delete-after") {
		cfg.DeleteAfter = secondsToDuration(flagDeleteAfter)
	}

	if flags.Changed("polling-interval") {
		cfg.PollInterval = secondsToDuration(flagPollInterval)
	}

	if flags.Changed("mqtt-host") {
		cfg.MQTTHost = flagMQTTHost
	}

	if flags.Changed("mqtt-port") {
		cfg.MQTTPort = flagMQTTPort
	}

	if flags.Changed("mqtt-no-tls") {
		cfg.MQTTTLS = !flagMQTTNoTLS
	}

	if flags.Changed("mqtt-topic") {
		cfg.MQTTTopic = flagMQTTTopic
	}

	if flags.Changed("mqtt-username") {
		cfg.MQTTUsername = flagMQTTUsername
	}

	if flags.Changed("mqtt-password") {
		cfg.MQTTPassword = flagMQTTPassword
	}

	if flags.Changed("healthcheck-url") {
		cfg.HealthcheckURL = flagHealthcheckURL
	}

	if flags.Changed("pid-file") {
		cfg.PIDFile = flagPIDFile
	}
}

func secondsToDuration(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}

// buildLogger maps the 5-level DEBUG/INFO/WARNING/ERROR/CRITICAL scheme onto
// slog's levels; CRITICAL has no slog equivalent so it is realized as one
// step above LevelError, matching Python logging's numeric ordering
// (CRITICAL=50 > ERROR=40).
func buildLogger(level string) *slog.Logger {
	var slogLevel slog.Level

	switch level {
	case "DEBUG":
		slogLevel = slog.LevelDebug
	case "INFO":
		slogLevel = slog.LevelInfo
	case "ERROR":
		slogLevel = slog.LevelError
	case "CRITICAL":
		slogLevel = slog.LevelError + 4
	default:
		slogLevel = slog.LevelWarn
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
