// lightpicker listens to an Adafruit IO feed and reports every new value,
// optionally painting a NeoPixel strip.
//
// Configuration comes from an optional YAML file (--config or
// LIGHTPICKER_CONFIG) overlaid with LIGHTPICKER_* environment variables.
// At minimum LIGHTPICKER_AIO_USERNAME and LIGHTPICKER_AIO_KEY must be set.
//
// The process exits 0 after SIGINT/SIGTERM and 1 when the broker connection
// is lost or startup fails. It never reconnects.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/config"
	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/influxdb"
	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/logging"
	"github.com/jstralko/home-automation-toolkit/internal/infrastructure/mqtt"
	"github.com/jstralko/home-automation-toolkit/internal/listener"
	"github.com/jstralko/home-automation-toolkit/internal/picker"
	"github.com/jstralko/home-automation-toolkit/internal/strip"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// configEnv names the config file when --config is not given.
const configEnv = "LIGHTPICKER_CONFIG"

// newDialer builds the broker dial function. Tests replace it.
var newDialer = dialer

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// execute runs the command line and returns the process exit status:
// 0 after a signal shutdown, 1 on a lost connection or any startup failure.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(out io.Writer) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "lightpicker",
		Short:         "Listen to an Adafruit IO feed and show each value",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), getConfigPath(configPath), out)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config (default $"+configEnv+")")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lightpicker %s (commit %s, built %s)\n", version, commit, date)
		},
	})

	return rootCmd
}

// run is the application logic, separated from main for testability.
// It returns nil on signal shutdown.
func run(ctx context.Context, configPath string, out io.Writer) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting lightpicker",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath, "feed", cfg.Feed.Name)

	pickerOpts := picker.Options{
		Feed:        cfg.Feed.Name,
		FetchLatest: cfg.Feed.FetchLatest,
		Mode:        cfg.Strip.Mode,
		Out:         out,
		Logger:      log,
	}

	if cfg.Strip.Mode == config.ColorModeFixed {
		pickerOpts.Color, err = strip.ParseColor(cfg.Strip.Color)
		if err != nil {
			return fmt.Errorf("strip.color: %w", err)
		}
	}

	leds, err := strip.Open(cfg.Strip)
	if err != nil {
		return fmt.Errorf("opening strip: %w", err)
	}
	if leds != nil {
		defer func() {
			if closeErr := leds.Close(); closeErr != nil {
				log.Error("error closing strip", "error", closeErr)
			}
		}()
		pickerOpts.Strip = leds
		log.Info("strip opened",
			"driver", cfg.Strip.Driver,
			"pixels", leds.Len(),
			"mode", cfg.Strip.Mode,
		)
	}

	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Debug("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		pickerOpts.Recorder = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	}

	handler, err := picker.New(pickerOpts)
	if err != nil {
		return fmt.Errorf("creating picker: %w", err)
	}

	l, err := listener.New(listener.Options{
		Dial:    newDialer(cfg.MQTT, log),
		Handler: handler,
		QoS:     byte(cfg.MQTT.QoS), // #nosec G115 -- validated 0..2
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}

	session, err := l.Connect(listener.Credentials{
		Username: cfg.MQTT.Auth.Username,
		Key:      cfg.MQTT.Auth.Key,
	})
	if err != nil {
		return err
	}
	log.Info("MQTT connected",
		"broker", mqtt.BrokerURL(cfg.MQTT.Broker),
		"feed", cfg.Feed.Name,
	)

	if err := l.RunBlocking(ctx, session); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// dialer builds an unconnected MQTT client for the given credentials.
func dialer(cfg config.MQTTConfig, log *logging.Logger) listener.DialFunc {
	return func(creds listener.Credentials) listener.Conn {
		cfg.Auth.Username = creds.Username
		cfg.Auth.Key = creds.Key

		client := mqtt.New(cfg)
		client.SetLogger(log.With("component", "mqtt"))
		return client
	}
}

// getConfigPath returns the --config value, falling back to
// LIGHTPICKER_CONFIG. Empty means defaults and environment only.
func getConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(configEnv)
}
