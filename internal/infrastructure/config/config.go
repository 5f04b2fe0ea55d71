package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Strip driver names accepted in strip.driver.
const (
	StripDriverNone      = "none"
	StripDriverSPI       = "spi"
	StripDriverBluefruit = "bluefruit"
)

// MQTT timing used when the config leaves a value unset.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultKeepAlive      = 60 * time.Second
)

// Colour modes accepted in strip.mode.
const (
	// ColorModeFixed paints the configured colour on every message.
	ColorModeFixed = "fixed"

	// ColorModePayload parses each message payload as a colour.
	ColorModePayload = "payload"
)

// Config is the root configuration structure for lightpicker.
// Values are loaded from defaults, then YAML, then environment variables.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Feed     FeedConfig     `yaml:"feed"`
	Strip    StripConfig    `yaml:"strip"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker MQTTBrokerConfig `yaml:"broker"`
	Auth   MQTTAuthConfig   `yaml:"auth"`
	QoS    int              `yaml:"qos" env:"LIGHTPICKER_MQTT_QOS"`

	// KeepAlive is the keepalive interval in seconds.
	KeepAlive int `yaml:"keep_alive" env:"LIGHTPICKER_MQTT_KEEP_ALIVE"`

	// ConnectTimeout bounds the initial connection attempt, in seconds.
	ConnectTimeout int `yaml:"connect_timeout" env:"LIGHTPICKER_MQTT_CONNECT_TIMEOUT"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host string `yaml:"host" env:"LIGHTPICKER_MQTT_HOST"`
	Port int    `yaml:"port" env:"LIGHTPICKER_MQTT_PORT"`
	TLS  bool   `yaml:"tls" env:"LIGHTPICKER_MQTT_TLS"`

	// ClientID is generated per process when empty.
	ClientID string `yaml:"client_id" env:"LIGHTPICKER_MQTT_CLIENT_ID"`
}

// MQTTAuthConfig holds the Adafruit IO credentials.
// The key is sent to the broker as the MQTT password.
type MQTTAuthConfig struct {
	Username string `yaml:"username" env:"LIGHTPICKER_AIO_USERNAME"`
	Key      string `yaml:"key" env:"LIGHTPICKER_AIO_KEY"`
}

// FeedConfig selects the feed to listen on.
type FeedConfig struct {
	Name string `yaml:"name" env:"LIGHTPICKER_FEED"`

	// FetchLatest asks the broker for the feed's current value after subscribing.
	FetchLatest bool `yaml:"fetch_latest" env:"LIGHTPICKER_FEED_FETCH_LATEST"`
}

// StripConfig describes the LED strip, if any.
type StripConfig struct {
	Driver     string `yaml:"driver" env:"LIGHTPICKER_STRIP_DRIVER"`
	Pixels     int    `yaml:"pixels" env:"LIGHTPICKER_STRIP_PIXELS"`
	Color      string `yaml:"color" env:"LIGHTPICKER_STRIP_COLOR"`
	Mode       string `yaml:"mode" env:"LIGHTPICKER_STRIP_MODE"`
	Brightness int    `yaml:"brightness" env:"LIGHTPICKER_STRIP_BRIGHTNESS"`

	// SPIPort is the periph SPI port name; empty selects the first port.
	SPIPort string `yaml:"spi_port" env:"LIGHTPICKER_STRIP_SPI_PORT"`

	// SerialPort and BaudRate address a Bluefruit UART controller.
	SerialPort string `yaml:"serial_port" env:"LIGHTPICKER_STRIP_SERIAL_PORT"`
	BaudRate   int    `yaml:"baud_rate" env:"LIGHTPICKER_STRIP_BAUD_RATE"`
}

// InfluxDBConfig contains InfluxDB connection settings for recording feed values.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled" env:"LIGHTPICKER_INFLUXDB_ENABLED"`
	URL           string `yaml:"url" env:"LIGHTPICKER_INFLUXDB_URL"`
	Token         string `yaml:"token" env:"LIGHTPICKER_INFLUXDB_TOKEN"`
	Org           string `yaml:"org" env:"LIGHTPICKER_INFLUXDB_ORG"`
	Bucket        string `yaml:"bucket" env:"LIGHTPICKER_INFLUXDB_BUCKET"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LIGHTPICKER_LOG_LEVEL"`
	Format string `yaml:"format" env:"LIGHTPICKER_LOG_FORMAT"`
	Output string `yaml:"output" env:"LIGHTPICKER_LOG_OUTPUT"`
}

// Load reads configuration and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, if path is not empty
//  3. A .env file in the working directory, if present
//  4. Environment variables (override file values)
//
// Environment variables follow the pattern LIGHTPICKER_SECTION_KEY, for
// example LIGHTPICKER_AIO_KEY or LIGHTPICKER_STRIP_DRIVER.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config pointing at Adafruit IO and the "pi" feed.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "io.adafruit.com",
				Port: 8883,
				TLS:  true,
			},
			QoS:            0,
			KeepAlive:      60,
			ConnectTimeout: 10,
		},
		Feed: FeedConfig{
			Name: "pi",
		},
		Strip: StripConfig{
			Driver:     StripDriverNone,
			Pixels:     160,
			Color:      "#FF0000",
			Mode:       ColorModeFixed,
			Brightness: 255,
			SerialPort: "/dev/ttyUSB0",
			BaudRate:   9600,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides decodes LIGHTPICKER_* variables onto cfg.
// Fields whose variable is unset keep their current value.
func applyEnvOverrides(cfg *Config) error {
	err := envdecode.Decode(cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return err
	}
	return nil
}

// Validate checks the configuration for errors.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []string

	if c.MQTT.Auth.Username == "" {
		errs = append(errs, "mqtt.auth.username is required (set LIGHTPICKER_AIO_USERNAME)")
	}
	if c.MQTT.Auth.Key == "" {
		errs = append(errs, "mqtt.auth.key is required (set LIGHTPICKER_AIO_KEY)")
	}
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Feed.Name == "" {
		errs = append(errs, "feed.name is required")
	} else if strings.ContainsAny(c.Feed.Name, "/+#") {
		errs = append(errs, "feed.name must not contain '/', '+' or '#'")
	}

	errs = append(errs, c.Strip.validate()...)

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (s StripConfig) validate() []string {
	var errs []string

	switch s.Mode {
	case ColorModeFixed:
		if s.Color == "" {
			errs = append(errs, "strip.color is required in fixed mode")
		}
	case ColorModePayload:
	default:
		errs = append(errs, fmt.Sprintf("strip.mode %q must be fixed or payload", s.Mode))
	}

	switch s.Driver {
	case StripDriverNone:
		return errs
	case StripDriverSPI, StripDriverBluefruit:
	default:
		return append(errs, fmt.Sprintf("strip.driver %q must be one of none, spi, bluefruit", s.Driver))
	}

	if s.Pixels < 1 {
		errs = append(errs, "strip.pixels must be at least 1")
	}
	if s.Brightness < 0 || s.Brightness > 255 {
		errs = append(errs, "strip.brightness must be between 0 and 255")
	}
	if s.Driver == StripDriverBluefruit {
		if s.SerialPort == "" {
			errs = append(errs, "strip.serial_port is required for the bluefruit driver")
		}
		if s.BaudRate < 1 {
			errs = append(errs, "strip.baud_rate must be positive")
		}
	}

	return errs
}

// GetConnectTimeout returns the MQTT connect timeout as a Duration.
// An unset value falls back to DefaultConnectTimeout.
func (m MQTTConfig) GetConnectTimeout() time.Duration {
	if m.ConnectTimeout > 0 {
		return time.Duration(m.ConnectTimeout) * time.Second
	}
	return DefaultConnectTimeout
}

// GetKeepAlive returns the MQTT keepalive interval as a Duration.
// An unset value falls back to DefaultKeepAlive.
func (m MQTTConfig) GetKeepAlive() time.Duration {
	if m.KeepAlive > 0 {
		return time.Duration(m.KeepAlive) * time.Second
	}
	return DefaultKeepAlive
}
