package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TAXGO_LOGGING_LEVEL
const EnvPrefix = "TAXGO"

// Settings holds application-level configuration
type Settings struct {
	Jurisdictions   string             `mapstructure:"jurisdictions"`
	DisplayCurrency string             `mapstructure:"display_currency"`
	Logging         LoggingConfig      `mapstructure:"logging"`
	Notifications   NotificationConfig `mapstructure:"notifications"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputFile string `mapstructure:"output_file"` // optional file output
}

// NotificationConfig configures the reminder scheduler and its sinks
type NotificationConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	AMQPURL  string        `mapstructure:"amqp_url"` // empty disables AMQP publishing
	Exchange string        `mapstructure:"exchange"`
	Queue    string        `mapstructure:"queue"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("jurisdictions", "")
	v.SetDefault("display_currency", "USD")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_file", "")
	v.SetDefault("notifications.interval", time.Hour)
	v.SetDefault("notifications.amqp_url", "")
	v.SetDefault("notifications.exchange", "taxgo")
	v.SetDefault("notifications.queue", "tax-notifications")
}

// LoadSettings reads settings from an optional file, then applies TAXGO_*
// environment overrides. An empty path uses defaults and environment only.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	return &settings, nil
}

// Validate checks settings values that have a closed set of options
func (s *Settings) Validate() error {
	switch strings.ToLower(s.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", s.Logging.Level)
	}
	switch s.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", s.Logging.Format)
	}
	if s.Notifications.Interval <= 0 {
		return fmt.Errorf("notification interval must be positive")
	}
	if s.Notifications.AMQPURL != "" && (s.Notifications.Exchange == "" || s.Notifications.Queue == "") {
		return fmt.Errorf("amqp exchange and queue are required when amqp_url is set")
	}
	return nil
}
