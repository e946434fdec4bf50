package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate for out of range settings.
var ErrInvalidConfig = errors.New("invalid config")

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type Config struct {
	MatchDriverWithOrder bool          `mapstructure:"match_driver_w_order"`
	OrdersFile           string        `mapstructure:"orders_file"`
	OrderInterval        time.Duration `mapstructure:"order_interval"`
	MinPickupDelay       float64       `mapstructure:"min_pickup_delay"` // seconds
	MaxPickupDelay       float64       `mapstructure:"max_pickup_delay"` // seconds
	Seed                 int64         `mapstructure:"seed"`
	VirtualTime          bool          `mapstructure:"virtual_time"`
	StartDate            time.Time     `mapstructure:"start_date"`
	Progress             bool          `mapstructure:"progress"`
	LogLevel             string        `mapstructure:"log_level"`
	LogFormat            string        `mapstructure:"log_format"`

	OutputFormat    string             `mapstructure:"output_format"`
	OutputPath      string             `mapstructure:"output_path"`
	OutputFolder    string             `mapstructure:"output_folder"`
	KafkaEnabled    bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList string             `mapstructure:"kafka_broker_list"`
	CloudStorage    CloudStorageConfig `mapstructure:"cloud_storage"`
	Database        DatabaseConfig     `mapstructure:"database"`
}

// MatchMode names the pairing policy selected by the config.
func (cfg *Config) MatchMode() string {
	if cfg.MatchDriverWithOrder {
		return MatchModeMatched
	}
	return MatchModeUnmatched
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("match_driver_w_order", false)
	v.SetDefault("orders_file", "./orders-data.json")
	v.SetDefault("order_interval", "500ms")
	v.SetDefault("min_pickup_delay", 3.0)
	v.SetDefault("max_pickup_delay", 15.0)
	v.SetDefault("seed", 0)
	v.SetDefault("virtual_time", false)
	v.SetDefault("progress", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_format", OutputConsole)
	v.SetDefault("output_folder", "events")
	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("cloud_storage.provider", "s3")
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	return LoadConfigFrom(viper.GetViper(), cfgFile)
}

// LoadConfigFrom reads the configuration into v. Without cfgFile it looks for
// config.json in the working directory and falls back to defaults when absent.
func LoadConfigFrom(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("json")
	}

	v.SetEnvPrefix("foodmatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			emptyStringToZeroTime(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// emptyStringToZeroTime lets an unset start_date flag decode to the zero time.
func emptyStringToZeroTime() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.String && t == reflect.TypeOf(time.Time{}) && data.(string) == "" {
			return time.Time{}, nil
		}
		return data, nil
	}
}

func (cfg *Config) Validate() error {
	if cfg.OrderInterval < 0 {
		return fmt.Errorf("%w: order_interval must not be negative, got %s", ErrInvalidConfig, cfg.OrderInterval)
	}
	if cfg.MinPickupDelay < 0 {
		return fmt.Errorf("%w: min_pickup_delay must not be negative, got %g", ErrInvalidConfig, cfg.MinPickupDelay)
	}
	if cfg.MinPickupDelay > cfg.MaxPickupDelay {
		return fmt.Errorf("%w: min_pickup_delay %g exceeds max_pickup_delay %g",
			ErrInvalidConfig, cfg.MinPickupDelay, cfg.MaxPickupDelay)
	}
	switch cfg.OutputFormat {
	case OutputConsole, OutputJSON, OutputCSV, OutputParquet, OutputPostgres, OutputNone:
	default:
		return fmt.Errorf("%w: unsupported output format %q", ErrInvalidConfig, cfg.OutputFormat)
	}
	if cfg.OutputFormat == OutputPostgres && cfg.Database.DSN == "" {
		return fmt.Errorf("%w: database.dsn is required for postgres output", ErrInvalidConfig)
	}
	return nil
}
