package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigFrom_Defaults(t *testing.T) {
	// no config.json in the package directory
	cfg, err := LoadConfigFrom(viper.New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MatchDriverWithOrder {
		t.Error("expected unmatched mode by default")
	}
	if cfg.MatchMode() != MatchModeUnmatched {
		t.Errorf("expected %s, got %s", MatchModeUnmatched, cfg.MatchMode())
	}
	if cfg.OrderInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms interval, got %s", cfg.OrderInterval)
	}
	if cfg.MinPickupDelay != 3 || cfg.MaxPickupDelay != 15 {
		t.Errorf("expected delay range [3,15], got [%g,%g]", cfg.MinPickupDelay, cfg.MaxPickupDelay)
	}
	if cfg.OrdersFile != "./orders-data.json" {
		t.Errorf("unexpected orders file %q", cfg.OrdersFile)
	}
	if cfg.OutputFormat != OutputConsole {
		t.Errorf("unexpected output format %q", cfg.OutputFormat)
	}
}

func TestLoadConfigFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"match_driver_w_order": true,
		"order_interval": "250ms",
		"min_pickup_delay": 1,
		"max_pickup_delay": 2,
		"virtual_time": true,
		"start_date": "2024-03-01T10:00:00Z",
		"output_format": "postgres",
		"database": {"dsn": "postgres://localhost/foodmatch"},
		"cloud_storage": {"provider": "s3", "region": "eu-west-1", "bucket_name": "events"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFrom(viper.New(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.MatchDriverWithOrder || cfg.MatchMode() != MatchModeMatched {
		t.Error("expected matched mode")
	}
	if cfg.OrderInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.OrderInterval)
	}
	if !cfg.VirtualTime || !cfg.StartDate.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected virtual time settings: %v %s", cfg.VirtualTime, cfg.StartDate)
	}
	if cfg.Database.DSN != "postgres://localhost/foodmatch" {
		t.Errorf("unexpected dsn %q", cfg.Database.DSN)
	}
	if cfg.CloudStorage.Region != "eu-west-1" || cfg.CloudStorage.BucketName != "events" {
		t.Errorf("unexpected cloud storage %+v", cfg.CloudStorage)
	}
}

func TestLoadConfigFrom_Env(t *testing.T) {
	t.Setenv("FOODMATCH_MATCH_DRIVER_W_ORDER", "true")
	t.Setenv("FOODMATCH_MAX_PICKUP_DELAY", "30")

	cfg, err := LoadConfigFrom(viper.New(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.MatchDriverWithOrder {
		t.Error("expected env to enable matched mode")
	}
	if cfg.MaxPickupDelay != 30 {
		t.Errorf("expected max delay 30, got %g", cfg.MaxPickupDelay)
	}
}

func TestLoadConfigFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfigFrom(viper.New(), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{OrderInterval: time.Second, MinPickupDelay: 3, MaxPickupDelay: 15, OutputFormat: OutputConsole}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"zero interval", func(c *Config) { c.OrderInterval = 0 }, true},
		{"negative interval", func(c *Config) { c.OrderInterval = -time.Second }, false},
		{"negative delay", func(c *Config) { c.MinPickupDelay = -1 }, false},
		{"min above max", func(c *Config) { c.MinPickupDelay = 20 }, false},
		{"equal delays", func(c *Config) { c.MinPickupDelay = 15 }, true},
		{"unknown output", func(c *Config) { c.OutputFormat = "xml" }, false},
		{"postgres without dsn", func(c *Config) { c.OutputFormat = OutputPostgres }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfigFrom_EmptyStartDate(t *testing.T) {
	v := viper.New()
	v.Set("start_date", "")
	cfg, err := LoadConfigFrom(v, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.StartDate.IsZero() {
		t.Errorf("expected zero start date, got %s", cfg.StartDate)
	}
}
