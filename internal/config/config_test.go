package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"syringe_rig/internal/models"

	"github.com/spf13/viper"
)

func load(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := NewFlagSet("test")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return Load(viper.New(), fs)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := cfg.Device
	if d.Port != "/dev/ttyACM0" || d.BaudRate != 115200 {
		t.Errorf("serial defaults: %+v", d)
	}
	if d.FrequencyHz != 1 || d.SamplingInterval != 10*time.Millisecond {
		t.Errorf("motion defaults: %+v", d)
	}
	if d.XBounds != (models.Bounds{Min: 0, Max: 50}) || d.YBounds != (models.Bounds{Min: 0, Max: 50}) {
		t.Errorf("bounds: %+v %+v", d.XBounds, d.YBounds)
	}
	if d.StepsPerUnitX != 178 || d.StepsPerUnitY != -178 || d.FeedRate != 1000 {
		t.Errorf("steps/feed: %+v", d)
	}
	want := models.InitTiming{
		ConnectSettle:   2 * time.Second,
		RestoreDefaults: true,
		CommandGap:      500 * time.Millisecond,
		HomingWait:      3 * time.Second,
		SettleWait:      time.Second,
		ParkWait:        2 * time.Second,
	}
	if cfg.Timing != want {
		t.Errorf("timing: got %+v, want %+v", cfg.Timing, want)
	}
	if cfg.EventLogDriver != "csv" || cfg.EventLogPath != "motion_log.csv" {
		t.Errorf("eventlog: %q %q", cfg.EventLogDriver, cfg.EventLogPath)
	}
	if cfg.CancelRune() != 'x' || cfg.HTTPPort != "" || cfg.LogLevel != "info" {
		t.Errorf("misc: %+v", cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
serial:
  port: COM7
  baud: 9600
motion:
  frequency_hz: 2
  x_max: 40
eventlog:
  driver: sqlite
  path: run.db
`)
	t.Setenv("SYRINGE_SERIAL_BAUD", "57600")
	t.Setenv("SYRINGE_MOTION_X_MAX", "30")

	cfg, err := load(t, "--config", path, "--frequency", "4", "--sampling-interval", "20ms")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device.Port != "COM7" {
		t.Errorf("file value lost: port=%q", cfg.Device.Port)
	}
	if cfg.Device.BaudRate != 57600 || cfg.Device.XBounds.Max != 30 {
		t.Errorf("env must override file: %+v", cfg.Device)
	}
	if cfg.Device.FrequencyHz != 4 || cfg.Device.SamplingInterval != 20*time.Millisecond {
		t.Errorf("flags must override file: %+v", cfg.Device)
	}
	if cfg.EventLogDriver != "sqlite" || cfg.EventLogPath != "run.db" {
		t.Errorf("eventlog from file: %q %q", cfg.EventLogDriver, cfg.EventLogPath)
	}
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	_, err := load(t, "--config", filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base, err := load(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty port", func(c *Config) { c.Device.Port = "" }},
		{"zero baud", func(c *Config) { c.Device.BaudRate = 0 }},
		{"zero frequency", func(c *Config) { c.Device.FrequencyHz = 0 }},
		{"negative frequency", func(c *Config) { c.Device.FrequencyHz = -1 }},
		{"zero sampling", func(c *Config) { c.Device.SamplingInterval = 0 }},
		{"nan frequency", func(c *Config) { c.Device.FrequencyHz = math.NaN() }},
		{"inf frequency", func(c *Config) { c.Device.FrequencyHz = math.Inf(1) }},
		{"half period overflows", func(c *Config) { c.Device.FrequencyHz = 1e-11 }},
		{"half period under sampling", func(c *Config) {
			c.Device.FrequencyHz = 100
			c.Device.SamplingInterval = 10 * time.Millisecond
		}},
		{"nan x bound", func(c *Config) { c.Device.XBounds = models.Bounds{Min: math.NaN(), Max: 5} }},
		{"inf y bound", func(c *Config) { c.Device.YBounds = models.Bounds{Min: 0, Max: math.Inf(1)} }},
		{"nan steps", func(c *Config) { c.Device.StepsPerUnitX = math.NaN() }},
		{"nan feed", func(c *Config) { c.Device.FeedRate = math.NaN() }},
		{"inverted x", func(c *Config) { c.Device.XBounds = models.Bounds{Min: 10, Max: 5} }},
		{"inverted y", func(c *Config) { c.Device.YBounds = models.Bounds{Min: 10, Max: 5} }},
		{"zero steps", func(c *Config) { c.Device.StepsPerUnitY = 0 }},
		{"zero feed", func(c *Config) { c.Device.FeedRate = 0 }},
		{"negative wait", func(c *Config) { c.Timing.HomingWait = -time.Second }},
		{"unknown driver", func(c *Config) { c.EventLogDriver = "parquet" }},
		{"empty log path", func(c *Config) { c.EventLogPath = " " }},
		{"multi-char key", func(c *Config) { c.CancelKey = "xy" }},
		{"zero status interval", func(c *Config) { c.HTTPPort = "8080"; c.StatusInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			if err := c.Validate(); !errors.Is(err, models.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}

	t.Run("degenerate envelope is allowed", func(t *testing.T) {
		c := base
		c.Device.XBounds = models.Bounds{Min: 5, Max: 5}
		if err := c.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("empty key disables watcher", func(t *testing.T) {
		c := base
		c.CancelKey = ""
		if err := c.Validate(); err != nil || c.CancelRune() != 0 {
			t.Fatalf("err=%v rune=%q", err, c.CancelRune())
		}
	})
}
