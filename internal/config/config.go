package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"syringe_rig/internal/models"
	"syringe_rig/internal/repository"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SYRINGE"

// Config is everything a session needs, resolved from defaults, the config
// file, SYRINGE_* environment variables and command-line flags, in rising
// order of precedence.
type Config struct {
	Device models.DeviceConfig
	Timing models.InitTiming

	EventLogDriver string
	EventLogPath   string

	CancelKey string

	HTTPPort       string
	StatusInterval time.Duration

	PasswordHash string
	SigningKey   string

	LogLevel string
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"port":              "serial.port",
	"baud":              "serial.baud",
	"frequency":         "motion.frequency_hz",
	"sampling-interval": "motion.sampling_interval",
	"log-file":          "eventlog.path",
	"log-driver":        "eventlog.driver",
	"cancel-key":        "cancel.key",
	"http-port":         "http.port",
	"log-level":         "log.level",
}

// NewFlagSet declares the session flags. Defaults are left to viper so an
// unset flag never shadows the config file.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetInterspersed(true)
	fs.String("config", "", "Config file (default configs/config.yml)")
	fs.String("port", "", "Serial port, e.g. /dev/ttyACM0 or COM7")
	fs.Int("baud", 0, "Baud rate")
	fs.Float64("frequency", 0, "Oscillation frequency, in Hz")
	fs.Duration("sampling-interval", 0, "Dwell sampling interval")
	fs.String("log-file", "", "Event log path")
	fs.String("log-driver", "", "Event log driver: csv or sqlite")
	fs.String("cancel-key", "", "Key that stops the session")
	fs.String("http-port", "", "Monitoring API port; empty disables it")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("hash-password", "", "Print the bcrypt hash of this password for auth.password_hash and exit")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "/dev/ttyACM0")
	v.SetDefault("serial.baud", 115200)
	v.SetDefault("serial.read_timeout", 2*time.Second)
	v.SetDefault("serial.connect_settle", 2*time.Second)

	v.SetDefault("motion.x_min", 0.0)
	v.SetDefault("motion.x_max", 50.0)
	v.SetDefault("motion.y_min", 0.0)
	v.SetDefault("motion.y_max", 50.0)
	v.SetDefault("motion.frequency_hz", 1.0)
	v.SetDefault("motion.feed_rate", 1000.0)
	v.SetDefault("motion.steps_per_unit_x", 178.0)
	v.SetDefault("motion.steps_per_unit_y", -178.0)
	v.SetDefault("motion.sampling_interval", 10*time.Millisecond)

	v.SetDefault("init.restore_defaults", true)
	v.SetDefault("init.command_gap", 500*time.Millisecond)
	v.SetDefault("init.homing_wait", 3*time.Second)
	v.SetDefault("init.settle_wait", time.Second)
	v.SetDefault("init.report_settings", false)
	v.SetDefault("shutdown.park_wait", 2*time.Second)

	v.SetDefault("eventlog.driver", repository.DriverCSV)
	v.SetDefault("eventlog.path", "motion_log.csv")
	v.SetDefault("cancel.key", "x")

	v.SetDefault("http.port", "")
	v.SetDefault("http.status_interval", time.Second)
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.signing_key", "")

	v.SetDefault("log.level", "info")
}

// Load resolves the configuration. fs must already be parsed. A missing
// default config file is not an error; a missing explicit --config is.
func Load(v *viper.Viper, fs *flag.FlagSet) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("%w: bind flag %s: %w", models.ErrConfiguration, name, err)
			}
		}
	}

	explicit, _ := fs.GetString("config")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("%w: read config: %w", models.ErrConfiguration, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Device: models.DeviceConfig{
			Port:             strings.TrimSpace(v.GetString("serial.port")),
			BaudRate:         v.GetInt("serial.baud"),
			ReadTimeout:      v.GetDuration("serial.read_timeout"),
			FeedRate:         v.GetFloat64("motion.feed_rate"),
			StepsPerUnitX:    v.GetFloat64("motion.steps_per_unit_x"),
			StepsPerUnitY:    v.GetFloat64("motion.steps_per_unit_y"),
			XBounds:          models.Bounds{Min: v.GetFloat64("motion.x_min"), Max: v.GetFloat64("motion.x_max")},
			YBounds:          models.Bounds{Min: v.GetFloat64("motion.y_min"), Max: v.GetFloat64("motion.y_max")},
			FrequencyHz:      v.GetFloat64("motion.frequency_hz"),
			SamplingInterval: v.GetDuration("motion.sampling_interval"),
		},
		Timing: models.InitTiming{
			ConnectSettle:   v.GetDuration("serial.connect_settle"),
			RestoreDefaults: v.GetBool("init.restore_defaults"),
			CommandGap:      v.GetDuration("init.command_gap"),
			HomingWait:      v.GetDuration("init.homing_wait"),
			SettleWait:      v.GetDuration("init.settle_wait"),
			ReportSettings:  v.GetBool("init.report_settings"),
			ParkWait:        v.GetDuration("shutdown.park_wait"),
		},
		EventLogDriver: strings.ToLower(strings.TrimSpace(v.GetString("eventlog.driver"))),
		EventLogPath:   v.GetString("eventlog.path"),
		CancelKey:      v.GetString("cancel.key"),
		HTTPPort:       strings.TrimSpace(v.GetString("http.port")),
		StatusInterval: v.GetDuration("http.status_interval"),
		PasswordHash:   v.GetString("auth.password_hash"),
		SigningKey:     v.GetString("auth.signing_key"),
		LogLevel:       v.GetString("log.level"),
	}
}

// Validate reports the first invalid setting, wrapped in models.ErrConfiguration.
func (c Config) Validate() error {
	d := c.Device
	switch {
	case d.Port == "":
		return invalid("serial.port is empty")
	case d.BaudRate <= 0:
		return invalid("serial.baud %d must be positive", d.BaudRate)
	case !d.XBounds.Valid():
		return invalid("motion.x_min %v and motion.x_max %v must be finite and ordered", d.XBounds.Min, d.XBounds.Max)
	case !d.YBounds.Valid():
		return invalid("motion.y_min %v and motion.y_max %v must be finite and ordered", d.YBounds.Min, d.YBounds.Max)
	case d.StepsPerUnitX == 0 || d.StepsPerUnitY == 0 || math.IsNaN(d.StepsPerUnitX) || math.IsNaN(d.StepsPerUnitY):
		return invalid("steps per unit must be non-zero numbers")
	case !(d.FeedRate > 0) || math.IsInf(d.FeedRate, 1):
		return invalid("motion.feed_rate %v must be positive", d.FeedRate)
	case d.ReadTimeout < 0:
		return invalid("serial.read_timeout is negative")
	}

	if err := d.CheckTiming(); err != nil {
		return err
	}

	t := c.Timing
	for key, w := range map[string]time.Duration{
		"serial.connect_settle": t.ConnectSettle,
		"init.command_gap":      t.CommandGap,
		"init.homing_wait":      t.HomingWait,
		"init.settle_wait":      t.SettleWait,
		"shutdown.park_wait":    t.ParkWait,
	} {
		if w < 0 {
			return invalid("%s is negative", key)
		}
	}

	switch c.EventLogDriver {
	case repository.DriverCSV, repository.DriverSQLite:
	default:
		return invalid("unknown eventlog.driver %q", c.EventLogDriver)
	}
	if strings.TrimSpace(c.EventLogPath) == "" {
		return invalid("eventlog.path is empty")
	}
	if len([]rune(c.CancelKey)) > 1 {
		return invalid("cancel.key %q must be a single character", c.CancelKey)
	}
	if c.HTTPPort != "" && c.StatusInterval <= 0 {
		return invalid("http.status_interval must be positive")
	}
	return nil
}

// CancelRune is the configured stop key, or 0 when the key watcher is off.
func (c Config) CancelRune() rune {
	for _, r := range c.CancelKey {
		return r
	}
	return 0
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrConfiguration}, args...)...)
}
