package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LIGHTSWITCH"

// Mode drivers.
const (
	DriverFile    = "file"
	DriverCommand = "command"
)

// Config is the daemon configuration. The schedule itself lives in the INI
// file at Schedule.Path and is re-read on every tick.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Worker      WorkerConfig      `mapstructure:"worker"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Clock       ClockConfig       `mapstructure:"clock"`
	Mode        ModeConfig        `mapstructure:"mode"`
	DB          DBConfig          `mapstructure:"db"`
	HTTP        HTTPConfig        `mapstructure:"http"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WorkerConfig.Interval of zero means the build-time default.
type WorkerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ScheduleConfig struct {
	Path string `mapstructure:"path"`
}

type DiagnosticsConfig struct {
	Path    string `mapstructure:"path"`
	Console bool   `mapstructure:"console"` // also echo lines to stdout
}

type ClockConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA name, "" or "Local" for the host zone
}

type ModeConfig struct {
	Driver          string        `mapstructure:"driver"`
	File            string        `mapstructure:"file"`
	GetCommand      string        `mapstructure:"get_command"`
	SetLightCommand string        `mapstructure:"set_light_command"`
	SetDarkCommand  string        `mapstructure:"set_dark_command"`
	CommandTimeout  time.Duration `mapstructure:"command_timeout"`
}

// DBConfig.Path empty disables history.
type DBConfig struct {
	Path      string        `mapstructure:"path"`
	Retention time.Duration `mapstructure:"retention"`
}

type HTTPConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Port         string `mapstructure:"port"`
	JWTSecret    string `mapstructure:"jwt_secret"`
	PasswordHash string `mapstructure:"password_hash"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("worker.interval", "0s")
	v.SetDefault("schedule.path", "config/NXLightSwitch/NXLightSwitch.ini")
	v.SetDefault("diagnostics.path", "NXLightSwitch.txt")
	v.SetDefault("diagnostics.console", false)
	v.SetDefault("clock.timezone", "Local")
	v.SetDefault("mode.driver", DriverFile)
	v.SetDefault("mode.file", "appearance.mode")
	v.SetDefault("mode.get_command", "")
	v.SetDefault("mode.set_light_command", "")
	v.SetDefault("mode.set_dark_command", "")
	v.SetDefault("mode.command_timeout", "5s")
	v.SetDefault("db.path", "")
	v.SetDefault("db.retention", "720h")
	v.SetDefault("http.enabled", false)
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.jwt_secret", "")
	v.SetDefault("http.password_hash", "")
}

// Load reads config.yml from the given directories (first match wins),
// applies LIGHTSWITCH_* environment overrides and validates the result.
// A missing file is not an error: defaults are used.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	normalize(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Mode.Driver = strings.ToLower(strings.TrimSpace(cfg.Mode.Driver))
	cfg.HTTP.PasswordHash = strings.TrimSpace(cfg.HTTP.PasswordHash)
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Worker.Interval < 0 {
		errs = append(errs, fmt.Errorf("worker.interval must not be negative, got %s", cfg.Worker.Interval))
	}
	if cfg.Schedule.Path == "" {
		errs = append(errs, errors.New("schedule.path is required"))
	}
	if cfg.Diagnostics.Path == "" {
		errs = append(errs, errors.New("diagnostics.path is required"))
	}

	switch cfg.Mode.Driver {
	case DriverFile:
		if cfg.Mode.File == "" {
			errs = append(errs, errors.New("mode.file is required for the file driver"))
		}
	case DriverCommand:
		if cfg.Mode.GetCommand == "" || cfg.Mode.SetLightCommand == "" || cfg.Mode.SetDarkCommand == "" {
			errs = append(errs, errors.New("mode.get_command, mode.set_light_command and mode.set_dark_command are required for the command driver"))
		}
		if cfg.Mode.CommandTimeout <= 0 {
			errs = append(errs, errors.New("mode.command_timeout must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("mode.driver must be %q or %q, got %q", DriverFile, DriverCommand, cfg.Mode.Driver))
	}

	if cfg.DB.Retention < 0 {
		errs = append(errs, errors.New("db.retention must not be negative"))
	}

	if cfg.HTTP.Enabled && cfg.HTTP.JWTSecret != "" && cfg.HTTP.PasswordHash == "" {
		errs = append(errs, errors.New("http.password_hash is required when http.jwt_secret is set"))
	}

	return errors.Join(errs...)
}
