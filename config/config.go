package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for jirafeau-cli.
type Config struct {
	Host           string        `mapstructure:"host" validate:"omitempty,http_url"`
	UploadPassword string        `mapstructure:"upload_password"`
	Profile        string        `mapstructure:"profile"`
	Profiles       string        `mapstructure:"profiles"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"min=0"`
	Upload         UploadConfig  `mapstructure:"upload"`
	Output         OutputConfig  `mapstructure:"output"`
	Log            LogConfig     `mapstructure:"log"`
}

// UploadConfig holds defaults for the upload command.
type UploadConfig struct {
	Time            string `mapstructure:"time"`
	OneTimeDownload bool   `mapstructure:"one_time_download"`
	RandomisedName  bool   `mapstructure:"randomised_name"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	JSON  bool   `mapstructure:"json"`
	Quiet bool   `mapstructure:"quiet"`
	Color string `mapstructure:"color" validate:"required,oneof=auto always never"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
// Flags missing from the map are command-local and never bound.
var flagToViperKey = map[string]string{
	"host":              "host",
	"profile":           "profile",
	"profiles":          "profiles",
	"timeout":           "timeout",
	"log-level":         "log.level",
	"log-format":        "log.format",
	"json":              "output.json",
	"quiet":             "output.quiet",
	"color":             "output.color",
	"time":              "upload.time",
	"one-time-download": "upload.one_time_download",
	"randomised-name":   "upload.randomised_name",
	"upload-password":   "upload_password",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("profile", "")
	v.SetDefault("profiles", "")
	v.SetDefault("timeout", 30*time.Minute)

	v.SetDefault("upload_password", "")

	v.SetDefault("upload.time", "month")
	v.SetDefault("upload.one_time_download", false)
	v.SetDefault("upload.randomised_name", false)

	v.SetDefault("output.json", false)
	v.SetDefault("output.quiet", false)
	v.SetDefault("output.color", "auto")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// DefaultPath returns ~/.jirafeau/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jirafeau", "config.yaml")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones);
//     when empty, ~/.jirafeau/config.yaml is read if it exists
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFiles[0], err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merge config file %s: %w", cf, err)
			}
		}
	} else if path := DefaultPath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("error reading config file", "file", path, "err", err)
		}
	}

	v.SetEnvPrefix("JIRAFEAU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
