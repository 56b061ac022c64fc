package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "SCRY"

// Default values applied before any file or environment source.
const (
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMaxOpenConns     = 10
	DefaultMaxIdleConns     = 5
	DefaultStatsConcurrency = 8
	defaultConfigName       = "config"
	defaultConnMaxLifetime  = "30m"
)

// Option customises a Load call.
type Option func(*loadOptions)

type loadOptions struct {
	viper      *viper.Viper
	configFile string
	envFiles   []string
}

// WithViper loads from v instead of a fresh instance. The CLI uses this to
// feed bound command-line flags into the configuration.
func WithViper(v *viper.Viper) Option {
	return func(o *loadOptions) { o.viper = v }
}

// WithConfigFile reads the given file instead of searching for config.yaml.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// WithEnvFiles overrides the dotenv files read before the environment.
func WithEnvFiles(paths ...string) Option {
	return func(o *loadOptions) { o.envFiles = paths }
}

// Load builds a Config from, in increasing precedence: defaults, the config
// file, the process environment (after merging any .env file) and values
// already set on a supplied viper instance.
// Returns a populated Config or an error if loading or validation fails.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}

	if err := loadEnvFiles(o.envFiles); err != nil {
		return nil, err
	}

	v := o.viper
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || o.configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// loadEnvFiles merges dotenv files into the process environment without
// overriding variables that already hold a value. Missing files are skipped.
func loadEnvFiles(paths []string) error {
	for _, path := range paths {
		env, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error reading env file %s: %w", path, err)
		}
		for key, value := range env {
			if os.Getenv(key) != "" {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("error setting %s from %s: %w", key, path, err)
			}
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Every key needs a default (even an empty one) so AutomaticEnv can
	// resolve it during Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", defaultConnMaxLifetime)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("srs.min_ease_factor", 0)
	v.SetDefault("srs.passing_quality", 0)
	v.SetDefault("srs.first_interval", 0)
	v.SetDefault("srs.second_interval", 0)
	v.SetDefault("srs.lapse_interval", 0)
	v.SetDefault("stats.concurrency", DefaultStatsConcurrency)
}
