package config

import "time"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Stats    StatsConfig    `mapstructure:"stats"`
}

// DatabaseConfig contains connection and pool settings for PostgreSQL.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// SRSConfig tunes the SM-2 scheduler. Zero values keep the algorithm defaults.
type SRSConfig struct {
	MinEaseFactor  float64 `mapstructure:"min_ease_factor" validate:"omitempty,gte=1.3"`
	PassingQuality int     `mapstructure:"passing_quality" validate:"omitempty,gte=1,lte=5"`
	FirstInterval  int     `mapstructure:"first_interval" validate:"omitempty,gte=1"`
	SecondInterval int     `mapstructure:"second_interval" validate:"omitempty,gte=1"`
	LapseInterval  int     `mapstructure:"lapse_interval" validate:"omitempty,gte=1"`
}

// StatsConfig controls deck statistics aggregation.
type StatsConfig struct {
	// Concurrency bounds the number of parallel progress lookups per deck.
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=64"`
}
