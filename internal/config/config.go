package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration (matches config/config.yaml).
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Home       HomeConfig       `mapstructure:"home"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Reconcile  ReconcileConfig  `mapstructure:"reconcile"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Enrich     EnrichConfig     `mapstructure:"enrich"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// HomeConfig is the fixed origin every venue distance is measured from.
type HomeConfig struct {
	Postcode  string  `mapstructure:"postcode"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// SeedConfig points at the versioned venue authority document.
type SeedConfig struct {
	Path string `mapstructure:"path"`
}

type ReconcileConfig struct {
	// Groups whose members carry coordinates further apart than this are
	// flagged for manual review instead of merged.
	ConflictThresholdMiles float64 `mapstructure:"conflict_threshold_miles"`
}

// ClassifierConfig overrides the built-in classification rule tables when
// non-empty. Keyword order is normalized to longest-first at build time.
type ClassifierConfig struct {
	EventTypeKeywords  []EventTypeKeyword `mapstructure:"event_type_keywords"`
	TrainingExclusions []string           `mapstructure:"training_exclusions"`
	Disciplines        []DisciplineAlias  `mapstructure:"disciplines"`
}

type EventTypeKeyword struct {
	Keyword   string `mapstructure:"keyword"`
	EventType string `mapstructure:"event_type"`
}

type DisciplineAlias struct {
	Name    string `mapstructure:"name"`
	Pattern string `mapstructure:"pattern"` // case-insensitive regexp over name+description
}

// EnrichConfig configures the optional postcode web-lookup collaborator.
// Disabled when BaseURL is empty.
type EnrichConfig struct {
	BaseURL             string  `mapstructure:"base_url"`
	Timeout             int     `mapstructure:"timeout"` // seconds
	Proxy               string  `mapstructure:"proxy"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
}

// LoadConfig reads config/config.yaml; sensitive values come from .env /
// the environment and override the file (env > yaml).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("ENRICH_PROXY"); v != "" {
		cfg.Enrich.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Seed.Path == "" {
		cfg.Seed.Path = "./config/venues.yaml"
	}
	if cfg.Reconcile.ConflictThresholdMiles == 0 {
		cfg.Reconcile.ConflictThresholdMiles = 5
	}
	if cfg.Enrich.Timeout == 0 {
		cfg.Enrich.Timeout = 10
	}
	if cfg.Enrich.ConfidenceThreshold == 0 {
		cfg.Enrich.ConfidenceThreshold = 0.8
	}
}
