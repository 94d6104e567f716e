// Package config reads service settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const minJWTSecretLen = 32

var (
	ErrWeakJWTSecret  = errors.New("JWT_SECRET is required and must be at least 32 chars")
	ErrUnknownDriver  = errors.New("unknown STORE_DRIVER")
	ErrDSNRequired    = errors.New("STORE_DSN is required for sql drivers")
	ErrInvalidSetting = errors.New("invalid setting")
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

type Config struct {
	Port     string        `yaml:"port"`
	LogLevel string        `yaml:"log_level"`
	DataDir  string        `yaml:"data_dir"`
	Store    StoreConfig   `yaml:"store"`
	Auth     AuthConfig    `yaml:"auth"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		DataDir:  "data",
		Store:    StoreConfig{Driver: DriverFile},
		Auth:     AuthConfig{TokenTTL: 15 * time.Minute, BcryptCost: 10},
		Metrics:  MetricsConfig{Enabled: true},
	}
}

// Load reads the settings with Read and validates the result.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read reads the YAML file at path (skipped when path is empty) and applies
// environment overrides. Nothing is validated.
func Read(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.Store.Driver, "STORE_DRIVER")
	setString(&cfg.Store.DSN, "STORE_DSN")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Metrics.Token, "METRICS_TOKEN")

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: TOKEN_TTL: %v", ErrInvalidSetting, err)
		}
		cfg.Auth.TokenTTL = d
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: BCRYPT_COST: %v", ErrInvalidSetting, err)
		}
		cfg.Auth.BcryptCost = n
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: METRICS_ENABLED: %v", ErrInvalidSetting, err)
		}
		cfg.Metrics.Enabled = b
	}
	return nil
}

func (c Config) Validate() error {
	if len(c.Auth.JWTSecret) < minJWTSecretLen {
		return ErrWeakJWTSecret
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: token_ttl must be positive", ErrInvalidSetting)
	}

	switch c.Store.Driver {
	case DriverFile, DriverSQLite:
	case DriverPgx, DriverPostgres:
		if c.Store.DSN == "" {
			return ErrDSNRequired
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownDriver, c.Store.Driver)
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
