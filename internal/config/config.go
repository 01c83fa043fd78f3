package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=fret port=5432 sslmode=disable"

type Config struct {
	AppEnv   string
	HTTPPort string

	DatabaseDriver string // postgres | sqlite
	DatabaseDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins string

	LogLevel  string
	LogFormat string
	LogOutput string

	// AllowNegativeBalance lets a withdrawal take the register below zero.
	AllowNegativeBalance bool
}

// Load reads config.yaml when present, then the environment. Environment
// variables use the upper-cased key with dots as underscores, e.g.
// DATABASE_DSN or REGISTER_ALLOW_NEGATIVE_BALANCE.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/fret")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds the configuration from an already prepared viper
// instance, adding defaults and environment lookup.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:               v.GetString("app.env"),
		HTTPPort:             v.GetString("http.port"),
		DatabaseDriver:       strings.ToLower(v.GetString("database.driver")),
		DatabaseDSN:          v.GetString("database.dsn"),
		JWTSecret:            v.GetString("jwt.secret"),
		JWTTTL:               v.GetDuration("jwt.ttl"),
		CORSOrigins:          v.GetString("cors.allowed_origins"),
		LogLevel:             v.GetString("log.level"),
		LogFormat:            v.GetString("log.format"),
		LogOutput:            v.GetString("log.output"),
		AllowNegativeBalance: v.GetBool("register.allow_negative_balance"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("http.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", defaultDSN)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("cors.allowed_origins", "http://localhost:4200")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("register.allow_negative_balance", true)
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (postgres|sqlite)", c.DatabaseDriver)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Warnings lists settings left at development defaults.
func (c *Config) Warnings() []string {
	var w []string
	if c.DatabaseDriver == "postgres" && c.DatabaseDSN == defaultDSN {
		w = append(w, "DATABASE_DSN uses the default value, set your own Postgres connection for production")
	}
	if c.CORSOrigins == "http://localhost:4200" {
		w = append(w, "CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}
	return w
}

// AllowedOrigins splits the comma separated CORS origins.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
