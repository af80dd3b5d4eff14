// Package config loads the API settings from the environment (optionally
// seeded from a .env file).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings for the job tracker API.
type Config struct {
	Env  string
	Port int

	DBDriver         string
	MongoURI         string
	MongoDatabase    string
	MongoTimeout     time.Duration
	MongoMaxPoolSize uint64
	PostgresDSN      string
	PostgresMaxConns int

	FrontendURL string
	CORSOrigins []string

	AuthPublicKey         string
	AuthIssuer            string
	AuthAuthorizedParties []string

	LogLevel  string
	LogFormat string

	GeminiAPIKey string
	GeminiModel  string

	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvProduction)
	v.SetDefault("PORT", 5000)
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "jobtracker")
	v.SetDefault("MONGODB_TIMEOUT", "30s")
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 10)
	v.SetDefault("DATABASE_MAX_CONNS", 10)
	v.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=password dbname=jobtracker port=5432 sslmode=disable")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")
}

// Load reads envFiles (missing files are ignored) into the process
// environment and builds a Config from it.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:                   strings.ToLower(v.GetString("APP_ENV")),
		Port:                  v.GetInt("PORT"),
		DBDriver:              strings.ToLower(v.GetString("DB_DRIVER")),
		MongoURI:              v.GetString("MONGODB_URI"),
		MongoDatabase:         v.GetString("MONGODB_DATABASE"),
		MongoTimeout:          v.GetDuration("MONGODB_TIMEOUT"),
		MongoMaxPoolSize:      v.GetUint64("MONGODB_MAX_POOL_SIZE"),
		PostgresDSN:           v.GetString("DATABASE_DSN"),
		PostgresMaxConns:      v.GetInt("DATABASE_MAX_CONNS"),
		FrontendURL:           v.GetString("FRONTEND_URL"),
		CORSOrigins:           splitList(v.GetString("CORS_ORIGINS")),
		AuthPublicKey:         v.GetString("AUTH_JWT_PUBLIC_KEY"),
		AuthIssuer:            v.GetString("AUTH_ISSUER"),
		AuthAuthorizedParties: splitList(v.GetString("AUTH_AUTHORIZED_PARTIES")),
		LogLevel:              v.GetString("LOG_LEVEL"),
		LogFormat:             v.GetString("LOG_FORMAT"),
		GeminiAPIKey:          v.GetString("GEMINI_API_KEY"),
		GeminiModel:           v.GetString("GEMINI_MODEL"),
		ShutdownTimeout:       v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if cfg.FrontendURL != "" && !contains(cfg.CORSOrigins, cfg.FrontendURL) {
		cfg.CORSOrigins = append(cfg.CORSOrigins, cfg.FrontendURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}

	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongodb driver"))
		}
		if c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGODB_DATABASE is required for the mongodb driver"))
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}

	if c.AuthPublicKey == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("AUTH_JWT_PUBLIC_KEY is required outside development"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
