// Package config loads service configuration from an optional TOML file,
// a .env file and BLENDERY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BLENDERY_DATABASE_DSN.
const EnvPrefix = "BLENDERY"

const defaultJWTSecret = "change-me-in-production"

// Config holds all application configuration.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Packaging   PackagingConfig
	Idempotency IdempotencyConfig
	Lock        LockConfig
	Worker      WorkerConfig
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	StatementTimeout time.Duration
	// Isolation is the default isolation of business transactions:
	// serializable, repeatable_read or read_committed.
	Isolation  string
	MaxRetries int
}

// RedisConfig holds Redis connection settings. Redis is optional.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string
	Development bool
}

// HTTPConfig holds server timeouts.
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// PackagingConfig holds pricing parameters of the packaging stage.
type PackagingConfig struct {
	// Markup is the flat surcharge added to every pack price.
	Markup decimal.Decimal
}

// IdempotencyConfig controls Idempotency-Key handling (requires Redis).
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// LockConfig controls distributed locks (requires Redis).
type LockConfig struct {
	TTL        time.Duration
	RetryDelay time.Duration
	MaxRetries int
}

// WorkerConfig controls the maintenance worker.
type WorkerConfig struct {
	// Interval between maintenance passes.
	Interval time.Duration
	// ExpiryWindow is how far ahead batch expiry is reported.
	ExpiryWindow time.Duration
	// AuditRetention prunes older audit entries; zero keeps everything.
	AuditRetention time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blendery")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.migrate_on_start", false)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)
	v.SetDefault("database.statement_timeout", 30*time.Second)
	v.SetDefault("database.isolation", "serializable")
	v.SetDefault("database.max_retries", 3)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.issuer", "blendery")
	v.SetDefault("jwt.access_token_ttl", 12*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)

	v.SetDefault("packaging.markup", "10")

	v.SetDefault("idempotency.enabled", true)
	v.SetDefault("idempotency.ttl", 24*time.Hour)

	v.SetDefault("lock.ttl", 30*time.Second)
	v.SetDefault("lock.retry_delay", 100*time.Millisecond)
	v.SetDefault("lock.max_retries", 50)

	v.SetDefault("worker.interval", time.Hour)
	v.SetDefault("worker.expiry_window", 30*24*time.Hour)
	v.SetDefault("worker.audit_retention", 0)
}

// Load reads configuration. A missing config file is not an error.
func Load() (*Config, error) {
	// .env only seeds the process environment; real env vars win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/blendery")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	markup, err := decimal.NewFromString(v.GetString("packaging.markup"))
	if err != nil {
		return nil, fmt.Errorf("packaging.markup: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:           v.GetString("app.name"),
			Env:            v.GetString("app.env"),
			Port:           v.GetString("app.port"),
			MigrateOnStart: v.GetBool("app.migrate_on_start"),
		},
		Database: DatabaseConfig{
			DSN:              v.GetString("database.dsn"),
			MaxConns:         v.GetInt32("database.max_conns"),
			MinConns:         v.GetInt32("database.min_conns"),
			MaxConnLifetime:  v.GetDuration("database.max_conn_lifetime"),
			MaxConnIdleTime:  v.GetDuration("database.max_conn_idle_time"),
			StatementTimeout: v.GetDuration("database.statement_timeout"),
			Isolation:        v.GetString("database.isolation"),
			MaxRetries:       v.GetInt("database.max_retries"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("jwt.secret"),
			Issuer:         v.GetString("jwt.issuer"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Packaging: PackagingConfig{Markup: markup},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("idempotency.enabled"),
			TTL:     v.GetDuration("idempotency.ttl"),
		},
		Lock: LockConfig{
			TTL:        v.GetDuration("lock.ttl"),
			RetryDelay: v.GetDuration("lock.retry_delay"),
			MaxRetries: v.GetInt("lock.max_retries"),
		},
		Worker: WorkerConfig{
			Interval:       v.GetDuration("worker.interval"),
			ExpiryWindow:   v.GetDuration("worker.expiry_window"),
			AuditRetention: v.GetDuration("worker.audit_retention"),
		},
	}

	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required (BLENDERY_DATABASE_DSN)")
	}
	switch c.Database.Isolation {
	case "serializable", "repeatable_read", "read_committed":
	default:
		return fmt.Errorf("database.isolation: unsupported value %q", c.Database.Isolation)
	}
	if c.App.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("jwt.secret must be set in production")
	}
	if c.Packaging.Markup.IsNegative() {
		return errors.New("packaging.markup must not be negative")
	}
	return nil
}
