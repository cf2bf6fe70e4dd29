package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	envDBPassword = "DB_PASSWORD"
	envJWTSecret  = "JWT_SECRET"
	envSQLitePath = "SQLITE_PATH"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"

	minJWTSecretLength       = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2
	minLoginAttempts         = 1

	errPortRequiredFmt         = "PORT must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errUnknownStoreDriverFmt   = "STORE_DRIVER must be %q or %q, got %q"
	errLoginAttemptsFmt        = "LOGIN_MAX_ATTEMPTS must be at least %d"
	errLoginWindowFmt          = "LOGIN_WINDOW must be positive"
	errDBConnsFmt              = "DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)"
	errParseEnvFmt             = "parse env: %w"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Login    LoginConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// Profiling mounts admin-only pprof routes under /debug.
	Profiling bool `env:"ENABLE_PROFILING" envDefault:"false"`
	// TrustProxyHeaders takes the client IP from X-Forwarded-For when the
	// request arrives from a private or loopback proxy address.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER" envDefault:"postgres"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	Database string `env:"DB_NAME" envDefault:"projectservice"`
	User     string `env:"DB_USER" envDefault:"projectservice_app"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns int    `env:"DB_MIN_CONNS" envDefault:"5"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"project-service.db"`
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// RedisConfig is optional; an empty Addr keeps login throttling in memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	Window      time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(errParseEnvFmt, err)
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return errors.New(messages.requiredEnvNotSet(envDBPassword))
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf(errDBConnsFmt, c.Database.MinConns, c.Database.MaxConns)
		}
	case StoreDriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New(messages.requiredEnvNotSet(envSQLitePath))
		}
	default:
		return fmt.Errorf(errUnknownStoreDriverFmt, StoreDriverPostgres, StoreDriverSQLite, c.Store.Driver)
	}

	if c.JWT.Secret == "" {
		return errors.New(messages.requiredEnvNotSet(envJWTSecret))
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	if c.Login.MaxAttempts < minLoginAttempts {
		return fmt.Errorf(errLoginAttemptsFmt, minLoginAttempts)
	}

	if c.Login.Window <= 0 {
		return fmt.Errorf(errLoginWindowFmt)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

// DSN builds a keyword/value connection string. Values are single-quoted so
// spaces, quotes and backslashes in credentials survive parsing.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		quoteDSNValue(c.Host), c.Port, quoteDSNValue(c.User), quoteDSNValue(c.Password),
		quoteDSNValue(c.Database), quoteDSNValue(c.SSLMode),
	)
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSNValue(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// RedisEnabled reports whether login throttling should use Redis.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}
