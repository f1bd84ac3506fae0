package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	BodyLimit        string
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	SeedDatabase    bool
	LogQueries      bool
}

type JWTConfig struct {
	AccessTokenDuration time.Duration
	PrivateKey          *rsa.PrivateKey
	PublicKey           *rsa.PublicKey
	Issuer              string
}

type SecurityConfig struct {
	BCryptCost         int
	PasswordMinLength  int
	RateLimitPerSecond int
	RateLimitBurst     int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the configuration from the environment. Unparseable numbers,
// booleans and durations fall back to their defaults; values that parse but
// make no sense are rejected.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:             env("SERVER_PORT", "8080"),
			Host:             env("SERVER_HOST", "localhost"),
			Environment:      env("APP_ENV", "development"),
			ReadTimeout:      envParsed("SERVER_READ_TIMEOUT", 15*time.Second, time.ParseDuration),
			WriteTimeout:     envParsed("SERVER_WRITE_TIMEOUT", 15*time.Second, time.ParseDuration),
			ShutdownTimeout:  envParsed("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second, time.ParseDuration),
			BodyLimit:        env("SERVER_BODY_LIMIT", "1M"),
			CORSAllowOrigins: splitList(os.Getenv("CORS_ALLOW_ORIGINS"), []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:            env("DB_HOST", "localhost"),
			Port:            env("DB_PORT", "5432"),
			User:            env("DB_USER", "ledger_user"),
			Password:        env("DB_PASSWORD", "ledger_password"),
			Name:            env("DB_NAME", "ledger_db"),
			SSLMode:         env("DB_SSL_MODE", "disable"),
			MaxConnections:  envParsed("DB_MAX_CONNECTIONS", 25, strconv.Atoi),
			MaxIdleConns:    envParsed("DB_MAX_IDLE_CONNS", 5, strconv.Atoi),
			ConnMaxLifetime: envParsed("DB_CONN_MAX_LIFETIME", time.Hour, time.ParseDuration),
			AutoMigrate:     envParsed("AUTO_MIGRATE", false, strconv.ParseBool),
			SeedDatabase:    envParsed("SEED_DATABASE", false, strconv.ParseBool),
			LogQueries:      envParsed("DB_LOG_QUERIES", false, strconv.ParseBool),
		},
		Security: SecurityConfig{
			BCryptCost:         envParsed("BCRYPT_COST", 12, strconv.Atoi),
			PasswordMinLength:  envParsed("PASSWORD_MIN_LENGTH", 8, strconv.Atoi),
			RateLimitPerSecond: envParsed("RATE_LIMIT_PER_SECOND", 10, strconv.Atoi),
			RateLimitBurst:     envParsed("RATE_LIMIT_BURST", 20, strconv.Atoi),
		},
		JWT: JWTConfig{
			AccessTokenDuration: envParsed("JWT_ACCESS_TOKEN_DURATION", time.Hour, time.ParseDuration),
			Issuer:              env("JWT_ISSUER", "finance-ledger"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.IsProduction() && len(cfg.Server.CORSAllowOrigins) == 1 && cfg.Server.CORSAllowOrigins[0] == "*" {
		slog.Warn("CORS_ALLOW_ORIGINS not set in production, allowing all origins")
	}

	var err error
	cfg.JWT.PrivateKey, cfg.JWT.PublicKey, err = cfg.loadJWTKeys()
	if err != nil {
		return nil, fmt.Errorf("load JWT keys: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Security.RateLimitPerSecond <= 0 || c.Security.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive"))
	}
	// bcrypt accepts costs 4..31
	if c.Security.BCryptCost < 4 || c.Security.BCryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range 4..31", c.Security.BCryptCost))
	}
	if c.Security.PasswordMinLength < 1 {
		errs = append(errs, errors.New("PASSWORD_MIN_LENGTH must be positive"))
	}
	if c.JWT.AccessTokenDuration <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TOKEN_DURATION must be positive"))
	}
	if c.Database.MaxConnections <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNECTIONS must be positive"))
	}
	return errors.Join(errs...)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GormLogLevel keeps SQL statements out of the logs unless explicitly requested
func (c *DatabaseConfig) GormLogLevel() logger.LogLevel {
	if c.LogQueries {
		return logger.Info
	}
	return logger.Warn
}

// SlogLevel parses LOG_LEVEL, defaulting to info
func (c *LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: JSON in production, text elsewhere
// unless LOG_FORMAT overrides it.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Log.SlogLevel()}

	format := c.Log.Format
	if format == "" {
		format = "text"
		if c.IsProduction() {
			format = "json"
		}
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func env(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := parse(value)
	if err != nil {
		slog.Warn("ignoring unparseable environment value", "key", key, "error", err)
		return fallback
	}
	return parsed
}

func splitList(raw string, fallback []string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// loadJWTKeys uses JWT_PRIVATE_KEY / JWT_PUBLIC_KEY (base64 PEM) when both
// are set. Production refuses to start without them; other environments get
// an ephemeral pair.
func (c *Config) loadJWTKeys() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKeyB64 := os.Getenv("JWT_PRIVATE_KEY")
	publicKeyB64 := os.Getenv("JWT_PUBLIC_KEY")

	if privateKeyB64 != "" && publicKeyB64 != "" {
		return decodeKeyPair(privateKeyB64, publicKeyB64)
	}
	if c.IsProduction() {
		return nil, nil, errors.New("JWT_PRIVATE_KEY and JWT_PUBLIC_KEY must be set in production")
	}

	slog.Warn("generating ephemeral RSA keypair for JWT; tokens will not survive a restart", "environment", c.Server.Environment)
	return GenerateRSAKeyPair()
}

func decodeKeyPair(privateKeyB64, publicKeyB64 string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privatePEM, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("decode JWT_PRIVATE_KEY: %w", err)
	}
	publicPEM, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, nil, fmt.Errorf("decode JWT_PUBLIC_KEY: %w", err)
	}

	privateKey, err := parsePrivateKey(privatePEM)
	if err != nil {
		return nil, nil, err
	}
	publicKey, err := parsePublicKey(publicPEM)
	if err != nil {
		return nil, nil, err
	}
	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, nil, errors.New("JWT_PUBLIC_KEY does not match JWT_PRIVATE_KEY")
	}
	return privateKey, publicKey, nil
}

func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("generate RSA key pair: %w", err)
	}
	return privateKey, &privateKey.PublicKey, nil
}

func pemBytes(data []byte) ([]byte, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return block.Bytes, nil
}

// parsePrivateKey accepts PKCS#1 and PKCS#8 encodings
func parsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	der, err := pemBytes(data)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key: not RSA")
	}
	return key, nil
}

func parsePublicKey(data []byte) (*rsa.PublicKey, error) {
	der, err := pemBytes(data)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key: not RSA")
	}
	return key, nil
}
