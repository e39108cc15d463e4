package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig marks any configuration problem detected at startup.
var ErrInvalidConfig = errors.New("invalid configuration")

const minJWTSecretLength = 32

// Supported values for DB_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database: "mongo" (document store, default), "sqlite" or "pgx"
	DBDriver     string
	DBConnection string
	DBName       string

	// Security
	JWTSecret string

	// OAuth (GitHub required, Google optional)
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string

	// Media host (ImageKit-style signed client uploads)
	ImageKitPrivateKey   string
	ImageKitPublicKey    string
	ImageKitUploadExpiry time.Duration

	// Optional S3-compatible direct upload host (enabled when S3_BUCKET is set)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Auth endpoint rate limiting
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// TrustProxy keys rate limits on X-Forwarded-For / X-Real-IP. Only enable
	// behind a proxy that overwrites those headers.
	TrustProxy bool
}

// Load reads .env (if present) and the environment. Any missing or invalid
// required value terminates the process.
func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := Parse(os.Getenv)
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Parse builds a Config from getenv and reports every missing or invalid value at once.
func Parse(getenv func(string) string) (*Config, error) {
	l := &loader{getenv: getenv}

	cfg := &Config{
		// Application
		AppName: l.envString("APP_NAME", "Reelhub"),
		AppEnv:  l.envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:  strings.TrimSuffix(l.envRequired("APP_URL"), "/"),
		Port:    l.envString("PORT", "8090"),

		// Database
		DBDriver:     l.envString("DB_DRIVER", DriverMongo),
		DBConnection: l.envRequired("DB_CONNECTION"),
		DBName:       l.envString("DB_NAME", ""),

		// Security
		JWTSecret: l.envRequired("JWT_SECRET"),

		// OAuth
		GitHubClientID:     l.envRequired("GITHUB_CLIENT_ID"),
		GitHubClientSecret: l.envRequired("GITHUB_CLIENT_SECRET"),
		GoogleClientID:     l.envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: l.envString("GOOGLE_CLIENT_SECRET", ""),

		// Media host
		ImageKitPrivateKey:   l.envRequired("IMAGEKIT_PRIVATE_KEY"),
		ImageKitPublicKey:    l.envRequired("IMAGEKIT_PUBLIC_KEY"),
		ImageKitUploadExpiry: l.envDuration("IMAGEKIT_UPLOAD_EXPIRY", 30*time.Minute),

		// Storage
		S3Region:        l.envString("S3_REGION", "us-east-1"),
		S3Bucket:        l.envString("S3_BUCKET", ""),
		S3AccessKey:     l.envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     l.envString("S3_SECRET_KEY", ""),
		S3Endpoint:      l.envString("S3_ENDPOINT", ""),
		S3PresignExpiry: l.envDuration("S3_PRESIGN_EXPIRY", 15*time.Minute),

		// Email
		EmailFrom:    l.envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: l.envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: l.envString("SENTRY_DSN", ""),

		// Rate limiting: 10 requests per minute per IP
		AuthRateLimit:  l.envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: l.envDuration("AUTH_RATE_WINDOW", time.Minute),
		TrustProxy:     l.envBool("TRUST_PROXY", false),
	}

	l.validate(cfg)

	if len(l.problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(l.problems, "; "))
	}
	return cfg, nil
}

type loader struct {
	getenv   func(string) string
	problems []string
}

func (l *loader) validate(cfg *Config) {
	switch cfg.DBDriver {
	case DriverMongo:
		if cfg.DBName == "" {
			l.problems = append(l.problems, "DB_NAME is required for the mongo driver")
		}
	case DriverSQLite, DriverPostgres:
	default:
		l.problems = append(l.problems, fmt.Sprintf("DB_DRIVER %q is not supported", cfg.DBDriver))
	}

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minJWTSecretLength {
		l.problems = append(l.problems, fmt.Sprintf("JWT_SECRET must be at least %d characters", minJWTSecretLength))
	}

	if (cfg.GoogleClientID == "") != (cfg.GoogleClientSecret == "") {
		l.problems = append(l.problems, "GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together")
	}

	if cfg.S3Bucket != "" && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		l.problems = append(l.problems, "S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_BUCKET is set")
	}

	if cfg.IsProduction() && cfg.ResendAPIKey == "" {
		l.problems = append(l.problems, "RESEND_API_KEY is required in production")
	}
}

func (l *loader) envString(key, def string) string {
	value := strings.TrimSpace(l.getenv(key))
	if value == "" {
		value = def
	}
	return value
}

func (l *loader) envInt(key string, def int) int {
	v := strings.TrimSpace(l.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		l.problems = append(l.problems, fmt.Sprintf("%s must be a positive integer", key))
		return def
	}
	return n
}

func (l *loader) envBool(key string, def bool) bool {
	v := strings.TrimSpace(l.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.problems = append(l.problems, fmt.Sprintf("%s must be a boolean", key))
		return def
	}
	return b
}

func (l *loader) envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(l.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		l.problems = append(l.problems, fmt.Sprintf("%s must be a positive duration", key))
		return def
	}
	return d
}

func (l *loader) envRequired(key string) string {
	if v := strings.TrimSpace(l.getenv(key)); v != "" {
		return v
	}
	l.problems = append(l.problems, key+" is required")
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GoogleEnabled reports whether the optional Google provider is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// S3Enabled reports whether the optional S3-compatible upload host is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}
