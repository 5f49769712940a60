package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevelopmentJWTSecret is the signing key used when nothing else is configured.
// It is rejected in production.
const DevelopmentJWTSecret = "ezchef-development-secret"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string
	AutoMigrate bool

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Auth configuration
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	// Rate limits
	LoginRateLimit   int
	LoginRateWindow  time.Duration
	RecipeRateLimit  int
	RecipeRateWindow time.Duration

	// Recipe image storage
	S3Bucket      string
	S3Endpoint    string
	AWSRegion     string
	MaxImageBytes int64
	ImageURLTTL   time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisEnabled reports whether a Redis server has been configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// StorageEnabled reports whether recipe images can be stored.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// PostgresURL builds a URL form of the connection string, as used by lib/pq.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig creates a new Config instance with values from the environment, an optional
// .env file and Docker secrets
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	env := GetEnvironment()
	cfg := fromViper(v)

	switch env {
	case CI:
		// CI injects everything through the environment
	case Development, Test:
		applySecrets(cfg, false)
	case Production:
		applySecrets(cfg, true)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ezchef")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "ezchef.db")
	v.SetDefault("AUTO_MIGRATE", true)

	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", DevelopmentJWTSecret)
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("BCRYPT_COST", 12)

	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
	v.SetDefault("RECIPE_RATE_LIMIT", 30)
	v.SetDefault("RECIPE_RATE_WINDOW", "1h")

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MAX_IMAGE_BYTES", 5*1024*1024)
	v.SetDefault("IMAGE_URL_TTL", "15m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:  v.GetString("SERVER_PORT"),
		ServerHost:  v.GetString("SERVER_HOST"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSL_MODE"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		AutoMigrate: v.GetBool("AUTO_MIGRATE"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisURL:      v.GetString("REDIS_URL"),

		JWTSecret:       v.GetString("JWT_SECRET"),
		AccessTokenTTL:  v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL: v.GetDuration("REFRESH_TOKEN_TTL"),
		BcryptCost:      v.GetInt("BCRYPT_COST"),

		LoginRateLimit:   v.GetInt("LOGIN_RATE_LIMIT"),
		LoginRateWindow:  v.GetDuration("LOGIN_RATE_WINDOW"),
		RecipeRateLimit:  v.GetInt("RECIPE_RATE_LIMIT"),
		RecipeRateWindow: v.GetDuration("RECIPE_RATE_WINDOW"),

		S3Bucket:      v.GetString("S3_BUCKET_NAME"),
		S3Endpoint:    v.GetString("S3_ENDPOINT"),
		AWSRegion:     v.GetString("AWS_REGION"),
		MaxImageBytes: v.GetInt64("MAX_IMAGE_BYTES"),
		ImageURLTTL:   v.GetDuration("IMAGE_URL_TTL"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}
}

// applySecrets overrides sensitive values with Docker secrets. In production the
// secrets are the only accepted source for credentials.
func applySecrets(cfg *Config, strict bool) {
	overrides := map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
	}
	for name, field := range overrides {
		if value := readSecret(name); value != "" {
			*field = value
		} else if strict && (name == "db_password" || name == "jwt_secret") {
			*field = ""
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
