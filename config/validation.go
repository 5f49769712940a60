package config

import (
	"fmt"
	"strings"
)

const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs ValidationErrors

	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for the postgres driver")
		}
		if cfg.DBPassword == "" {
			if env == CI {
				add("DB_PASSWORD", "environment variable is required in CI environment")
			} else {
				add("db_password", "secret is required")
			}
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "is required for the sqlite driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("jwt_secret", "secret is required")
	} else if env == Production && cfg.JWTSecret == DevelopmentJWTSecret {
		add("jwt_secret", "the development secret cannot be used in production")
	}

	if cfg.AccessTokenTTL <= 0 {
		add("ACCESS_TOKEN_TTL", "must be positive")
	}
	if cfg.RefreshTokenTTL < cfg.AccessTokenTTL {
		add("REFRESH_TOKEN_TTL", "must not be shorter than ACCESS_TOKEN_TTL")
	}
	if cfg.BcryptCost < minBcryptCost || cfg.BcryptCost > maxBcryptCost {
		add("BCRYPT_COST", fmt.Sprintf("must be between %d and %d", minBcryptCost, maxBcryptCost))
	}

	if cfg.LoginRateLimit <= 0 || cfg.LoginRateWindow <= 0 {
		add("LOGIN_RATE_LIMIT", "limit and window must be positive")
	}
	if cfg.RecipeRateLimit <= 0 || cfg.RecipeRateWindow <= 0 {
		add("RECIPE_RATE_LIMIT", "limit and window must be positive")
	}

	if cfg.StorageEnabled() && cfg.MaxImageBytes <= 0 {
		add("MAX_IMAGE_BYTES", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
