package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
		"JWT_SECRET", "REDIS_URL", "REDIS_HOST", "S3_BUCKET_NAME", "BCRYPT_COST", "ACCESS_TOKEN_TTL",
		"REFRESH_TOKEN_TTL", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeSecret(t *testing.T, name, value string) {
	t.Helper()
	dir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600))
}

func TestLoadConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "chef")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "6543", cfg.DBPort)
	assert.Equal(t, "chef", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.RedisEnabled())
	assert.False(t, cfg.StorageEnabled())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "ezchef", cfg.DBName)
	assert.Equal(t, DevelopmentJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigSecretsOverrideEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	writeSecret(t, "jwt_secret", "from-secret")
	writeSecret(t, "db_password", "db-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "db-secret", cfg.DBPassword)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "jwt_secret")
	assert.Contains(t, fields, "db_password")
}

func TestValidateConfigRejectsDevelopmentSecretInProduction(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ENV", "production")

	cfg := &Config{
		ServerPort:       "8080",
		DBDriver:         "sqlite",
		SQLitePath:       "test.db",
		JWTSecret:        DevelopmentJWTSecret,
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  2 * time.Hour,
		BcryptCost:       10,
		LoginRateLimit:   1,
		LoginRateWindow:  time.Minute,
		RecipeRateLimit:  1,
		RecipeRateWindow: time.Minute,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "development secret")

	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigUnknownDriver(t *testing.T) {
	isolateEnv(t)

	cfg := &Config{
		ServerPort:       "8080",
		DBDriver:         "mysql",
		JWTSecret:        "x",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  time.Hour,
		BcryptCost:       10,
		LoginRateLimit:   1,
		LoginRateWindow:  time.Minute,
		RecipeRateLimit:  1,
		RecipeRateWindow: time.Minute,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestGetEnvironment(t *testing.T) {
	isolateEnv(t)

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("APP_ENV", "prod")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
	assert.True(t, IsTest())
}
