package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	// keep a stray .env in the package dir from leaking into the test
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "foodgram")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("DB_SSL_MODE", "require")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.Equal(t, "require", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 5, cfg.RecipeCreationLimit)
	assert.Equal(t, 10, cfg.RecipeModificationLimit)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestProductionRequiresSecrets(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:                     Development,
			ServerPort:              "8080",
			DBDriver:                "sqlite",
			SQLitePath:              ":memory:",
			JWTSecret:               "s",
			JWTTTL:                  time.Hour,
			RateLimitWindow:         time.Hour,
			RecipeCreationLimit:     5,
			RecipeModificationLimit: 10,
		}
	}

	assert.NoError(t, ValidateConfig(valid()))

	cfg := valid()
	cfg.ServerPort = "http"
	assert.ErrorContains(t, ValidateConfig(cfg), "SERVER_PORT")

	cfg = valid()
	cfg.DBDriver = "postgres"
	cfg.DBHost = "localhost"
	cfg.DBName = "foodgram"
	cfg.DBSSLMode = "sometimes"
	assert.ErrorContains(t, ValidateConfig(cfg), "DB_SSL_MODE")

	cfg = valid()
	cfg.DBDriver = "mysql"
	assert.ErrorContains(t, ValidateConfig(cfg), "DB_DRIVER")
}

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		ci, env    string
		want       Environment
		production bool
	}{
		{"", "production", Production, true},
		{"", "test", Test, false},
		{"", "", Development, false},
		{"true", "production", CI, false},
	}

	for _, tt := range tests {
		t.Run(tt.ci+"/"+tt.env, func(t *testing.T) {
			t.Setenv("CI", tt.ci)
			t.Setenv("ENV", tt.env)
			got := GetEnvironment()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.production, got.IsProduction())
		})
	}
}
