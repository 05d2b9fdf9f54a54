package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string
	AutoMigrate   bool

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Image storage. S3 is used when S3BucketName is set, the local media
	// directory otherwise.
	S3BucketName string
	AWSRegion    string
	S3Endpoint   string
	S3PublicURL  string
	S3AccessKey  string
	S3SecretKey  string
	MediaDir     string
	MediaPrefix  string

	// Rate limiting
	RateLimitWindow         time.Duration
	RecipeCreationLimit     int
	RecipeModificationLimit int
}

// secretOverrides maps docker secret file names to the config fields they replace.
var secretOverrides = map[string]func(*Config, string){
	"db_user":        func(c *Config, v string) { c.DBUser = v },
	"db_password":    func(c *Config, v string) { c.DBPassword = v },
	"jwt_secret":     func(c *Config, v string) { c.JWTSecret = v },
	"redis_password": func(c *Config, v string) { c.RedisPassword = v },
	"redis_url":      func(c *Config, v string) { c.RedisURL = v },

	"s3_access_key_id":     func(c *Config, v string) { c.S3AccessKey = v },
	"s3_secret_access_key": func(c *Config, v string) { c.S3SecretKey = v },
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// .env is optional; real deployments inject the environment directly.
	if !env.IsProduction() {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v, env)
	v.AutomaticEnv()

	cfg := fromViper(v)
	cfg.Env = env

	// CI takes everything from the environment; elsewhere docker secrets win.
	if env != CI {
		for name, apply := range secretOverrides {
			if value := readSecret(name); value != "" {
				apply(cfg, value)
			}
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "foodgram")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "foodgram.db")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("AUTO_MIGRATE", !env.IsProduction())

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_TTL", "24h")
	if env == Development || env == Test {
		v.SetDefault("JWT_SECRET", "foodgram-dev-secret")
	}

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MEDIA_DIR", "media")
	v.SetDefault("MEDIA_PREFIX", "/media")

	v.SetDefault("RATE_LIMIT_WINDOW", "1h")
	v.SetDefault("RATE_LIMIT_RECIPE_CREATE", 5)
	v.SetDefault("RATE_LIMIT_RECIPE_MODIFY", 10)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerHost:  v.GetString("SERVER_HOST"),
		ServerPort:  v.GetString("SERVER_PORT"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		DBDriver:      v.GetString("DB_DRIVER"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSL_MODE"),
		SQLitePath:    v.GetString("SQLITE_PATH"),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		AutoMigrate:   v.GetBool("AUTO_MIGRATE"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisURL:      v.GetString("REDIS_URL"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		S3BucketName: v.GetString("S3_BUCKET_NAME"),
		AWSRegion:    v.GetString("AWS_REGION"),
		S3Endpoint:   v.GetString("S3_ENDPOINT"),
		S3PublicURL:  v.GetString("S3_PUBLIC_URL"),
		S3AccessKey:  v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretKey:  v.GetString("S3_SECRET_ACCESS_KEY"),
		MediaDir:     v.GetString("MEDIA_DIR"),
		MediaPrefix:  v.GetString("MEDIA_PREFIX"),

		RateLimitWindow:         v.GetDuration("RATE_LIMIT_WINDOW"),
		RecipeCreationLimit:     v.GetInt("RATE_LIMIT_RECIPE_CREATE"),
		RecipeModificationLimit: v.GetInt("RATE_LIMIT_RECIPE_MODIFY"),
	}
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
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

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
