package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort))
	}

	switch cfg.DBDriver {
	case "postgres":
		if !validSSLModes[cfg.DBSSLMode] {
			add("DB_SSL_MODE", fmt.Sprintf("unsupported ssl mode %q", cfg.DBSSLMode))
		}
		if cfg.DBHost == "" || cfg.DBName == "" {
			add("DB_HOST", "database host and name are required")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "sqlite path is required")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "jwt secret is required")
	}
	if cfg.JWTTTL <= 0 {
		add("JWT_TTL", "token lifetime must be positive")
	}

	if cfg.RateLimitWindow <= 0 || cfg.RecipeCreationLimit <= 0 || cfg.RecipeModificationLimit <= 0 {
		add("RATE_LIMIT", "window and limits must be positive")
	}

	if cfg.Env.IsProduction() || cfg.Env == CI {
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	return nil
}
