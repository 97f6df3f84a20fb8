package config

import (
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Has reports whether field failed validation.
func (e ValidationErrors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidateConfig checks if the configuration meets the requirements for its
// environment. It returns ValidationErrors listing every failed field.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.GeminiAPIKey == "" {
		add("GEMINI_API_KEY", "is required (environment, GEMINI_API_KEY_FILE or gemini_api_key secret)")
	}
	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a number between 1 and 65535")
	}
	if cfg.GeminiTimeout <= 0 {
		add("GEMINI_TIMEOUT", "must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		add("SHUTDOWN_TIMEOUT", "must be positive")
	}
	if cfg.RateLimitRequests < 0 {
		add("RATE_LIMIT_REQUESTS", "must not be negative")
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive when rate limiting is enabled")
	}
	if cfg.DailyCalorieTarget < 0 {
		add("DAILY_CALORIE_TARGET", "must not be negative")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for postgres")
		}
	case "sqlite":
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for sqlite")
		}
		if cfg.Environment == Production {
			add("DB_DRIVER", "sqlite is not allowed in production")
		}
	default:
		add("DB_DRIVER", "must be postgres or sqlite")
	}

	if cfg.Environment == Production && cfg.DBPassword == "" {
		add("DB_PASSWORD", "db_password secret is required in production")
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		add("AWS_REGION", "is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
