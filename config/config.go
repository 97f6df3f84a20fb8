package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Database configuration. DBDriver is postgres or sqlite; DBPath is only
	// used by sqlite.
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration. Redis is optional: without it results are not
	// cached and rate limiting is kept in process.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Bearer tokens are only verified when JWTSecret is set.
	JWTSecret string

	// Gemini configuration
	GeminiAPIKey    string
	GeminiBaseURL   string
	GeminiModel     string
	GeminiChatModel string
	GeminiTimeout   time.Duration

	CacheTTL time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	// DailyCalorieTarget is the goal reported with daily metrics.
	DailyCalorieTarget float64

	// Image archive; disabled when S3Bucket is empty.
	S3Bucket  string
	AWSRegion string

	LogLevel  string
	LogFormat string
}

// secretKeys are the settings that may be provided as Docker secret files
// named after the key.
var secretKeys = []string{
	"gemini_api_key",
	"db_user",
	"db_password",
	"redis_password",
	"redis_url",
	"jwt_secret",
}

// LoadConfig creates a new Config instance from defaults, environment
// variables and Docker secrets. A secret overrides the environment variable
// of the same name.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	v := viper.New()
	setDefaults(v, env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if env.usesSecrets() {
		for _, key := range secretKeys {
			if value := readSecret(key); value != "" {
				v.Set(key, value)
			}
		}
	}

	// GEMINI_API_KEY_FILE points at a file holding the key.
	if v.GetString("gemini_api_key") == "" {
		if path := v.GetString("gemini_api_key_file"); path != "" {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read API key file: %w", err)
			}
			v.Set("gemini_api_key", strings.TrimSpace(string(content)))
		}
	}

	cfg := &Config{
		Environment:        env,
		ServerPort:         v.GetString("server_port"),
		ServerHost:         v.GetString("server_host"),
		ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
		CORSOrigins:        splitList(v.GetString("cors_allowed_origins")),
		DBDriver:           strings.ToLower(v.GetString("db_driver")),
		DBHost:             v.GetString("db_host"),
		DBPort:             v.GetString("db_port"),
		DBUser:             v.GetString("db_user"),
		DBPassword:         v.GetString("db_password"),
		DBName:             v.GetString("db_name"),
		DBSSLMode:          v.GetString("db_ssl_mode"),
		DBPath:             v.GetString("db_path"),
		RedisHost:          v.GetString("redis_host"),
		RedisPort:          v.GetString("redis_port"),
		RedisPassword:      v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		RedisURL:           v.GetString("redis_url"),
		JWTSecret:          v.GetString("jwt_secret"),
		GeminiAPIKey:       v.GetString("gemini_api_key"),
		GeminiBaseURL:      v.GetString("gemini_base_url"),
		GeminiModel:        v.GetString("gemini_model"),
		GeminiChatModel:    v.GetString("gemini_chat_model"),
		GeminiTimeout:      v.GetDuration("gemini_timeout"),
		CacheTTL:           v.GetDuration("cache_ttl"),
		RateLimitRequests:  v.GetInt("rate_limit_requests"),
		RateLimitWindow:    v.GetDuration("rate_limit_window"),
		DailyCalorieTarget: v.GetFloat64("daily_calorie_target"),
		S3Bucket:           v.GetString("s3_bucket_name"),
		AWSRegion:          v.GetString("aws_region"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault("server_port", "5000")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "fitcoach")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_path", "fitcoach.db")

	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)

	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini_model", "gemini-2.0-flash")
	v.SetDefault("gemini_chat_model", "gemini-2.0-flash")
	v.SetDefault("gemini_timeout", "60s")

	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("rate_limit_requests", 30)
	v.SetDefault("rate_limit_window", "1m")
	v.SetDefault("daily_calorie_target", 2200)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	switch env {
	case Production, CI:
		v.SetDefault("db_driver", "postgres")
	default:
		v.SetDefault("db_driver", "sqlite")
		v.SetDefault("log_format", "console")
		v.SetDefault("log_level", "debug")
	}
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
