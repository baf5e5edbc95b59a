package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Log       LogConfig
	OTEL      OTELConfig
	Overpass  OverpassConfig
	Import    ImportConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds bearer token verification settings
type AuthConfig struct {
	JWTSecret    string
	AllowedRoles []string
}

// GeminiConfig holds the insights narrative provider configuration
type GeminiConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	MaxOutputTokens int
}

// OpenAIConfig holds the public assistant narrative provider configuration
type OpenAIConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	MaxOutputTokens int
}

// RateLimitConfig holds public endpoint throttling settings
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Salt     string
	// TrustedProxies are IPs or CIDRs whose forwarding headers are believed
	TrustedProxies []string
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// OverpassConfig holds the OpenStreetMap Overpass endpoint used by the POI importer
type OverpassConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// ImportConfig holds POI import defaults
type ImportConfig struct {
	BBox          string
	PhoneRegion   string
	DefaultStatus string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "civicpulse"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
			AllowedRoles: getEnvAsList("AUTH_ALLOWED_ROLES", []string{"admin", "agent"}),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			BaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			MaxOutputTokens: getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 700),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			Model:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			MaxOutputTokens: getEnvAsInt("OPENAI_MAX_OUTPUT_TOKENS", 400),
		},
		RateLimit: RateLimitConfig{
			Requests:       getEnvAsInt("PUBLIC_RATE_LIMIT_REQUESTS", 20),
			Window:         time.Duration(getEnvAsInt("PUBLIC_RATE_LIMIT_WINDOW_SECONDS", 600)) * time.Second,
			Salt:           getEnv("RATE_LIMIT_SALT", "civicpulse"),
			TrustedProxies: getEnvAsList("RATE_LIMIT_TRUSTED_PROXIES", nil),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "civicpulse-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Overpass: OverpassConfig{
			Endpoint: getEnv("OVERPASS_ENDPOINT", "https://overpass-api.de/api/interpreter"),
			Timeout:  time.Duration(getEnvAsInt("OVERPASS_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Import: ImportConfig{
			BBox:          getEnv("POI_IMPORT_BBOX", "9.45,-13.75,9.70,-13.55"),
			PhoneRegion:   getEnv("POI_PHONE_REGION", "GN"),
			DefaultStatus: getEnv("POI_DEFAULT_STATUS", "ACTIF"),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid SERVER_PORT %d", cfg.Server.Port)
	}
	if cfg.RateLimit.Requests <= 0 {
		return nil, fmt.Errorf("PUBLIC_RATE_LIMIT_REQUESTS must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
