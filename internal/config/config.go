package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	CoachNone   = "none"
	CoachGemini = "gemini"
	CoachOpenAI = "openai"
)

type Config struct {
	AppEnv     string
	Debug      bool
	ServerPort string

	StorageDriver string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	RateLimit     int
	RateWindow    time.Duration

	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration

	Location        *time.Location
	PenaltyInterval time.Duration
	PenaltyQueue    int

	CoachProvider string
	CoachModel    string
	CoachAPIKey   string
	CoachBaseURL  string
	CoachTimeout  time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tz := getEnv("APP_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		Debug:      getEnvBool("DEBUG", false),
		ServerPort: getEnv("PORT", "8080"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DBDriver:      getEnv("DB_DRIVER", "pgx"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "zen_producer"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),
		RateLimit:     getEnvInt("RATE_LIMIT", 100),
		RateWindow:    getEnvDuration("RATE_WINDOW", time.Minute),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "zen-producer"),
		JWTDuration: getEnvDuration("JWT_DURATION", 24*time.Hour),

		Location:        loc,
		PenaltyInterval: getEnvDuration("PENALTY_SCAN_INTERVAL", time.Minute),
		PenaltyQueue:    getEnvInt("PENALTY_QUEUE_SIZE", 100),

		CoachProvider: strings.ToLower(getEnv("COACH_PROVIDER", CoachNone)),
		CoachModel:    getEnv("COACH_MODEL", ""),
		CoachAPIKey:   getEnv("COACH_API_KEY", ""),
		CoachBaseURL:  getEnv("COACH_BASE_URL", ""),
		CoachTimeout:  getEnvDuration("COACH_TIMEOUT", 60*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.DBDriver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use pgx or postgres)", c.DBDriver)
	}

	switch c.CoachProvider {
	case CoachNone:
	case CoachGemini, CoachOpenAI:
		if c.CoachAPIKey == "" {
			return fmt.Errorf("COACH_API_KEY is required for provider %s", c.CoachProvider)
		}
	default:
		return fmt.Errorf("unsupported COACH_PROVIDER %q", c.CoachProvider)
	}

	if c.PenaltyInterval <= 0 {
		return errors.New("PENALTY_SCAN_INTERVAL must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
