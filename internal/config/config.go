package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Engine settings
	DefaultMaxAttempts    int
	TrajectoryCacheTTLMin int

	// Security
	JWTSecret string
	// ProviderKeyHash is the bcrypt hash of the shared key the external
	// fairness authority presents on the precomputed-trajectory endpoint.
	ProviderKeyHash string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/plinko?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		DefaultMaxAttempts:    getEnvInt("PLINKO_MAX_ATTEMPTS", 50000),
		TrajectoryCacheTTLMin: getEnvInt("TRAJECTORY_CACHE_TTL_MINUTES", 30),

		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		ProviderKeyHash: getEnv("PROVIDER_KEY_HASH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
