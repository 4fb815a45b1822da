package config

import (
	"log"
	"os"
	"strconv"

	"github.com/labstack/gommon/random"
)

// Config holds all runtime configuration, read from the environment with
// development defaults where losing a value is survivable.
type Config struct {
	Port        int
	DatabaseURL string

	JWTSecret string
	JWKSURL   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	// Requests per minute per plan.
	QuotaFree       int
	QuotaPro        int
	QuotaEnterprise int
}

func Load() *Config {
	cfg := &Config{
		Port:            envInt("PORT", 8080),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWKSURL:         os.Getenv("JWKS_URL"),
		RedisAddr:       envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         envInt("REDIS_DB", 0),
		MinioEndpoint:   envString("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:  envString("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:  envString("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:     os.Getenv("MINIO_USE_SSL") == "true",
		QuotaFree:       envInt("QUOTA_FREE", 60),
		QuotaPro:        envInt("QUOTA_PRO", 300),
		QuotaEnterprise: envInt("QUOTA_ENTERPRISE", 1000),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		cfg.JWTSecret = random.String(32)
		log.Printf("WARNING: Using generated JWT secret for development")
	}

	return cfg
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
