package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	JWTSecret           string
	JWTAccessExpiry     time.Duration
	DatabaseURL         string
	FirebaseCredentials string
	TokenRetention      time.Duration
	SweepInterval       time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "3000"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key"),
		JWTAccessExpiry:     getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		TokenRetention:      getDuration("TOKEN_RETENTION", 90*24*time.Hour),
		SweepInterval:       getDuration("SWEEP_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
