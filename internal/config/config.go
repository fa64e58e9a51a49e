package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the settings handlers and services receive through
// construction. Nothing outside this package reads the environment.
type Config struct {
	Port          string
	JWTSecret     string
	RefreshSecret string

	S3Bucket string
	S3Region string

	EmailFrom    string
	EmailSandbox bool

	SweepInterval time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// New assembles the application configuration from the environment.
func New() *Config {
	return &Config{
		Port:          GetEnv("PORT", "3000"),
		JWTSecret:     GetEnv("JWT_SECRET", "verity"),
		RefreshSecret: GetEnv("REFRESH_SECRET", "verity-refresh"),
		S3Bucket:      GetEnv("S3_BUCKET", "verity-verification-docs"),
		S3Region:      GetEnv("S3_REGION", "us-east-1"),
		EmailFrom:     GetEnv("EMAIL_FROM", "no-reply@verity.local"),
		EmailSandbox:  GetBoolEnv("EMAIL_SANDBOX", !IsProduction()),
		SweepInterval: GetDurationEnv("ELIGIBILITY_SWEEP_INTERVAL", time.Hour),
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
