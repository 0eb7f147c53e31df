package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	// Commission charged on completed deals. Snapshotted onto each report
	// at creation time, so changing it never rewrites history.
	CommissionRate float64

	// Redemption code settings
	CodePrefix       string
	CodeValidityDays int

	// Scheduler settings
	ActivationInterval time.Duration
	ExpiryInterval     time.Duration
	ReviewInterval     time.Duration
	ReminderInterval   time.Duration
	ReviewGracePeriod  time.Duration
	ReminderWindowMin  time.Duration
	ReminderWindowMax  time.Duration
	SendDelay          time.Duration

	// SMTP settings for report delivery
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// LoadConfig loads configuration from environment variables. Missing
// required variables are a startup failure.
func LoadConfig() (*Config, error) {
	// .env is optional in production, required vars are checked below
	_ = godotenv.Load()

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "lovi"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),

		CommissionRate: getEnvFloat("DEFAULT_COMMISSION_RATE", 0.15),

		CodePrefix:       getEnv("CODE_PREFIX", "LOVY"),
		CodeValidityDays: getEnvInt("CODE_VALIDITY_DAYS", 14),

		ActivationInterval: getEnvDuration("ACTIVATION_INTERVAL", 5*time.Minute),
		ExpiryInterval:     getEnvDuration("EXPIRY_INTERVAL", time.Hour),
		ReviewInterval:     getEnvDuration("REVIEW_INTERVAL", 30*time.Minute),
		ReminderInterval:   getEnvDuration("REMINDER_INTERVAL", 24*time.Hour),
		ReviewGracePeriod:  getEnvDuration("REVIEW_GRACE_PERIOD", 24*time.Hour),
		ReminderWindowMin:  getEnvDuration("REMINDER_WINDOW_MIN", 48*time.Hour),
		ReminderWindowMax:  getEnvDuration("REMINDER_WINDOW_MAX", 72*time.Hour),
		SendDelay:          getEnvDuration("SEND_DELAY", 100*time.Millisecond),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}

	for name, value := range map[string]string{
		"DB_PASSWORD": config.DBPassword,
		"JWT_SECRET":  config.JWTSecret,
	} {
		if value == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", name)
		}
	}

	if config.CommissionRate <= 0 || config.CommissionRate >= 1 {
		return nil, fmt.Errorf("DEFAULT_COMMISSION_RATE must be a fraction between 0 and 1")
	}
	if config.ReminderWindowMin >= config.ReminderWindowMax {
		return nil, fmt.Errorf("REMINDER_WINDOW_MIN must be smaller than REMINDER_WINDOW_MAX")
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
