package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/mpesa"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	PostgresDSN string
	RedisAddr   string
	SessionTTL  time.Duration

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	SessionPurgeIntervalMinute int

	Mpesa mpesa.Config
}

// LoadConfig reads environment variables (after loading .env if present),
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		Mpesa: mpesa.Config{
			BaseURL:         mpesaBaseURL(os.Getenv("MPESA_ENVIRONMENT")),
			ConsumerKey:     strings.TrimSpace(os.Getenv("MPESA_CONSUMER_KEY")),
			ConsumerSecret:  strings.TrimSpace(os.Getenv("MPESA_CONSUMER_SECRET")),
			ShortCode:       strings.TrimSpace(os.Getenv("MPESA_SHORTCODE")),
			Passkey:         strings.TrimSpace(os.Getenv("MPESA_PASSKEY")),
			CallbackURL:     strings.TrimSpace(os.Getenv("MPESA_CALLBACK_URL")),
			TransactionType: envDefault("MPESA_TRANSACTION_TYPE", "CustomerPayBillOnline"),
		},
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("SESSION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.SessionPurgeIntervalMinute = minutes
	}
	return cfg, nil
}

// MpesaConfigured reports whether the Daraja credentials are present.
func (c Config) MpesaConfigured() bool {
	return c.Mpesa.ConsumerKey != "" && c.Mpesa.ConsumerSecret != "" &&
		c.Mpesa.ShortCode != "" && c.Mpesa.Passkey != ""
}

func mpesaBaseURL(environment string) string {
	if strings.EqualFold(strings.TrimSpace(environment), "production") {
		return mpesa.ProductionBaseURL
	}
	return mpesa.SandboxBaseURL
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
