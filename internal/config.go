package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	BaseURL  string
	Cart     CartConfig
	Stripe   StripeConfig
	PayPal   PayPalConfig
}

// CartConfig holds cart persistence configuration.
type CartConfig struct {
	// DataDir is where per-session cart entries are written.
	DataDir string
}

type StripeConfig struct {
	// SecretKey enables payment-link verification at startup. Empty
	// disables verification; the catalog's hosted links are used as-is.
	SecretKey string
}

type PayPalConfig struct {
	ClientID      string
	Secret        string
	APIBase       string // sandbox by default; live must be set explicitly
	Currency      string
	EnableFunding string // extra funding sources on the button, e.g. "venmo"
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		// Walk up directories to find .env (max 2 parent directories)
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		BaseURL:  getEnv("BASE_URL", "http://localhost:3000"),
		Cart: CartConfig{
			DataDir: getEnv("CART_DATA_DIR", "./data/carts"),
		},
		Stripe: StripeConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		},
		PayPal: PayPalConfig{
			ClientID:      getEnv("PAYPAL_CLIENT_ID", ""),
			Secret:        getEnv("PAYPAL_SECRET", ""),
			APIBase:       getEnv("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com"),
			Currency:      getEnv("PAYPAL_CURRENCY", "USD"),
			EnableFunding: getEnv("PAYPAL_ENABLE_FUNDING", "venmo"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	// The embedded checkout cannot run without provider credentials in
	// production; in dev the handlers degrade to redirect-only.
	if cfg.Env == "prod" && (cfg.PayPal.ClientID == "" || cfg.PayPal.Secret == "") {
		return nil, fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_SECRET must be set in production environment")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
