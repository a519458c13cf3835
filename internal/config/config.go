package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the process reads from the environment. Gateway and
// carrier credentials live here and are injected into the adapters; nothing
// reads ambient env vars at request time.
type Config struct {
	Port string

	// Either DatabaseURL or the discrete Postgres fields.
	DatabaseURL      string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string

	// Midtrans payment gateway
	MidtransServerKey    string
	MidtransClientKey    string
	MidtransBaseURL      string
	MidtransIsProduction bool

	// Biteship shipping carrier
	BiteshipAPIKey  string
	BiteshipBaseURL string

	// Store origin used as the shipper side of carrier orders.
	StoreName       string
	StorePhone      string
	StoreEmail      string
	StoreAddress    string
	StoreCity       string
	StoreProvince   string
	StorePostalCode string
}

// Load reads env vars and validates required fields.
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "app"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MidtransServerKey:    os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey:    os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransBaseURL:      os.Getenv("MIDTRANS_BASE_URL"),
		MidtransIsProduction: os.Getenv("MIDTRANS_IS_PRODUCTION") == "true",

		BiteshipAPIKey:  os.Getenv("BITESHIP_API_KEY"),
		BiteshipBaseURL: getenv("BITESHIP_BASE_URL", "https://api.biteship.com/v1"),

		StoreName:       getenv("STORE_NAME", "MyMedina Store"),
		StorePhone:      getenv("STORE_PHONE", "081234567890"),
		StoreEmail:      getenv("STORE_EMAIL", "store@mymedina.com"),
		StoreAddress:    getenv("STORE_ADDRESS", "Jl. Warehouse No. 123, Jakarta Pusat"),
		StoreCity:       getenv("STORE_CITY", "Jakarta Pusat"),
		StoreProvince:   getenv("STORE_PROVINCE", "DKI Jakarta"),
		StorePostalCode: getenv("STORE_POSTAL_CODE", "10110"),
	}

	if cfg.MidtransBaseURL == "" {
		if cfg.MidtransIsProduction {
			cfg.MidtransBaseURL = "https://app.midtrans.com"
		} else {
			cfg.MidtransBaseURL = "https://app.sandbox.midtrans.com"
		}
	}

	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("POSTGRES_PORT must be number: %w", err)
		}
		cfg.PostgresPort = p
	} else {
		cfg.PostgresPort = 5432
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MidtransServerKey == "" {
		return Config{}, fmt.Errorf("MIDTRANS_SERVER_KEY is required")
	}
	if cfg.BiteshipAPIKey == "" {
		return Config{}, fmt.Errorf("BITESHIP_API_KEY is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
