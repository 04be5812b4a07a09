package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string

	// Comma-separated broker list. Empty disables event publishing.
	KafkaBrokers []string

	AppPort    string
	AppEnv     string
	SecretKey  string
	CORSOrigin string

	// AuthBypass skips token verification outside production.
	AuthBypass bool

	// Pricing policy. Amounts are rupiah.
	FreeShippingThreshold int64
	FlatShippingFee       int64
	TaxRate               float64

	CheckoutSubmitTimeout time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),

		AppPort:    getEnv("APP_PORT", "8080"),
		AppEnv:     os.Getenv("APP_ENV"),
		SecretKey:  os.Getenv("SECRET_KEY"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		AuthBypass: getEnvBool("AUTH_BYPASS", false),

		FreeShippingThreshold: getEnvInt64("FREE_SHIPPING_THRESHOLD", 2_000_000),
		FlatShippingFee:       getEnvInt64("FLAT_SHIPPING_FEE", 50_000),
		TaxRate:               getEnvFloat("TAX_RATE", 0.11),

		CheckoutSubmitTimeout: getEnvDuration("CHECKOUT_SUBMIT_TIMEOUT", 15*time.Second),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	// The bypass is a development convenience only.
	if cfg.AppEnv == "production" {
		cfg.AuthBypass = false
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
