package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("REDIS_ADDR", "localhost:6380")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
		t.Setenv("APP_PORT", "8081")
		t.Setenv("APP_ENV", "test")
		t.Setenv("FREE_SHIPPING_THRESHOLD", "1500000")
		t.Setenv("FLAT_SHIPPING_FEE", "25000")
		t.Setenv("TAX_RATE", "0.10")
		t.Setenv("CHECKOUT_SUBMIT_TIMEOUT", "5s")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "localhost:6380", cfg.RedisAddr)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, "8081", cfg.AppPort)
		assert.Equal(t, int64(1_500_000), cfg.FreeShippingThreshold)
		assert.Equal(t, int64(25_000), cfg.FlatShippingFee)
		assert.Equal(t, 0.10, cfg.TaxRate)
		assert.Equal(t, 5*time.Second, cfg.CheckoutSubmitTimeout)
	})

	t.Run("Pricing defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("FREE_SHIPPING_THRESHOLD", "")
		t.Setenv("FLAT_SHIPPING_FEE", "")
		t.Setenv("TAX_RATE", "")
		t.Setenv("CHECKOUT_SUBMIT_TIMEOUT", "")

		cfg := LoadConfig()

		assert.Equal(t, int64(2_000_000), cfg.FreeShippingThreshold)
		assert.Equal(t, int64(50_000), cfg.FlatShippingFee)
		assert.Equal(t, 0.11, cfg.TaxRate)
		assert.Equal(t, 15*time.Second, cfg.CheckoutSubmitTimeout)
	})

	t.Run("Auth bypass forced off in production", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("APP_ENV", "production")
		t.Setenv("AUTH_BYPASS", "true")

		cfg := LoadConfig()

		assert.False(t, cfg.AuthBypass)
	})
}
