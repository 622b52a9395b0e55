package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.PaymentGatewayTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("PGSQL_URL", "postgres://ledger@localhost/ledger")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("PAYMENT_GATEWAY_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Second, cfg.PaymentGatewayTimeout)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := LoadConfig()
	assert.Error(t, err)
}
