package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Run("set variables override", func(t *testing.T) {
		t.Setenv("COURTBOOK_API_URL", "http://env/api")
		t.Setenv("COURTBOOK_REFRESH_TIMEOUT", "2s")
		t.Setenv("COURTBOOK_TOKEN_STORE", "redis")
		t.Setenv("COURTBOOK_METRICS_ADDR", ":9100")

		cfg := defaults()
		parseEnv(cfg)

		assert.Equal(t, "http://env/api", cfg.APIBaseURL)
		assert.Equal(t, 2*time.Second, cfg.RefreshTimeout)
		assert.Equal(t, StoreRedis, cfg.TokenStore)
		assert.Equal(t, ":9100", cfg.MetricsAddr)
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout, "unset variables keep their value")
	})

	t.Run("bad duration panics", func(t *testing.T) {
		t.Setenv("COURTBOOK_REQUEST_TIMEOUT", "soon")
		require.Panics(t, func() { parseEnv(defaults()) })
	})
}

func TestEnvUsage(t *testing.T) {
	u := EnvUsage()
	assert.Contains(t, u, "COURTBOOK_API_URL")
	assert.Contains(t, u, "COURTBOOK_TOKEN_STORE")
}
