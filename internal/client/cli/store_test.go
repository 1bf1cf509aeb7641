package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/courtbook/internal/client/config"
)

func storeConfig(store string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.TokenStore = store
	return c
}

func TestOpenTokenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  func(c *config.Config)
	}{
		{"memory", func(c *config.Config) { c.TokenStore = config.StoreMemory }},
		{"sqlite", func(c *config.Config) {
			c.TokenStore = config.StoreSQLite
			c.DatabaseDSN = filepath.Join(t.TempDir(), "tokens.db")
		}},
		{"redis", func(c *config.Config) {
			c.TokenStore = config.StoreRedis
			c.RedisAddr = mr.Addr()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := storeConfig("")
			tt.cfg(c)

			store, closeFn, err := openTokenStore(ctx, c)
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, closeFn()) })

			require.NoError(t, store.SetTokens(ctx, "a", "r"))
			access, err := store.AccessToken(ctx)
			require.NoError(t, err)
			assert.Equal(t, "a", access)
		})
	}
}

func TestOpenTokenStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := openTokenStore(ctx, storeConfig("etcd"))
	assert.ErrorContains(t, err, `unknown token store "etcd"`)

	mr := miniredis.RunT(t)
	c := storeConfig(config.StoreRedis)
	c.RedisAddr = mr.Addr()
	mr.Close()
	_, _, err = openTokenStore(ctx, c)
	assert.ErrorContains(t, err, "connect redis")
}
