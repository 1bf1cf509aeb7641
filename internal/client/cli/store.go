package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/courtbook/internal/client/config"
	"github.com/dmitrijs2005/courtbook/internal/client/repositories"
	"github.com/dmitrijs2005/courtbook/internal/client/tokens"
)

// openTokenStore builds the configured backend and returns its closer.
func openTokenStore(ctx context.Context, c *config.Config) (tokens.Store, func() error, error) {
	switch c.TokenStore {
	case config.StoreMemory:
		return tokens.NewMemoryStore(), func() error { return nil }, nil

	case config.StoreSQLite:
		db, err := repositories.InitDatabase(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("init database: %w", err)
		}
		return tokens.NewSQLiteStore(db), db.Close, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", c.RedisAddr, err)
		}
		return tokens.NewRedisStore(rdb, c.RedisPrefix), rdb.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown token store %q", c.TokenStore)
}
