package store

import (
	"context"
	"fmt"

	"filmleads_backend/platform/config"
	"filmleads_backend/platform/db"

	"github.com/redis/go-redis/v9"
)

// Open connects the backend selected by cfg and prepares its schema.
// The returned func releases the connection.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, func(), error) {
	noop := func() {}

	switch cfg.GetStoreDriver() {
	case config.DriverMemory:
		return NewMemory(), noop, nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.GetSQLitePath())
		if err != nil {
			return nil, noop, err
		}
		if err := db.MigrateSQLite(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return NewSQLite(conn, cfg.GetStoreKey()), func() { conn.Close() }, nil

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return nil, noop, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return NewPostgres(pool, cfg.GetStoreKey()), pool.Close, nil

	case config.DriverRedis:
		opt, err := redis.ParseURL(cfg.GetRedisURL())
		if err != nil {
			return nil, noop, fmt.Errorf("parsing redis url: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("connecting to redis: %w", err)
		}
		return NewRedis(client, cfg.GetStoreKey()), func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.GetStoreDriver())
	}
}
