// internal/db/redis.go
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	ClusterMode bool
	Addresses   []string
	Password    string
	DB          int
	PoolSize    int
}

func (c RedisConfig) options() *redis.UniversalOptions {
	opts := &redis.UniversalOptions{
		Addrs:    c.Addresses,
		Password: c.Password,
		PoolSize: c.PoolSize,
	}
	if c.ClusterMode {
		// cluster clients reject a DB index
		return opts
	}
	opts.DB = c.DB
	// a single address with ClusterMode off must stay a plain client
	opts.Addrs = c.Addresses[:1]
	return opts
}

// NewRedis builds a cluster or single-node client and pings it
func NewRedis(ctx context.Context, cfg RedisConfig) (redis.UniversalClient, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New("no redis address provided")
	}

	var client redis.UniversalClient
	if cfg.ClusterMode {
		client = redis.NewClusterClient(cfg.options().Cluster())
	} else {
		client = redis.NewClient(cfg.options().Simple())
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %v: %w", cfg.Addresses, err)
	}
	return client, nil
}
