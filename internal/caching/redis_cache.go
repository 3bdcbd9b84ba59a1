package caching

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stockzero/internal/models"
)

// RedisCache shares cached row sets across processes. Entries are JSON, so
// numeric values come back as float64; readers coerce on scan.
type RedisCache struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

func NewRedisCache(addr, password string, db int, log *zap.SugaredLogger) *RedisCache {
	// Accept redis://host:port style addresses as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warnw("redis ping failed on initialization", "addr", parsedAddr, "error", err)
	}

	return &RedisCache{client: client, log: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.RowSet, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warnw("redis get failed", "error", err)
		}
		return nil, false
	}

	var rs models.RowSet
	if err := json.Unmarshal(data, &rs); err != nil {
		c.log.Warnw("cached row set undecodable, treating as miss", "error", err)
		return nil, false
	}
	return &rs, true
}

func (c *RedisCache) Set(ctx context.Context, key string, rows *models.RowSet, ttl time.Duration) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
