package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/org-hierarchy-api/internal/dto"
	"github.com/redis/go-redis/v9"
)

const treeKey = "org:departments:tree"

// RedisCache — реализация Provider поверх Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache создаёт кэш поверх Redis по адресу addr
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client, ttl: ttl}
}

// Ping проверяет доступность Redis
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) GetTree(ctx context.Context) ([]dto.DepartmentTreeNode, bool) {
	data, err := c.client.Get(ctx, treeKey).Bytes()
	if err != nil {
		return nil, false
	}

	var tree []dto.DepartmentTreeNode
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false
	}
	return tree, true
}

func (c *RedisCache) SetTree(ctx context.Context, tree []dto.DepartmentTreeNode) {
	data, err := json.Marshal(tree)
	if err != nil {
		return
	}
	c.client.Set(ctx, treeKey, data, c.ttl)
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	c.client.Del(ctx, treeKey)
}

// Close закрывает подключение к Redis
func (c *RedisCache) Close() error {
	return c.client.Close()
}
