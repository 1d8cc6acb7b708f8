package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// defaultOperationTimeout is the timeout for individual Redis operations
	defaultOperationTimeout = 5 * time.Second

	imageFilenamesPrefix = "images:filenames:"
)

var (
	ErrCacheDisabled = errors.New("cache disabled")
	ErrCacheMiss     = errors.New("key not found")
)

type Cache struct {
	client  *redis.Client
	enabled bool
}

func NewCache(addr string, enable bool) (*Cache, error) {
	if !enable {
		return &Cache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:  client,
		enabled: true,
	}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// operationContext bounds a Redis call by the caller's context and the default timeout
func (c *Cache) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, defaultOperationTimeout)
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, expiration).Err()
}

func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	} else if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}

	ctx, cancel := c.operationContext(ctx)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// CacheImageFilenames stores the index response for keyword.
func (c *Cache) CacheImageFilenames(ctx context.Context, keyword string, filenames []string, ttl time.Duration) error {
	return c.Set(ctx, imageFilenamesPrefix+keyword, filenames, ttl)
}

func (c *Cache) GetCachedImageFilenames(ctx context.Context, keyword string) ([]string, error) {
	var filenames []string
	if err := c.Get(ctx, imageFilenamesPrefix+keyword, &filenames); err != nil {
		return nil, err
	}
	return filenames, nil
}
