package weather

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// saveEvery is how many entries the file cache accumulates between saves.
const saveEvery = 30

// FileCache keeps weather in memory and persists it as a JSON object keyed by date.
type FileCache struct {
	path    string
	mu      sync.Mutex
	entries map[string]Weather
}

// NewFileCache loads path if it exists. A missing file starts an empty cache.
func NewFileCache(path string) (*FileCache, error) {
	c := &FileCache{path: path, entries: make(map[string]Weather)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read weather cache %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("failed to parse weather cache %s: %w", path, err)
	}
	return c, nil
}

func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *FileCache) Get(_ context.Context, key string) (Weather, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.entries[key]
	return w, ok, nil
}

func (c *FileCache) Set(_ context.Context, key string, w Weather) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = w
	if len(c.entries)%saveEvery == 0 {
		return c.save()
	}
	return nil
}

// Close writes the cache to disk.
func (c *FileCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save()
}

func (c *FileCache) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create weather cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode weather cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write weather cache %s: %w", c.path, err)
	}
	return nil
}

const redisKeyPrefix = "hotelsim:weather:"

// RedisCache shares weather between runs through Redis. Entries expire after ttl; zero keeps them forever.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects and pings the server.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisCacheFrom(client, ttl), nil
}

func NewRedisCacheFrom(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) (Weather, bool, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Weather{}, false, nil
	}
	if err != nil {
		return Weather{}, false, err
	}

	var w Weather
	if err := json.Unmarshal(data, &w); err != nil {
		return Weather{}, false, err
	}
	return w, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, w Weather) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+key, data, r.ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
