package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client defines the interface for cache and event fan-out operations.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel string, payload interface{}) error
	Close() error
}

// RedisClient is a wrapper around the Redis client.
type RedisClient struct {
	client  *redis.Client
	enabled bool
}

// NewRedisClient creates a new Redis cache client. An empty addr yields a
// disabled client whose writes are silently skipped.
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	if addr == "" {
		return &RedisClient{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client, enabled: true}, nil
}

// Get retrieves a value from cache.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	if !r.enabled {
		return "", fmt.Errorf("cache not enabled")
	}

	return r.client.Get(ctx, key).Result()
}

// Set stores a value in cache with expiration.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if !r.enabled {
		return nil
	}

	return r.client.Set(ctx, key, value, expiration).Err()
}

// Delete removes keys from cache.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if !r.enabled || len(keys) == 0 {
		return nil
	}

	return r.client.Del(ctx, keys...).Err()
}

// Publish fans a JSON-encoded event out on a channel for other processes.
func (r *RedisClient) Publish(ctx context.Context, channel string, payload interface{}) error {
	if !r.enabled {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return r.client.Publish(ctx, channel, data).Err()
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	if !r.enabled {
		return nil
	}

	return r.client.Close()
}

// MemoryClient is an in-memory Client for development and tests.
type MemoryClient struct {
	mu    sync.RWMutex
	store map[string]memoryItem
}

type memoryItem struct {
	value      string
	expiration time.Time
}

// NewMemoryClient creates an in-memory cache client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{store: make(map[string]memoryItem)}
}

// Get retrieves a value from the memory cache.
func (m *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	item, exists := m.store[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("key not found")
	}

	if time.Now().After(item.expiration) {
		m.mu.Lock()
		delete(m.store, key)
		m.mu.Unlock()
		return "", fmt.Errorf("key expired")
	}

	return item.value, nil
}

// Set stores a value in the memory cache.
func (m *MemoryClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var strValue string
	switch v := value.(type) {
	case string:
		strValue = v
	case []byte:
		strValue = string(v)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		strValue = string(data)
	}

	exp := time.Now().Add(expiration)
	if expiration == 0 {
		exp = time.Now().Add(24 * time.Hour)
	}

	m.mu.Lock()
	m.store[key] = memoryItem{value: strValue, expiration: exp}
	m.mu.Unlock()

	return nil
}

// Delete removes keys from the memory cache.
func (m *MemoryClient) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.store, key)
	}
	m.mu.Unlock()
	return nil
}

// Publish is a no-op for the memory client.
func (m *MemoryClient) Publish(ctx context.Context, channel string, payload interface{}) error {
	return nil
}

// Close clears the memory cache.
func (m *MemoryClient) Close() error {
	m.mu.Lock()
	m.store = make(map[string]memoryItem)
	m.mu.Unlock()
	return nil
}
