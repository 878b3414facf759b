package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()

	cache := NewRedisCache(config)
	t.Cleanup(func() { cache.Close() })

	return cache
}

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}

	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}

	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestRedis(t)

	type payload struct {
		Title string `json:"title"`
	}

	if err := cache.Set("task:1", payload{Title: "Pay bills"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got payload
	if err := cache.Get("task:1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Title != "Pay bills" {
		t.Errorf("Expected title 'Pay bills', got %q", got.Title)
	}
}

func TestGetMissingKeyIsCacheMiss(t *testing.T) {
	cache := setupTestRedis(t)

	var dest string
	err := cache.Get("missing", &dest)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	cache := setupTestRedis(t)

	if err := cache.Set("owner_tasks:user@example.com", []string{"a"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := cache.Delete("owner_tasks:user@example.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dest []string
	if err := cache.Get("owner_tasks:user@example.com", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestDeletePattern(t *testing.T) {
	cache := setupTestRedis(t)

	cache.Set("task:1", "a", time.Minute)
	cache.Set("task:2", "b", time.Minute)
	cache.Set("owner_tasks:x", "c", time.Minute)

	if err := cache.DeletePattern("task:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	var dest string
	if err := cache.Get("task:1", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected task:1 to be deleted, got %v", err)
	}
	if err := cache.Get("owner_tasks:x", &dest); err != nil {
		t.Errorf("Expected owner_tasks:x to survive, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	cache := setupTestRedis(t)

	if err := cache.Health(); err != nil {
		t.Errorf("Expected healthy cache, got %v", err)
	}
}
