package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/olivenet-iot/halikarnas-sandals-sub001/config"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs"
	"github.com/olivenet-iot/halikarnas-sandals-sub001/structs/tables"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisCtx    = context.Background()
)

// CacheService provides Redis caching functionality with connection pooling and retry logic
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

// getRedisClient returns a singleton Redis client with proper connection pooling
func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			PoolSize:        cfg.Cache.PoolSize,
			MinIdleConns:    cfg.Cache.MinIdleConns,
			MaxIdleConns:    cfg.Cache.MaxIdleConns,
			PoolTimeout:     cfg.Cache.PoolTimeout,
			ConnMaxIdleTime: cfg.Cache.IdleTimeout,

			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,

			MaxRetries:      cfg.Cache.MaxRetries,
			MinRetryBackoff: cfg.Cache.MinRetryBackoff,
			MaxRetryBackoff: cfg.Cache.MaxRetryBackoff,
		})
	})
	return redisClient
}

func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff retry logic
func (cs *CacheService) withRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableCacheError(err) {
			return err
		}

		maxBackoff := 2000 // max 2000ms = 2s
		base := 100        // 100ms base

		backoff := base * (1 << attempt) // exponential
		backoff = min(backoff, maxBackoff)

		// add jitter ±50%
		jitterBytes := make([]byte, 4)
		_, err = rand.Read(jitterBytes)
		if err != nil {
			time.Sleep(time.Duration(backoff) * time.Millisecond)
			continue
		}
		jitter := int(uint32(jitterBytes[0])<<24 | uint32(jitterBytes[1])<<16 | uint32(jitterBytes[2])<<8 | uint32(jitterBytes[3]))

		jitter = jitter % (backoff/2 + 1)
		backoffWithJitter := backoff/2 + jitter

		time.Sleep(time.Duration(backoffWithJitter) * time.Millisecond)
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableCacheError determines if an error is worth retrying
func isRetryableCacheError(err error) bool {
	if err == nil {
		return false
	}

	if err == redis.Nil {
		return false
	}

	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	return cs.withRetry(func() error {
		return cs.client.Set(redisCtx, key, value, ttl).Err()
	}, 3)
}

// Get retrieves a key with automatic retry logic
func (cs *CacheService) Get(key string) (string, error) {
	var result string

	err := cs.withRetry(func() error {
		val, err := cs.client.Get(redisCtx, key).Result()
		if err == redis.Nil {
			result = ""
			return nil // Don't retry on key not found
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)

	if err != nil {
		return "", err
	}

	return result, nil
}

// Delete removes a key with automatic retry logic
func (cs *CacheService) Delete(key string) error {
	return cs.withRetry(func() error {
		return cs.client.Del(redisCtx, key).Err()
	}, 3)
}

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var result int64
	err := cs.withRetry(func() error {
		val, err := cs.client.Incr(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(redisCtx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// RateLimitTTL returns the remaining window for an IP/endpoint counter.
func (cs *CacheService) RateLimitTTL(ip, endpoint string) (time.Duration, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var ttl time.Duration
	err := cs.withRetry(func() error {
		val, err := cs.client.TTL(redisCtx, key).Result()
		if err != nil {
			return err
		}
		ttl = val
		return nil
	}, 3)

	return ttl, err
}

// Ping tests the Redis connection
func (cs *CacheService) Ping() error {
	return cs.withRetry(func() error {
		return cs.client.Ping(redisCtx).Err()
	}, 3)
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ============================================================================
// Catalog Caching Methods
// ============================================================================

// GetProductList retrieves a cached product page for a filter signature
func (cs *CacheService) GetProductList(filterKey string, page, pageSize int) ([]tables.Product, error) {
	key := fmt.Sprintf("products:list:%s:page:%d:size:%d", filterKey, page, pageSize)

	products, err := getJSON[[]tables.Product](cs, key)
	if err != nil {
		cs.logger.Warn("Failed to get product list from cache", gecho.Field("error", err), gecho.Field("key", key))
		return nil, err
	}

	if products == nil {
		return nil, nil
	}

	return *products, nil
}

// SetProductList caches a product page for a filter signature
func (cs *CacheService) SetProductList(filterKey string, page, pageSize int, products []tables.Product) error {
	key := fmt.Sprintf("products:list:%s:page:%d:size:%d", filterKey, page, pageSize)
	return setJSON(cs, key, products, cs.getProductListTTL())
}

// GetProductByID retrieves a cached product by ID
func (cs *CacheService) GetProductByID(id string) (*tables.Product, error) {
	key := fmt.Sprintf("product:id:%s", id)

	product, err := getJSON[tables.Product](cs, key)
	if err != nil {
		cs.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}

	return product, nil
}

// SetProductByID caches a product by ID
func (cs *CacheService) SetProductByID(product *tables.Product) error {
	key := fmt.Sprintf("product:id:%s", product.ID.String())
	return setJSON(cs, key, product, cs.getProductListTTL())
}

// GetProductCount retrieves cached product count for a filter signature
func (cs *CacheService) GetProductCount(filterKey string) (*int, error) {
	key := fmt.Sprintf("products:count:%s", filterKey)

	count, err := getJSON[int](cs, key)
	if err != nil {
		cs.logger.Warn("Failed to get product count from cache", gecho.Field("error", err), gecho.Field("key", key))
		return nil, err
	}

	return count, nil
}

// SetProductCount caches a product count for a filter signature
func (cs *CacheService) SetProductCount(filterKey string, count int) error {
	key := fmt.Sprintf("products:count:%s", filterKey)
	return setJSON(cs, key, count, cs.getProductCountTTL())
}

// InvalidateProductCaches removes all catalog caches touching a product.
// Called after stock movements and catalog edits.
func (cs *CacheService) InvalidateProductCaches(productID uuid.UUID) error {
	if err := cs.Delete(fmt.Sprintf("product:id:%s", productID.String())); err != nil {
		cs.logger.Warn("Failed to delete product cache", gecho.Field("product_id", productID), gecho.Field("error", err))
	}

	if err := cs.DeletePattern("products:list:*"); err != nil {
		cs.logger.Warn("Failed to delete product list caches", gecho.Field("error", err))
		return err
	}

	if err := cs.DeletePattern("products:count:*"); err != nil {
		cs.logger.Warn("Failed to delete product count caches", gecho.Field("error", err))
		return err
	}

	return nil
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(pattern string) error {
	return cs.withRetry(func() error {
		var cursor uint64

		for {
			keys, nextCursor, err := cs.client.Scan(redisCtx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(redisCtx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}

		return nil
	}, 3)
}

func (cs *CacheService) getProductListTTL() time.Duration {
	if cs.config.Cache.ProductListTTL > 0 {
		return cs.config.Cache.ProductListTTL
	}
	return 5 * time.Minute
}

func (cs *CacheService) getProductCountTTL() time.Duration {
	if cs.config.Cache.ProductCountTTL > 0 {
		return cs.config.Cache.ProductCountTTL
	}
	return 10 * time.Minute
}

func setJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(key, data, ttl)
}

func getJSON[T any](cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	err = json.Unmarshal([]byte(val), &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
