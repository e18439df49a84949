package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shiftstock/internal/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type CacheService interface {
	// Current-stock caching
	GetCurrentStock(ctx context.Context, storeID string) ([]*models.CurrentStock, error)
	SetCurrentStock(ctx context.Context, storeID string, stock []*models.CurrentStock, ttl time.Duration) error
	DeleteCurrentStock(ctx context.Context, storeID string) error

	// Admin badge caching
	GetUnreadCounts(ctx context.Context, storeID string) (*models.UnreadCounts, error)
	SetUnreadCounts(ctx context.Context, storeID string, counts *models.UnreadCounts, ttl time.Duration) error
	DeleteUnreadCounts(ctx context.Context, storeID string) error

	// Change feed
	PublishChange(ctx context.Context, storeID, kind string) error
	Subscribe(ctx context.Context, storeID string) *redis.PubSub

	// Cache invalidation
	InvalidateStoreCache(ctx context.Context, storeID string) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both bare host:port and redis:// URLs.
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

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.WithError(pingErr).WithField("addr", parsedAddr).Warn("Redis ping failed on initialization")
	} else {
		log.Debug("Redis connection established successfully")
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetCurrentStock(ctx context.Context, storeID string) ([]*models.CurrentStock, error) {
	key := fmt.Sprintf("shiftstock:currentstock:%s", storeID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stock []*models.CurrentStock
	if err := json.Unmarshal(data, &stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *redisCacheService) SetCurrentStock(ctx context.Context, storeID string, stock []*models.CurrentStock, ttl time.Duration) error {
	key := fmt.Sprintf("shiftstock:currentstock:%s", storeID)
	data, err := json.Marshal(stock)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteCurrentStock(ctx context.Context, storeID string) error {
	key := fmt.Sprintf("shiftstock:currentstock:%s", storeID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetUnreadCounts(ctx context.Context, storeID string) (*models.UnreadCounts, error) {
	key := fmt.Sprintf("shiftstock:badges:%s", storeID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var counts models.UnreadCounts
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *redisCacheService) SetUnreadCounts(ctx context.Context, storeID string, counts *models.UnreadCounts, ttl time.Duration) error {
	key := fmt.Sprintf("shiftstock:badges:%s", storeID)
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteUnreadCounts(ctx context.Context, storeID string) error {
	key := fmt.Sprintf("shiftstock:badges:%s", storeID)
	return r.client.Del(ctx, key).Err()
}

// PublishChange pushes a change notification onto the store's channel so
// connected dashboards can refresh without polling.
func (r *redisCacheService) PublishChange(ctx context.Context, storeID, kind string) error {
	channel := fmt.Sprintf("shiftstock:changes:%s", storeID)
	payload, err := json.Marshal(map[string]string{
		"kind": kind,
		"at":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, payload).Err()
}

func (r *redisCacheService) Subscribe(ctx context.Context, storeID string) *redis.PubSub {
	channel := fmt.Sprintf("shiftstock:changes:%s", storeID)
	return r.client.Subscribe(ctx, channel)
}

func (r *redisCacheService) InvalidateStoreCache(ctx context.Context, storeID string) error {
	pattern := fmt.Sprintf("shiftstock:*:%s", storeID)
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("shiftstock:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
