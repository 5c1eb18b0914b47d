package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cargolink/cargolink-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	platformConfigKey = "platform:config:active"
	platformConfigTTL = 5 * time.Minute
	bookingEventsChan = "booking:updates"
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CachePlatformConfig stores the active platform configuration in Redis.
// No-op when Redis is not configured; config reads fall back to the database.
func CachePlatformConfig(ctx context.Context, cfg *models.PlatformConfig) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	return RedisClient.Set(ctx, platformConfigKey, data, platformConfigTTL).Err()
}

// GetCachedPlatformConfig retrieves the active platform configuration from
// Redis. Returns (nil, nil) on a cache miss or when Redis is unavailable.
func GetCachedPlatformConfig(ctx context.Context) (*models.PlatformConfig, error) {
	if RedisClient == nil {
		return nil, nil
	}

	data, err := RedisClient.Get(ctx, platformConfigKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg models.PlatformConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// InvalidatePlatformConfig drops the cached configuration after a write
func InvalidatePlatformConfig(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, platformConfigKey).Err()
}

// PublishBookingEvent publishes a booking status change to Redis pub/sub
func PublishBookingEvent(ctx context.Context, bookingID uint, reference string, status string, actingCompanyID uint) error {
	if RedisClient == nil {
		return nil
	}

	eventData := map[string]interface{}{
		"bookingId":       bookingID,
		"reference":       reference,
		"status":          status,
		"actingCompanyId": actingCompanyID,
		"timestamp":       time.Now().Unix(),
	}

	data, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, bookingEventsChan, data).Err()
}
