package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"housebroker/internal/application/services"
)

const listingTTL = 1 * time.Hour

// RedisListingCache is a read-through cache of listing projections keyed by
// listing id. It implements services.ListingCache.
type RedisListingCache struct {
	client *redis.Client
}

// NewRedisListingCache connects to Redis and verifies the connection.
func NewRedisListingCache(addr, password string, db int) (*RedisListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisListingCache{client: client}, nil
}

func (c *RedisListingCache) Get(ctx context.Context, id string) (*services.ListingResponse, error) {
	data, err := c.client.Get(ctx, "listing:"+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	var listing services.ListingResponse
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *RedisListingCache) Set(ctx context.Context, listing *services.ListingResponse) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "listing:"+listing.ID, data, listingTTL).Err()
}

func (c *RedisListingCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "listing:"+id).Err()
}

// Close releases the underlying Redis connection.
func (c *RedisListingCache) Close() error {
	return c.client.Close()
}
