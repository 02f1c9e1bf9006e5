package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"homevistaBack/internal/models"
)

// GeocodeCache keeps resolved geocodes in Redis so repeated searches for
// the same city do not burn provider quota.
type GeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGeocodeCache creates a cache with the given entry lifetime.
func NewGeocodeCache(rdb *redis.Client, ttl time.Duration) *GeocodeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &GeocodeCache{rdb: rdb, ttl: ttl}
}

func cacheKey(query string) string {
	// normalize so "Austin, TX" and "austin,tx" share an entry
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	return fmt.Sprintf("geocode:%s", normalized)
}

// Get returns the cached result for query, or ok=false on a miss. Cache
// errors are reported as misses so a degraded Redis never blocks a search.
func (c *GeocodeCache) Get(ctx context.Context, query string) (models.GeocodeResult, bool) {
	data, err := c.rdb.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		return models.GeocodeResult{}, false
	}
	var result models.GeocodeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.GeocodeResult{}, false
	}
	return result, true
}

func (c *GeocodeCache) Set(ctx context.Context, query string, result models.GeocodeResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(query), data, c.ttl).Err()
}
