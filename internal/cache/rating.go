// Package cache holds the per-title rating cache. Ratings are derived
// state, so the cache is only safe together with invalidation: review
// handlers drop the entry on every create, update and delete.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const ratingTTL = 10 * time.Minute

// RatingCache stores computed title ratings in redis. A nil client
// disables the cache entirely; every method degrades to a miss or no-op so
// callers never need to branch on availability.
type RatingCache struct {
	rdb *redis.Client
}

// NewRatingCache wraps a redis client, which may be nil.
func NewRatingCache(rdb *redis.Client) *RatingCache { return &RatingCache{rdb: rdb} }

func ratingKey(titleID uint64) string { return fmt.Sprintf("rating:title:%d", titleID) }

// Get returns the cached rating for a title. The middle return
// distinguishes a cached "no reviews" (nil, true) from a miss (nil, false).
func (c *RatingCache) Get(ctx context.Context, titleID uint64) (*int, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, ratingKey(titleID)).Result()
	if err != nil {
		return nil, false
	}
	if val == "none" {
		return nil, true
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return nil, false
	}
	return &n, true
}

// Set stores a computed rating; a nil rating is cached as "none" so
// review-less titles also avoid the aggregate query.
func (c *RatingCache) Set(ctx context.Context, titleID uint64, rating *int) {
	if c == nil || c.rdb == nil {
		return
	}
	val := "none"
	if rating != nil {
		val = strconv.Itoa(*rating)
	}
	c.rdb.Set(ctx, ratingKey(titleID), val, ratingTTL)
}

// Invalidate drops the cached rating after any review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID uint64) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, ratingKey(titleID))
}
