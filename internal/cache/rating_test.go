package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingCacheNilClient(t *testing.T) {
	ctx := context.Background()
	c := NewRatingCache(nil)

	v, ok := c.Get(ctx, 1)
	assert.Nil(t, v)
	assert.False(t, ok)

	seven := 7
	assert.NotPanics(t, func() {
		c.Set(ctx, 1, &seven)
		c.Set(ctx, 2, nil)
		c.Invalidate(ctx, 1)
	})
}

func TestRatingCacheNilReceiver(t *testing.T) {
	ctx := context.Background()
	var c *RatingCache

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		c.Set(ctx, 1, nil)
		c.Invalidate(ctx, 1)
	})
}

func TestRatingKey(t *testing.T) {
	assert.Equal(t, "rating:title:42", ratingKey(42))
}
