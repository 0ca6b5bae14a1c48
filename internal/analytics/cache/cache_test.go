package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "padoca:snap:giro:pdv-1:84d", Key("giro", "pdv-1", "84d"))
	assert.Equal(t, "padoca:snap:giro:_fleet:84d", Key("giro", "", "84d"))
	assert.Equal(t, "pdv-1", ownerFromKey(Key("cadence", "pdv-1", "84d")))
	assert.Equal(t, "", ownerFromKey("unrelated:key"))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		key := Key("giro", "pdv-1", "84d")

		_, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, hit)

		require.NoError(t, c.Set(ctx, key, []byte(`{"giro":70}`)))

		value, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, []byte(`{"giro":70}`), value)
	})

	t.Run("expired entries miss", func(t *testing.T) {
		c := NewMemoryCache(-time.Second)
		key := Key("giro", "pdv-1", "84d")
		require.NoError(t, c.Set(ctx, key, []byte("x")))

		_, hit, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("invalidating a client drops its entries and fleet entries", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		clientKey := Key("cadence", "pdv-1", "84d")
		otherKey := Key("cadence", "pdv-2", "84d")
		fleetKey := Key("giro", "", "84d")

		require.NoError(t, c.Set(ctx, clientKey, []byte("a")))
		require.NoError(t, c.Set(ctx, otherKey, []byte("b")))
		require.NoError(t, c.Set(ctx, fleetKey, []byte("c")))

		require.NoError(t, c.Invalidate(ctx, "pdv-1"))

		_, hit, _ := c.Get(ctx, clientKey)
		assert.False(t, hit)
		_, hit, _ = c.Get(ctx, fleetKey)
		assert.False(t, hit)
		_, hit, _ = c.Get(ctx, otherKey)
		assert.True(t, hit, "unrelated client entries survive")
	})
}
