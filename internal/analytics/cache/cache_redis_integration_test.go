//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"padoca/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite

	rc    *containers.RedisContainer
	cache *RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())
	s.cache = NewRedisCache(s.rc.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	key := Key("giro", "pdv-1", "84d")

	_, hit, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.False(hit)

	s.Require().NoError(s.cache.Set(ctx, key, []byte(`{"giro_semanal":70}`)))

	value, hit, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.True(hit)
	s.Equal([]byte(`{"giro_semanal":70}`), value)
}

func (s *RedisCacheSuite) TestTTLExpiry() {
	ctx := context.Background()
	short := NewRedisCache(s.rc.Client, 100*time.Millisecond)
	key := Key("giro", "pdv-1", "84d")

	s.Require().NoError(short.Set(ctx, key, []byte("x")))
	time.Sleep(200 * time.Millisecond)

	_, hit, err := short.Get(ctx, key)
	s.Require().NoError(err)
	s.False(hit)
}

func (s *RedisCacheSuite) TestInvalidate() {
	ctx := context.Background()
	clientKey := Key("cadence", "pdv-1", "84d")
	otherKey := Key("cadence", "pdv-2", "84d")
	fleetKey := Key("giro", "", "84d")

	s.Require().NoError(s.cache.Set(ctx, clientKey, []byte("a")))
	s.Require().NoError(s.cache.Set(ctx, otherKey, []byte("b")))
	s.Require().NoError(s.cache.Set(ctx, fleetKey, []byte("c")))

	s.Require().NoError(s.cache.Invalidate(ctx, "pdv-1"))

	_, hit, err := s.cache.Get(ctx, clientKey)
	s.Require().NoError(err)
	s.False(hit)

	_, hit, err = s.cache.Get(ctx, fleetKey)
	s.Require().NoError(err)
	s.False(hit)

	_, hit, err = s.cache.Get(ctx, otherKey)
	s.Require().NoError(err)
	s.True(hit, "unrelated client entries survive")
}
