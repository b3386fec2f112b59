package redis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/errors"
	scenetypes "github.com/turtacn/molscene/pkg/types/scene"
)

type SceneCacheTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	cache *SceneCache
}

func (s *SceneCacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client, err := NewClient(&Config{Addr: s.mr.Addr()}, logging.NewNopLogger())
	s.Require().NoError(err)
	s.T().Cleanup(func() { client.Close() })
	s.cache = NewSceneCache(client, logging.NewNopLogger(), WithPrefix("test:"))
}

func propane() *scenetypes.Scene {
	return &scenetypes.Scene{
		ID:      "550e8400-e29b-41d4-a716-446655440000",
		Name:    "propane",
		Formula: "C3H8",
		Source:  scenetypes.SourceAlkane,
		Atoms:   []scenetypes.Atom{{ID: 1, Element: "C", Position: scenetypes.Vec3{0, 0, 0}}},
		Bonds:   []scenetypes.Bond{},
	}
}

func (s *SceneCacheTestSuite) TestSetThenGet() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "alkane:3:0.6", propane(), time.Minute))
	s.True(s.mr.Exists("test:alkane:3:0.6"))

	got, err := s.cache.Get(ctx, "alkane:3:0.6")
	s.Require().NoError(err)
	s.Equal("propane", got.Name)
	s.Equal(scenetypes.Vec3{0, 0, 0}, got.Atoms[0].Position)
}

func (s *SceneCacheTestSuite) TestGet_Miss() {
	_, err := s.cache.Get(context.Background(), "nope")
	s.True(errors.Is(err, ErrCacheMiss))
}

func (s *SceneCacheTestSuite) TestGet_CorruptEntryIsMiss() {
	s.Require().NoError(s.mr.Set("test:bad", "{not json"))
	_, err := s.cache.Get(context.Background(), "bad")
	s.True(errors.Is(err, ErrCacheMiss))
}

func (s *SceneCacheTestSuite) TestTTLIsJittered() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, "k", propane(), 100*time.Second))
	ttl := s.mr.TTL("test:k")
	s.GreaterOrEqual(ttl, 90*time.Second)
	s.LessOrEqual(ttl, 110*time.Second)

	s.Require().NoError(s.cache.Set(ctx, "forever", propane(), 0))
	s.Zero(s.mr.TTL("test:forever"))
}

func (s *SceneCacheTestSuite) TestGetOrBuild_MissThenHit() {
	ctx := context.Background()
	var builds int32
	build := func(context.Context) (*scenetypes.Scene, error) {
		atomic.AddInt32(&builds, 1)
		return propane(), nil
	}

	got, hit, err := s.cache.GetOrBuild(ctx, "alkane:3:0.6", time.Minute, build)
	s.Require().NoError(err)
	s.False(hit)
	s.Equal("propane", got.Name)

	again, hit, err := s.cache.GetOrBuild(ctx, "alkane:3:0.6", time.Minute, build)
	s.Require().NoError(err)
	s.True(hit)
	s.Equal("C3H8", again.Formula)
	s.Equal(int32(1), atomic.LoadInt32(&builds))
	s.NotEqual(got.ID, again.ID)
	s.NoError(again.ID.Validate())
	s.Equal(got.Atoms, again.Atoms)
}

func (s *SceneCacheTestSuite) TestGetOrBuild_CallersOwnTheirScene() {
	ctx := context.Background()
	build := func(context.Context) (*scenetypes.Scene, error) { return propane(), nil }

	first, _, err := s.cache.GetOrBuild(ctx, "owned", time.Minute, build)
	s.Require().NoError(err)
	first.Atoms[0].Element = "X"
	first.Name = "mutated"

	second, hit, err := s.cache.GetOrBuild(ctx, "owned", time.Minute, build)
	s.Require().NoError(err)
	s.True(hit)
	s.Equal("propane", second.Name)
	s.Equal("C", second.Atoms[0].Element)
}

func (s *SceneCacheTestSuite) TestGetOrBuild_BuildErrorNotCached() {
	ctx := context.Background()
	boom := errors.New(errors.ErrCodeInvalidCarbonCount, "boom")
	_, _, err := s.cache.GetOrBuild(ctx, "k", time.Minute, func(context.Context) (*scenetypes.Scene, error) {
		return nil, boom
	})
	s.True(errors.IsCode(err, errors.ErrCodeInvalidCarbonCount))
	s.False(s.mr.Exists("test:k"))
}

func (s *SceneCacheTestSuite) TestGetOrBuild_CollapsesConcurrentMisses() {
	ctx := context.Background()
	var builds int32
	release := make(chan struct{})
	build := func(context.Context) (*scenetypes.Scene, error) {
		atomic.AddInt32(&builds, 1)
		<-release
		return propane(), nil
	}

	results := make([]*scenetypes.Scene, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, _, err := s.cache.GetOrBuild(ctx, "shared", time.Minute, build)
			assert.NoError(s.T(), err)
			results[i] = got
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	// late arrivals may find the stored entry; none may trigger a second build
	s.Equal(int32(1), atomic.LoadInt32(&builds))

	ids := make(map[string]bool)
	for _, r := range results {
		s.Require().NotNil(r)
		ids[string(r.ID)] = true
		for _, other := range results {
			if r != other {
				s.NotSame(&r.Atoms[0], &other.Atoms[0])
			}
		}
	}
	s.Len(ids, len(results))
}

func (s *SceneCacheTestSuite) TestDeleteByPrefix() {
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		s.Require().NoError(s.cache.Set(ctx, fmt.Sprintf("alkane:%d:0.6", i), propane(), time.Minute))
	}
	s.Require().NoError(s.cache.Set(ctx, "other", propane(), time.Minute))

	n, err := s.cache.DeleteByPrefix(ctx, "alkane:")
	s.Require().NoError(err)
	s.Equal(int64(5), n)
	s.True(s.mr.Exists("test:other"))
	s.NoError(s.cache.Ping(ctx))
}

func TestSceneCacheTestSuite(t *testing.T) {
	suite.Run(t, new(SceneCacheTestSuite))
}

func TestSceneCache_RedisErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := newClient(db, &Config{}, logging.NewNopLogger())
	cache := NewSceneCache(client, logging.NewNopLogger())
	ctx := context.Background()

	mock.ExpectGet(DefaultKeyPrefix + "alkane:2:0.6").SetErr(fmt.Errorf("connection reset"))
	called := false
	_, _, err := cache.GetOrBuild(ctx, "alkane:2:0.6", time.Minute, func(context.Context) (*scenetypes.Scene, error) {
		called = true
		return propane(), nil
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))
	assert.False(t, called)

	mock.ExpectScan(0, DefaultKeyPrefix+"*", 100).SetErr(fmt.Errorf("connection reset"))
	_, err = cache.DeleteByPrefix(ctx, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheError))

	assert.NoError(t, mock.ExpectationsWereMet())
}
