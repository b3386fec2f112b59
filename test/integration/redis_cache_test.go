package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molscene/pkg/types/common"
	"github.com/turtacn/molscene/pkg/types/scene"
)

func TestRedisSceneCache_GetOrBuild(t *testing.T) {
	SkipIfNoIntegration(t)
	cache, _ := NewRedisCache(t)
	ctx := TestContext(t)

	var builds int32
	build := func(context.Context) (*scene.Scene, error) {
		atomic.AddInt32(&builds, 1)
		return &scene.Scene{ID: common.NewID(), Name: "propane", Formula: "C3H8", Source: scene.SourceAlkane}, nil
	}

	first, hit, err := cache.GetOrBuild(ctx, "alkane:3", time.Minute, build)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := cache.GetOrBuild(ctx, "alkane:3", time.Minute, build)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Atoms, second.Atoms)
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}

func TestRedisSceneCache_ConcurrentMisses(t *testing.T) {
	SkipIfNoIntegration(t)
	cache, _ := NewRedisCache(t)
	ctx := TestContext(t)

	var builds int32
	build := func(context.Context) (*scene.Scene, error) {
		atomic.AddInt32(&builds, 1)
		time.Sleep(50 * time.Millisecond)
		return &scene.Scene{ID: common.NewID(), Name: "decane"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := cache.GetOrBuild(ctx, "alkane:10", time.Minute, build)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}

func TestRedisSceneCache_DeleteByPrefix(t *testing.T) {
	SkipIfNoIntegration(t)
	cache, _ := NewRedisCache(t)
	ctx := TestContext(t)

	for _, key := range []string{"alkane:1", "alkane:2", "file:a.mol2"} {
		require.NoError(t, cache.Set(ctx, key, &scene.Scene{Name: key}, time.Minute))
	}
	n, err := cache.DeleteByPrefix(ctx, "alkane:")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := cache.Get(ctx, "file:a.mol2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "file:a.mol2", got.Name)
}
