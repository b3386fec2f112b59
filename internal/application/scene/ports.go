package scene

import (
	"context"
	"io"
	"time"

	scenetypes "github.com/turtacn/molscene/pkg/types/scene"
)

// BuildFunc produces a scene on a cache miss.
type BuildFunc = func(ctx context.Context) (*scenetypes.Scene, error)

// Cache stores assembled scenes by key.  GetOrBuild returns the cached value
// when present, otherwise runs build once per key and stores its result.  The
// bool reports a hit.
type Cache interface {
	GetOrBuild(ctx context.Context, key string, ttl time.Duration, build BuildFunc) (*scenetypes.Scene, bool, error)
}

// FileStore keeps uploaded MOL2 files.
type FileStore interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	List(ctx context.Context, prefix string) ([]scenetypes.FileInfo, error)
}

// Metrics receives scene-level measurements.
type Metrics interface {
	ObserveParse(status string, atoms int, elapsed time.Duration)
	IncAlkaneBuild()
	IncCacheHit()
	IncCacheMiss()
}

// Parse outcome labels passed to Metrics.ObserveParse.
const (
	ParseStatusOK    = "ok"
	ParseStatusError = "error"
)

type noopMetrics struct{}

func (noopMetrics) ObserveParse(string, int, time.Duration) {}
func (noopMetrics) IncAlkaneBuild()                         {}
func (noopMetrics) IncCacheHit()                            {}
func (noopMetrics) IncCacheMiss()                           {}
