package minio

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"

	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/domain/mol2"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/errors"
	"github.com/turtacn/molscene/pkg/types/common"
	scenetypes "github.com/turtacn/molscene/pkg/types/scene"
)

// ContentType is set on every stored object.
const ContentType = "chemical/x-mol2"

// Mol2Store keeps MOL2 files as flat objects under an optional key prefix.
type Mol2Store struct {
	api    ObjectAPI
	config *Config
	logger logging.Logger
}

var _ appscene.FileStore = (*Mol2Store)(nil)

// NewMol2Store wraps an ObjectAPI.  Connect is the usual entry point.
func NewMol2Store(api ObjectAPI, cfg *Config, log logging.Logger) *Mol2Store {
	applyDefaults(cfg)
	return &Mol2Store{api: api, config: cfg, logger: log.Named("mol2_store")}
}

func (s *Mol2Store) key(name string) string {
	return s.config.Prefix + name
}

// Put uploads a MOL2 file.  size may be -1 when unknown.
func (s *Mol2Store) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	if err := mol2.CheckFileName(name); err != nil {
		return err
	}
	info, err := s.api.PutObject(ctx, s.config.Bucket, s.key(name), r, size, minio.PutObjectOptions{
		ContentType: ContentType,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "upload failed").WithDetail(name)
	}
	s.logger.Debug("object stored",
		logging.String("bucket", info.Bucket),
		logging.String("key", info.Key),
		logging.Int64("size", info.Size))
	return nil
}

// Open returns a reader over a stored file; the caller closes it.  A missing
// object yields ErrCodeSceneNotFound.
func (s *Mol2Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := mol2.CheckFileName(name); err != nil {
		return nil, err
	}
	if _, err := s.api.StatObject(ctx, s.config.Bucket, s.key(name), minio.StatObjectOptions{}); err != nil {
		return nil, translate(err, name)
	}
	rc, err := s.api.GetObject(ctx, s.config.Bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err, name)
	}
	return rc, nil
}

// List returns the stored .mol2 files whose names start with prefix, sorted
// by name.
func (s *Mol2Store) List(ctx context.Context, prefix string) ([]scenetypes.FileInfo, error) {
	objects := s.api.ListObjects(ctx, s.config.Bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: false,
	})
	var files []scenetypes.FileInfo
	for obj := range objects {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageError, "list failed")
		}
		name := strings.TrimPrefix(obj.Key, s.config.Prefix)
		if mol2.CheckFileName(name) != nil {
			continue
		}
		files = append(files, scenetypes.FileInfo{
			Name:         name,
			Size:         obj.Size,
			LastModified: common.Timestamp(obj.LastModified.UTC()),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func translate(err error, name string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return errors.Wrap(err, errors.ErrCodeSceneNotFound, "file not found").WithDetail(name)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "download failed").WithDetail(name)
}
