package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/errors"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockObjectAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockObjectAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockObjectAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockObjectAPI) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	return args.Get(0).(<-chan minio.ObjectInfo)
}

func newStore(api ObjectAPI, prefix string) *Mol2Store {
	return NewMol2Store(api, &Config{Endpoint: "localhost:9000", Prefix: prefix}, logging.NewNopLogger())
}

func TestPut(t *testing.T) {
	api := new(MockObjectAPI)
	body := strings.NewReader("@<TRIPOS>MOLECULE\nx\n")
	api.On("PutObject", mock.Anything, DefaultBucket, "uploads/x.mol2", body, int64(20),
		minio.PutObjectOptions{ContentType: ContentType}).
		Return(minio.UploadInfo{Bucket: DefaultBucket, Key: "uploads/x.mol2", Size: 20}, nil).Once()

	store := newStore(api, "uploads/")
	require.NoError(t, store.Put(context.Background(), "x.mol2", body, 20))
	api.AssertExpectations(t)
}

func TestPut_Errors(t *testing.T) {
	api := new(MockObjectAPI)
	store := newStore(api, "")

	err := store.Put(context.Background(), "x.txt", strings.NewReader(""), 0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidFileName))

	api.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, fmt.Errorf("quota exceeded")).Once()
	err = store.Put(context.Background(), "x.mol2", strings.NewReader(""), 0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageError))
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestOpen(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("StatObject", mock.Anything, DefaultBucket, "ethanol.mol2", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{Key: "ethanol.mol2", Size: 5}, nil).Once()
	api.On("GetObject", mock.Anything, DefaultBucket, "ethanol.mol2", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("hello")), nil).Once()

	rc, err := newStore(api, "").Open(context.Background(), "ethanol.mol2")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	api.AssertExpectations(t)
}

func TestOpen_NotFound(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("StatObject", mock.Anything, DefaultBucket, "missing.mol2", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}).Once()

	_, err := newStore(api, "").Open(context.Background(), "missing.mol2")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSceneNotFound))
	assert.True(t, errors.IsNotFound(err))
	api.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpen_StorageError(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("StatObject", mock.Anything, DefaultBucket, "x.mol2", mock.Anything).
		Return(minio.ObjectInfo{}, nil).Once()
	api.On("GetObject", mock.Anything, DefaultBucket, "x.mol2", mock.Anything).
		Return(nil, fmt.Errorf("connection reset")).Once()

	_, err := newStore(api, "").Open(context.Background(), "x.mol2")
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageError))

	_, err = newStore(api, "").Open(context.Background(), "../x.mol2")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidFileName))
}

func objects(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func TestList(t *testing.T) {
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	api := new(MockObjectAPI)
	api.On("ListObjects", mock.Anything, DefaultBucket, minio.ListObjectsOptions{Prefix: "up/e"}).
		Return(objects(
			minio.ObjectInfo{Key: "up/ethene.mol2", Size: 300, LastModified: modified},
			minio.ObjectInfo{Key: "up/ethanol.mol2", Size: 500, LastModified: modified},
			minio.ObjectInfo{Key: "up/extra/", Size: 0},
			minio.ObjectInfo{Key: "up/notes.txt", Size: 10},
		)).Once()

	files, err := newStore(api, "up/").List(context.Background(), "e")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "ethanol.mol2", files[0].Name)
	assert.Equal(t, int64(500), files[0].Size)
	assert.Equal(t, "ethene.mol2", files[1].Name)
	assert.True(t, modified.Equal(time.Time(files[1].LastModified)))
}

func TestList_Error(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("ListObjects", mock.Anything, DefaultBucket, mock.Anything).
		Return(objects(minio.ObjectInfo{Err: fmt.Errorf("access denied")})).Once()

	_, err := newStore(api, "").List(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeStorageError))
}
