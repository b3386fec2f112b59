package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molscene/pkg/types/common"
)

const ethaneMol2 = `@<TRIPOS>MOLECULE
ethane
 8 7 0 0 0
SMALL
NO_CHARGES

@<TRIPOS>ATOM
      1 C1          0.0000    0.0000    0.0000 C.3       1 ETH1        0.0000
      2 C2          1.5400    0.0000    0.0000 C.3       1 ETH1        0.0000
      3 H1         -0.3600    1.0300    0.0000 H         1 ETH1        0.0000
      4 H2         -0.3600   -0.5100    0.8900 H         1 ETH1        0.0000
      5 H3         -0.3600   -0.5100   -0.8900 H         1 ETH1        0.0000
      6 H4          1.9000   -1.0300    0.0000 H         1 ETH1        0.0000
      7 H5          1.9000    0.5100    0.8900 H         1 ETH1        0.0000
      8 H6          1.9000    0.5100   -0.8900 H         1 ETH1        0.0000
@<TRIPOS>BOND
     1     1     2    1
     2     1     3    1
     3     1     4    1
     4     1     5    1
     5     2     6    1
     6     2     7    1
     7     2     8    1
`

// doRequest sends a request to the server under test.
func doRequest(t *testing.T, method, path, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, env.baseURL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-E2E-Test", "true")

	resp, err := env.httpClient.Do(req)
	require.NoError(t, err)
	t.Logf("%s %s -> %d", method, path, resp.StatusCode)
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}

// decodeEnvelope reads an API envelope and returns it with its data decoded
// into T.
func decodeEnvelope[T any](t *testing.T, resp *http.Response) common.APIResponse[T] {
	t.Helper()
	var env common.APIResponse[T]
	require.NoError(t, json.Unmarshal(readBody(t, resp), &env))
	return env
}

// memObjects is an in-memory minio bucket set.
type memObjects struct {
	mu      sync.Mutex
	buckets map[string]map[string]memObject
}

type memObject struct {
	data     []byte
	modified time.Time
}

func newMemObjects() *memObjects {
	return &memObjects{buckets: map[string]map[string]memObject{}}
}

func (m *memObjects) BucketExists(_ context.Context, bucket string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buckets[bucket]
	return ok, nil
}

func (m *memObjects) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket] = map[string]memObject{}
	return nil
}

func (m *memObjects) PutObject(_ context.Context, bucket, key string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket][key] = memObject{data: data, modified: time.Now().UTC()}
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (m *memObjects) StatObject(_ context.Context, bucket, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.buckets[bucket][key]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	}
	return minio.ObjectInfo{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified}, nil
}

func (m *memObjects) GetObject(_ context.Context, bucket, key string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.buckets[bucket][key]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *memObjects) ListObjects(_ context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	m.mu.Lock()
	var infos []minio.ObjectInfo
	for key, obj := range m.buckets[bucket] {
		if strings.HasPrefix(key, opts.Prefix) {
			infos = append(infos, minio.ObjectInfo{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	m.mu.Unlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })

	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}
