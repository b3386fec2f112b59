package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/turtacn/molscene/pkg/types/scene"
)

// FilesClient manages MOL2 files kept in the server's object store.
type FilesClient struct {
	client *Client
}

// List returns the stored files whose names start with prefix.
func (f *FilesClient) List(ctx context.Context, prefix string) ([]scene.FileInfo, error) {
	var q url.Values
	if prefix != "" {
		q = url.Values{"prefix": {prefix}}
	}
	var files []scene.FileInfo
	if err := f.client.get(ctx, "/api/v1/files", q, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Put stores a MOL2 document under name.
func (f *FilesClient) Put(ctx context.Context, name string, r io.Reader) (*scene.FileInfo, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read mol2 source: %w", err)
	}
	var info scene.FileInfo
	err = f.client.do(ctx, request{
		method:      http.MethodPut,
		path:        "/api/v1/files/" + url.PathEscape(name),
		body:        body,
		contentType: Mol2ContentType,
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Scene builds the scene of a stored file.
func (f *FilesClient) Scene(ctx context.Context, name string) (*scene.Scene, error) {
	var sc scene.Scene
	if err := f.client.get(ctx, "/api/v1/files/"+url.PathEscape(name)+"/scene", nil, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
