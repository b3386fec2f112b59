package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/molscene/pkg/types/scene"
)

// Mol2ContentType is the media type MOL2 documents are sent and received as.
const Mol2ContentType = "chemical/x-mol2"

// ScenesClient builds scenes on the server.
type ScenesClient struct {
	client *Client
}

// FromMol2 uploads a MOL2 document and returns the scene built from it.
func (s *ScenesClient) FromMol2(ctx context.Context, r io.Reader) (*scene.Scene, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read mol2 source: %w", err)
	}
	var sc scene.Scene
	err = s.client.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/v1/scenes/mol2",
		body:        body,
		contentType: Mol2ContentType,
	}, &sc)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// Alkane returns the scene of the straight-chain alkane with n carbons.
func (s *ScenesClient) Alkane(ctx context.Context, n int) (*scene.Scene, error) {
	var sc scene.Scene
	if err := s.client.get(ctx, alkanePath(n), nil, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// AlkaneMol2 returns the alkane with n carbons as a MOL2 document.
func (s *ScenesClient) AlkaneMol2(ctx context.Context, n int) ([]byte, error) {
	var raw []byte
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   alkanePath(n),
		query:  url.Values{"format": {"mol2"}},
		accept: Mol2ContentType,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// FromSMILES returns the scene for a SMILES string the server understands.
func (s *ScenesClient) FromSMILES(ctx context.Context, smiles string) (*scene.Scene, error) {
	var sc scene.Scene
	if err := s.client.get(ctx, "/api/v1/scenes/smiles", url.Values{"q": {smiles}}, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Framing asks for both camera distances of a bounding box diagonal.  A zero
// fov lets the server use its configured field of view.
func (s *ScenesClient) Framing(ctx context.Context, diagonal, fovDegrees float64) (*scene.FramingResult, error) {
	q := url.Values{"diagonal": {strconv.FormatFloat(diagonal, 'g', -1, 64)}}
	if fovDegrees != 0 {
		q.Set("fov", strconv.FormatFloat(fovDegrees, 'g', -1, 64))
	}
	var res scene.FramingResult
	if err := s.client.get(ctx, "/api/v1/framing", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func alkanePath(n int) string {
	return "/api/v1/scenes/alkane/" + strconv.Itoa(n)
}
