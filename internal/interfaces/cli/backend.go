package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/turtacn/molscene/internal/app"
	appscene "github.com/turtacn/molscene/internal/application/scene"
	"github.com/turtacn/molscene/internal/config"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/internal/infrastructure/storage/minio"
	"github.com/turtacn/molscene/pkg/client"
	"github.com/turtacn/molscene/pkg/types/scene"
)

// Backend performs scene operations for the commands, either in-process or
// against a running apiserver.
type Backend interface {
	FromMol2(ctx context.Context, r io.Reader) (*scene.Scene, error)
	Alkane(ctx context.Context, carbons uint) (*scene.Scene, error)
	AlkaneMol2(ctx context.Context, carbons uint, w io.Writer) error
	FromSMILES(ctx context.Context, smiles string) (*scene.Scene, error)
	Framing(ctx context.Context, diagonal, fovDegrees float64) (*scene.FramingResult, error)
	ListFiles(ctx context.Context, prefix string) ([]scene.FileInfo, error)
	StoreFile(ctx context.Context, name string, r io.Reader) (*scene.FileInfo, error)
	FileScene(ctx context.Context, name string) (*scene.Scene, error)
}

// localBackend runs the scene service in-process.  The service, and the
// MinIO connection when one is configured, are created on first use.
type localBackend struct {
	cfg    *config.Config
	logger logging.Logger

	once sync.Once
	svc  appscene.Service
	err  error
}

func newLocalBackend(cfg *config.Config, logger logging.Logger) *localBackend {
	return &localBackend{cfg: cfg, logger: logger}
}

func (b *localBackend) service() (appscene.Service, error) {
	b.once.Do(func() {
		backends := &app.Backends{}
		if b.cfg.MinIO.Enabled() {
			store, err := minio.Connect(&b.cfg.MinIO, b.logger)
			if err != nil {
				b.err = err
				return
			}
			backends.Files = store
		}
		b.svc, b.err = app.NewService(b.cfg, backends, nil, b.logger)
	})
	return b.svc, b.err
}

func (b *localBackend) FromMol2(ctx context.Context, r io.Reader) (*scene.Scene, error) {
	svc, err := b.service()
	if err != nil {
		return nil, err
	}
	return svc.FromMol2(ctx, r)
}

func (b *localBackend) Alkane(ctx context.Context, carbons uint) (*scene.Scene, error) {
	svc, err := b.service()
	if err != nil {
		return nil, err
	}
	return svc.Alkane(ctx, carbons)
}

func (b *localBackend) AlkaneMol2(ctx context.Context, carbons uint, w io.Writer) error {
	svc, err := b.service()
	if err != nil {
		return err
	}
	return svc.AlkaneMol2(ctx, carbons, w)
}

func (b *localBackend) FromSMILES(ctx context.Context, smiles string) (*scene.Scene, error) {
	svc, err := b.service()
	if err != nil {
		return nil, err
	}
	return svc.FromSMILES(ctx, smiles)
}

func (b *localBackend) Framing(_ context.Context, diagonal, fovDegrees float64) (*scene.FramingResult, error) {
	svc, err := b.service()
	if err != nil {
		return nil, err
	}
	return svc.Framing(diagonal, fovDegrees)
}

func (b *localBackend) ListFiles(ctx context.Context, prefix string) ([]scene.FileInfo, error) {
	svc, err := b.service()
	if err != nil {
		return nil, err
	}
	return svc.ListFiles(ctx, prefix)
}

func (b *localBackend) StoreFile(ctx context.Context, name string, r io.Reader) (*scene.FileInfo, error) {
	svc, err := b.service()
	if err != nil {
		return nil, err
	}
	return svc.StoreFile(ctx, name, r)
}

func (b *localBackend) FileScene(ctx context.Context, name string) (*scene.Scene, error) {
	svc, err := b.service()
	if err != nil {
		return nil, err
	}
	return svc.FromStoredFile(ctx, name)
}

// remoteBackend forwards every call to an apiserver.
type remoteBackend struct {
	client *client.Client
}

func (b remoteBackend) FromMol2(ctx context.Context, r io.Reader) (*scene.Scene, error) {
	return b.client.Scenes().FromMol2(ctx, r)
}

func (b remoteBackend) Alkane(ctx context.Context, carbons uint) (*scene.Scene, error) {
	return b.client.Scenes().Alkane(ctx, int(carbons))
}

func (b remoteBackend) AlkaneMol2(ctx context.Context, carbons uint, w io.Writer) error {
	doc, err := b.client.Scenes().AlkaneMol2(ctx, int(carbons))
	if err != nil {
		return err
	}
	_, err = w.Write(doc)
	return err
}

func (b remoteBackend) FromSMILES(ctx context.Context, smiles string) (*scene.Scene, error) {
	return b.client.Scenes().FromSMILES(ctx, smiles)
}

func (b remoteBackend) Framing(ctx context.Context, diagonal, fovDegrees float64) (*scene.FramingResult, error) {
	return b.client.Scenes().Framing(ctx, diagonal, fovDegrees)
}

func (b remoteBackend) ListFiles(ctx context.Context, prefix string) ([]scene.FileInfo, error) {
	return b.client.Files().List(ctx, prefix)
}

func (b remoteBackend) StoreFile(ctx context.Context, name string, r io.Reader) (*scene.FileInfo, error) {
	return b.client.Files().Put(ctx, name, r)
}

func (b remoteBackend) FileScene(ctx context.Context, name string) (*scene.Scene, error) {
	return b.client.Files().Scene(ctx, name)
}

// clientLogger adapts logging.Logger to the SDK's printf-style Logger.
type clientLogger struct{ l logging.Logger }

func (c clientLogger) Debugf(format string, args ...interface{}) {
	c.l.Debug(fmt.Sprintf(format, args...))
}
func (c clientLogger) Infof(format string, args ...interface{}) {
	c.l.Info(fmt.Sprintf(format, args...))
}
func (c clientLogger) Errorf(format string, args ...interface{}) {
	c.l.Error(fmt.Sprintf(format, args...))
}
