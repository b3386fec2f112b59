// Package scene provides the application service that turns MOL2 input,
// stored files and alkane requests into render-ready scenes.  HTTP handlers
// and the CLI talk to this package only.
package scene

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/internal/domain/alkane"
	"github.com/turtacn/molscene/internal/domain/geometry"
	"github.com/turtacn/molscene/internal/domain/mol2"
	"github.com/turtacn/molscene/internal/domain/molecule"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/errors"
	scenetypes "github.com/turtacn/molscene/pkg/types/scene"
)

// Service defines the interface for scene operations.
type Service interface {
	FromMol2(ctx context.Context, r io.Reader) (*scenetypes.Scene, error)
	FromStoredFile(ctx context.Context, name string) (*scenetypes.Scene, error)
	StoreFile(ctx context.Context, name string, r io.Reader) (*scenetypes.FileInfo, error)
	ListFiles(ctx context.Context, prefix string) ([]scenetypes.FileInfo, error)
	Alkane(ctx context.Context, carbons uint) (*scenetypes.Scene, error)
	AlkaneMol2(ctx context.Context, carbons uint, w io.Writer) error
	FromSMILES(ctx context.Context, smiles string) (*scenetypes.Scene, error)
	Framing(diagonal, fovDegrees float64) (*scenetypes.FramingResult, error)
}

// Config wires the service.  Cache, Files, Metrics and Counter are optional:
// without a cache every alkane is rebuilt, without a file store the file
// operations report ErrCodeFeatureDisabled.
type Config struct {
	Options Options
	Cache   Cache
	Files   FileStore
	Metrics Metrics
	Counter CarbonCounter
}

type serviceImpl struct {
	opts      Options
	assembler *assembler
	cache     Cache
	files     FileStore
	metrics   Metrics
	counter   CarbonCounter
	logger    logging.Logger
}

// NewService creates the scene service.  It fails only when the configured
// options are out of range.
func NewService(cfg Config, logger logging.Logger) (Service, error) {
	opts := cfg.Options.withDefaults()
	asm, err := newAssembler(opts)
	if err != nil {
		return nil, err
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.Counter == nil {
		cfg.Counter = LinearAlkaneCounter{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{
		opts:      opts,
		assembler: asm,
		cache:     cfg.Cache,
		files:     cfg.Files,
		metrics:   cfg.Metrics,
		counter:   cfg.Counter,
		logger:    logger.Named("scene"),
	}, nil
}

func (s *serviceImpl) FromMol2(ctx context.Context, r io.Reader) (*scenetypes.Scene, error) {
	m, err := s.parse(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.assembler.assemble(m, scenetypes.SourceMol2)
}

func (s *serviceImpl) parse(ctx context.Context, r io.Reader) (*molecule.Molecule, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "parse cancelled")
	}
	data, err := s.readLimited(r)
	if err != nil {
		return nil, err
	}
	return s.parseBytes(data)
}

// readLimited reads r whole and fails once more than MaxFileSize bytes
// arrive, so a parse never sees a truncated file.
func (s *serviceImpl) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.opts.MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIOFailure, "read mol2 input")
	}
	if int64(len(data)) > s.opts.MaxFileSize {
		return nil, errors.New(errors.ErrCodeValidation, "file too large").
			WithDetail(fmt.Sprintf("limit=%d", s.opts.MaxFileSize))
	}
	return data, nil
}

func (s *serviceImpl) parseBytes(data []byte) (*molecule.Molecule, error) {
	start := time.Now()
	m, err := mol2.ParseReader(bytes.NewReader(data))
	if err != nil {
		s.metrics.ObserveParse(ParseStatusError, 0, time.Since(start))
		s.logger.Warn("mol2 parse failed", logging.Err(err), logging.String("code", errors.GetCode(err).String()))
		return nil, err
	}
	s.metrics.ObserveParse(ParseStatusOK, m.AtomCount(), time.Since(start))
	s.logger.Debug("mol2 parsed",
		logging.String("name", m.Name()),
		logging.Int("atoms", m.AtomCount()),
		logging.Int("bonds", m.BondCount()),
		logging.Duration("elapsed", time.Since(start)))
	return m, nil
}

func (s *serviceImpl) FromStoredFile(ctx context.Context, name string) (*scenetypes.Scene, error) {
	if s.files == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "file storage is not configured")
	}
	if err := mol2.CheckFileName(name); err != nil {
		return nil, err
	}
	rc, err := s.files.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := s.parse(ctx, rc)
	if err != nil {
		return nil, err
	}
	return s.assembler.assemble(m, scenetypes.SourceFile)
}

// StoreFile parses the upload before storing it so that only readable files
// reach the bucket.
func (s *serviceImpl) StoreFile(ctx context.Context, name string, r io.Reader) (*scenetypes.FileInfo, error) {
	if s.files == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "file storage is not configured")
	}
	if err := mol2.CheckFileName(name); err != nil {
		return nil, err
	}
	data, err := s.readLimited(r)
	if err != nil {
		return nil, err
	}
	m, err := s.parseBytes(data)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.files.Put(ctx, name, bytes.NewReader(data), int64(len(data))); err != nil {
		s.logger.Error("store mol2 failed", logging.String("file", name), logging.Err(err))
		return nil, err
	}
	s.logger.Info("mol2 stored", logging.String("file", name), logging.Int("bytes", len(data)))
	return &scenetypes.FileInfo{Name: name, Size: int64(len(data))}, nil
}

func (s *serviceImpl) ListFiles(ctx context.Context, prefix string) ([]scenetypes.FileInfo, error) {
	if s.files == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "file storage is not configured")
	}
	return s.files.List(ctx, prefix)
}

func (s *serviceImpl) checkCarbons(carbons uint) error {
	if carbons == 0 || carbons > s.opts.MaxCarbons {
		return errors.Newf(errors.ErrCodeInvalidCarbonCount,
			"carbon count must be between 1 and %d, got %d", s.opts.MaxCarbons, carbons)
	}
	return nil
}

func (s *serviceImpl) Alkane(ctx context.Context, carbons uint) (*scenetypes.Scene, error) {
	if err := s.checkCarbons(carbons); err != nil {
		return nil, err
	}
	build := func(context.Context) (*scenetypes.Scene, error) {
		return s.buildAlkane(carbons)
	}
	if s.cache == nil {
		return build(ctx)
	}

	sc, hit, err := s.cache.GetOrBuild(ctx, s.alkaneKey(carbons), s.opts.CacheTTL, build)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeCacheError) {
			s.logger.Warn("scene cache unavailable, building directly", logging.Err(err))
			return build(ctx)
		}
		return nil, err
	}
	if hit {
		s.metrics.IncCacheHit()
	} else {
		s.metrics.IncCacheMiss()
	}
	return sc, nil
}

func (s *serviceImpl) alkaneKey(carbons uint) string {
	return fmt.Sprintf("alkane:%d:%s", carbons, strconv.FormatFloat(s.opts.BondLength, 'f', -1, 64))
}

func (s *serviceImpl) alkaneMolecule(carbons uint) *molecule.Molecule {
	tree := alkane.Build(carbons, alkane.Options{BondLength: s.opts.BondLength})
	return tree.ToMolecule(alkane.Name(carbons))
}

func (s *serviceImpl) buildAlkane(carbons uint) (*scenetypes.Scene, error) {
	start := time.Now()
	sc, err := s.assembler.assemble(s.alkaneMolecule(carbons), scenetypes.SourceAlkane)
	if err != nil {
		return nil, err
	}
	s.metrics.IncAlkaneBuild()
	s.logger.Debug("alkane built",
		logging.Uint("carbons", carbons),
		logging.Int("atoms", len(sc.Atoms)),
		logging.Duration("elapsed", time.Since(start)))
	return sc, nil
}

func (s *serviceImpl) AlkaneMol2(ctx context.Context, carbons uint, w io.Writer) error {
	if err := s.checkCarbons(carbons); err != nil {
		return err
	}
	if err := mol2.Write(w, s.alkaneMolecule(carbons)); err != nil {
		return errors.Wrap(err, errors.ErrCodeIOFailure, "write mol2")
	}
	return nil
}

func (s *serviceImpl) FromSMILES(ctx context.Context, smiles string) (*scenetypes.Scene, error) {
	n, err := s.counter.CountCarbons(smiles)
	if err != nil {
		return nil, err
	}
	sc, err := s.Alkane(ctx, n)
	if err != nil {
		return nil, err
	}
	out := *sc
	out.Source = scenetypes.SourceSMILES
	return &out, nil
}

// Framing answers "how far back should the camera sit" for a box of the
// given diagonal.  A zero fovDegrees uses the configured field of view.
func (s *serviceImpl) Framing(diagonal, fovDegrees float64) (*scenetypes.FramingResult, error) {
	if diagonal < 0 {
		return nil, errors.Newf(errors.ErrCodeValidation, "diagonal must not be negative, got %g", diagonal)
	}
	if fovDegrees == 0 {
		fovDegrees = s.opts.FOVDegrees
	}
	fov, err := fovRadians(fovDegrees)
	if err != nil {
		return nil, err
	}
	bb := geometry.Compute([]mgl64.Vec3{{0, 0, 0}, {diagonal, 0, 0}})
	return &scenetypes.FramingResult{
		Diagonal:   diagonal,
		FOVDegrees: fovDegrees,
		Direct:     geometry.DirectDistance(bb),
		FOV:        geometry.FOVDistance(bb, fov),
	}, nil
}
