package scene

import (
	"math"
	"strings"
	"time"

	"github.com/turtacn/molscene/internal/domain/alkane"
	"github.com/turtacn/molscene/internal/domain/geometry"
	"github.com/turtacn/molscene/pkg/errors"
)

// Render selects how atoms and bonds are drawn.
type Render string

const (
	RenderBallStick Render = "ball_stick"
	RenderBall      Render = "ball"
	RenderStick     Render = "stick"
)

// Viewer style constants.
const (
	AtomScaleBallStick  = 0.3
	AtomScaleBall       = 1.8
	DefaultBondDiameter = 0.07
)

// ParseRender accepts the three render names, case-insensitively.  An empty
// string selects RenderBallStick.
func ParseRender(s string) (Render, error) {
	switch Render(strings.ToLower(strings.TrimSpace(s))) {
	case "", RenderBallStick:
		return RenderBallStick, nil
	case RenderBall:
		return RenderBall, nil
	case RenderStick:
		return RenderStick, nil
	}
	return "", errors.New(errors.ErrCodeValidation, "unknown render style").WithDetail(s)
}

// atomScale is the drawn sphere radius for r; stick mode draws none.
func (r Render) atomScale() float64 {
	switch r {
	case RenderBall:
		return AtomScaleBall
	case RenderStick:
		return 0
	default:
		return AtomScaleBallStick
	}
}

// Options tunes scene assembly.  Zero fields take the defaults below.
type Options struct {
	BondLength           float64
	DoubleBondSeparation float64
	Framing              geometry.Framing
	FOVDegrees           float64
	Render               Render
	BondDiameter         float64
	MaxCarbons           uint
	MaxFileSize          int64
	CacheTTL             time.Duration
}

// Defaults.
const (
	DefaultFOVDegrees  = 45.0
	DefaultMaxCarbons  = 100
	DefaultMaxFileSize = 8 << 20
	DefaultCacheTTL    = 10 * time.Minute
)

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.BondLength <= 0 {
		o.BondLength = alkane.DefaultBondLength
	}
	if o.DoubleBondSeparation <= 0 {
		o.DoubleBondSeparation = geometry.DefaultDoubleBondSeparation
	}
	if o.FOVDegrees <= 0 {
		o.FOVDegrees = DefaultFOVDegrees
	}
	if o.Render == "" {
		o.Render = RenderBallStick
	}
	if o.BondDiameter <= 0 {
		o.BondDiameter = DefaultBondDiameter
	}
	if o.MaxCarbons == 0 {
		o.MaxCarbons = DefaultMaxCarbons
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	return o
}

// fovRadians converts FOVDegrees, rejecting anything outside (0°, 180°).
func fovRadians(deg float64) (float64, error) {
	rad := deg * math.Pi / 180
	if !geometry.ValidFOV(rad) {
		return 0, errors.Newf(errors.ErrCodeInvalidFieldOfView, "field of view must be between 0 and 180 degrees, got %g", deg)
	}
	return rad, nil
}
