package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/pkg/errors"
)

// Framing selects how a camera distance is derived from a bounding box.
type Framing int

const (
	// FramingDirect backs the camera off by half the diagonal, ignoring FOV.
	FramingDirect Framing = iota
	// FramingFOV fits the diagonal exactly into the vertical field of view.
	FramingFOV
)

func (f Framing) String() string {
	switch f {
	case FramingDirect:
		return "direct"
	case FramingFOV:
		return "fov"
	default:
		return fmt.Sprintf("framing(%d)", int(f))
	}
}

// ParseFraming accepts "direct" or "fov" in any case.
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct":
		return FramingDirect, nil
	case "fov":
		return FramingFOV, nil
	}
	return 0, errors.Newf(errors.ErrCodeValidation, "unknown framing strategy %q", s)
}

// MarshalText encodes the strategy name.
func (f Framing) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText decodes a strategy name.
func (f *Framing) UnmarshalText(text []byte) error {
	v, err := ParseFraming(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// DirectDistance is half the box diagonal.
func DirectDistance(bb BoundingBox) float64 {
	return bb.Diagonal() / 2
}

// FOVDistance is the distance at which the box diagonal spans the vertical
// field of view fov, in radians.  fov must lie in (0, π); nothing is clamped.
func FOVDistance(bb BoundingBox, fov float64) float64 {
	return (bb.Diagonal() / 2) / math.Tan(fov/2)
}

// Distance dispatches on strategy.  fov is ignored for FramingDirect.
func Distance(bb BoundingBox, fov float64, strategy Framing) float64 {
	if strategy == FramingFOV {
		return FOVDistance(bb, fov)
	}
	return DirectDistance(bb)
}

// ValidFOV reports whether fov is inside the open interval (0, π).
func ValidFOV(fov float64) bool {
	return fov > 0 && fov < math.Pi
}

// CenterOffset is the translation that moves the box centre to the origin.
func CenterOffset(bb BoundingBox) mgl64.Vec3 {
	return bb.Center().Mul(-1)
}

// CameraPosition places a camera on the +Z axis through the box centre at
// the given distance, looking back at the centre.
func CameraPosition(bb BoundingBox, distance float64) mgl64.Vec3 {
	return bb.Center().Add(mgl64.Vec3{0, 0, distance})
}
