// Package geometry holds the pure math between a molecule and a camera:
// axis-aligned bounding boxes, framing distances and double-bond offsets.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/turtacn/molscene/internal/domain/molecule"
)

// BoundingBox is an axis-aligned box.  The zero-point box returned by
// Compute(nil) has every min at +Inf and every max at -Inf; check Empty before
// using it.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
	MinZ float64 `json:"min_z"`
	MaxZ float64 `json:"max_z"`
}

// EmptyBox returns the sentinel box that contains no points.
func EmptyBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		MinX: inf, MaxX: -inf,
		MinY: inf, MaxY: -inf,
		MinZ: inf, MaxZ: -inf,
	}
}

// Compute returns the tightest box around points in a single pass.  The
// result does not depend on point order.
func Compute(points []mgl64.Vec3) BoundingBox {
	bb := EmptyBox()
	for _, p := range points {
		bb = bb.Extend(p)
	}
	return bb
}

// ForMolecule boxes every atom of m.
func ForMolecule(m *molecule.Molecule) BoundingBox {
	return Compute(m.Positions())
}

// Empty reports whether the box contains no points.
func (b BoundingBox) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY || b.MinZ > b.MaxZ
}

// Extend returns the box grown to include p.
func (b BoundingBox) Extend(p mgl64.Vec3) BoundingBox {
	b.MinX = math.Min(b.MinX, p[0])
	b.MaxX = math.Max(b.MaxX, p[0])
	b.MinY = math.Min(b.MinY, p[1])
	b.MaxY = math.Max(b.MaxY, p[1])
	b.MinZ = math.Min(b.MinZ, p[2])
	b.MaxZ = math.Max(b.MaxZ, p[2])
	return b
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		MinX: math.Min(b.MinX, o.MinX), MaxX: math.Max(b.MaxX, o.MaxX),
		MinY: math.Min(b.MinY, o.MinY), MaxY: math.Max(b.MaxY, o.MaxY),
		MinZ: math.Min(b.MinZ, o.MinZ), MaxZ: math.Max(b.MaxZ, o.MaxZ),
	}
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.MinX && p[0] <= b.MaxX &&
		p[1] >= b.MinY && p[1] <= b.MaxY &&
		p[2] >= b.MinZ && p[2] <= b.MaxZ
}

// Min returns the minimum corner.
func (b BoundingBox) Min() mgl64.Vec3 { return mgl64.Vec3{b.MinX, b.MinY, b.MinZ} }

// Max returns the maximum corner.
func (b BoundingBox) Max() mgl64.Vec3 { return mgl64.Vec3{b.MaxX, b.MaxY, b.MaxZ} }

// Extents returns max - min per axis.
func (b BoundingBox) Extents() mgl64.Vec3 {
	return mgl64.Vec3{b.MaxX - b.MinX, b.MaxY - b.MinY, b.MaxZ - b.MinZ}
}

// Center returns min + extent/2 per axis.
func (b BoundingBox) Center() mgl64.Vec3 {
	return b.Min().Add(b.Extents().Mul(0.5))
}

// Diagonal returns the Euclidean length of the extents.
func (b BoundingBox) Diagonal() float64 {
	return b.Extents().Len()
}
