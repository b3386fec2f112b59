package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultDoubleBondSeparation is the offset of each stick from the bond axis.
const DefaultDoubleBondSeparation = 0.1

// parallelThreshold rejects a reference axis whose dot product with the bond
// vector is at or above this magnitude.
const parallelThreshold = 0.99

var referenceAxes = [3]mgl64.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Segment is a straight stick between two points.
type Segment struct {
	Start mgl64.Vec3 `json:"start"`
	End   mgl64.Vec3 `json:"end"`
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.End.Sub(s.Start).Len()
}

// Midpoint returns the centre of the segment.
func (s Segment) Midpoint() mgl64.Vec3 {
	return s.Start.Add(s.End).Mul(0.5)
}

// DoubleBondOffset returns the two sticks of a double bond between p1 and p2,
// each shifted by separation along a direction perpendicular to the bond.
//
// The perpendicular is bond × axis for the first of X, Y, Z whose dot product
// with the raw bond vector has magnitude below 0.99.  A zero-length bond has
// no direction, so both segments collapse onto the input points.
func DoubleBondOffset(p1, p2 mgl64.Vec3, separation float64) (Segment, Segment) {
	v := p2.Sub(p1)
	u := perpendicular(v)
	off := u.Mul(separation)
	return Segment{Start: p1.Add(off), End: p2.Add(off)},
		Segment{Start: p1.Sub(off), End: p2.Sub(off)}
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() == 0 {
		return mgl64.Vec3{}
	}
	axis := referenceAxes[2]
	for _, a := range referenceAxes {
		if math.Abs(v.Dot(a)) < parallelThreshold {
			axis = a
			break
		}
	}
	c := v.Cross(axis)
	if c.Len() == 0 {
		// A bond shorter than the threshold can pass the dot test while
		// lying on the chosen axis.
		for _, a := range referenceAxes {
			if c = v.Cross(a); c.Len() > 0 {
				break
			}
		}
	}
	return c.Normalize()
}
