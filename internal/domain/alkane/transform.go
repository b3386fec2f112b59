package alkane

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid-body transform: rotate, then translate.
type Transform struct {
	Rotation    mgl64.Quat
	Translation mgl64.Vec3
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// Apply maps a point from the local space into the parent space.
func (t Transform) Apply(v mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(v).Add(t.Translation)
}

// Compose returns parent × local, the transform that first applies local and
// then parent.
func Compose(parent, local Transform) Transform {
	return Transform{
		Rotation:    parent.Rotation.Mul(local.Rotation).Normalize(),
		Translation: parent.Apply(local.Translation),
	}
}

func rotX(rad float64) mgl64.Quat { return mgl64.QuatRotate(rad, mgl64.Vec3{1, 0, 0}) }
func rotY(rad float64) mgl64.Quat { return mgl64.QuatRotate(rad, mgl64.Vec3{0, 1, 0}) }
func rotZ(rad float64) mgl64.Quat { return mgl64.QuatRotate(rad, mgl64.Vec3{0, 0, 1}) }

// eulerXYZ builds Rx(x)·Ry(y)·Rz(z).
func eulerXYZ(x, y, z float64) mgl64.Quat {
	return rotX(x).Mul(rotY(y)).Mul(rotZ(z))
}
