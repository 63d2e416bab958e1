package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ArrivalThreshold is the remaining path distance under which a mover
	// counts as arrived.
	ArrivalThreshold = 0.5

	// epsilonNormalSqr matches the cutoff used for angle and look rotation
	// math on near-zero vectors.
	epsilonNormalSqr = 1e-15
)

var (
	// Up is the world up axis. Rotations about it keep pitch unchanged.
	Up = mgl64.Vec3{0, 1, 0}
	// ForwardAxis is the local forward axis of an identity rotation.
	ForwardAxis = mgl64.Vec3{0, 0, 1}
)

// Clamp01 clamps t into [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// Near reports whether a and b are within tol of each other. The tolerance
// is absolute so components at zero compare like any other.
func Near(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Normalize returns v scaled to unit length, or the zero vector when v is
// too short to have a direction.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l*l < epsilonNormalSqr {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Angle returns the unsigned angle in degrees between from and to. Zero
// length inputs yield 0.
func Angle(from, to mgl64.Vec3) float64 {
	denom := math.Sqrt(from.Dot(from) * to.Dot(to))
	if denom < epsilonNormalSqr {
		return 0
	}
	dot := from.Dot(to) / denom
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return mgl64.RadToDeg(math.Acos(dot))
}

// Forward returns the world direction the rotation q faces.
func Forward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(ForwardAxis)
}

// YawRotation returns a rotation of deg degrees about the world up axis.
func YawRotation(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), Up)
}

// LookRotation returns the rotation whose forward axis points along dir with
// world up kept upright. ok is false when dir has no length.
func LookRotation(dir mgl64.Vec3) (q mgl64.Quat, ok bool) {
	if dir.Dot(dir) < epsilonNormalSqr {
		return mgl64.QuatIdent(), false
	}
	horiz := math.Hypot(dir.X(), dir.Z())
	yaw := math.Atan2(dir.X(), dir.Z())
	pitch := -math.Atan2(dir.Y(), horiz)
	q = mgl64.QuatRotate(yaw, Up).Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0}))
	return q.Normalize(), true
}

// Slerp interpolates along the shortest arc from a to b. t is clamped to
// [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp01(t)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t)
}
