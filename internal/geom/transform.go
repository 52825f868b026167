package geom

import "math"

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

func IdentityMat() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// AxisAngle builds the rotation matrix for a right-handed rotation of angle
// radians about axis (Rodrigues). The axis does not need to be normalized.
func AxisAngle(axis Vec3, angle float64) Mat3 {
	a := axis.Normalize()
	if a.IsZero() {
		return IdentityMat()
	}
	s, c := math.Sincos(angle)
	k := 1 - c
	x, y, z := a.X, a.Y, a.Z
	return Mat3{
		{c + x*x*k, x*y*k - z*s, x*z*k + y*s},
		{y*x*k + z*s, c + y*y*k, y*z*k - x*s},
		{z*x*k - y*s, z*y*k + x*s, c + z*z*k},
	}
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Transform is the rigid map p -> R·p + T.
type Transform struct {
	R Mat3
	T Vec3
}

func Identity() Transform {
	return Transform{R: IdentityMat()}
}

// Rotation rotates by angle radians about the line through pivot along axis.
func Rotation(pivot, axis Vec3, angle float64) Transform {
	r := AxisAngle(axis, angle)
	return Transform{R: r, T: pivot.Sub(r.MulVec(pivot))}
}

func Translation(offset Vec3) Transform {
	return Transform{R: IdentityMat(), T: offset}
}

func (t Transform) Apply(p Vec3) Vec3 {
	return t.R.MulVec(p).Add(t.T)
}

// Then returns the transform that applies t first and next second.
func (t Transform) Then(next Transform) Transform {
	return Transform{
		R: next.R.Mul(t.R),
		T: next.R.MulVec(t.T).Add(next.T),
	}
}

// Angle returns the rotation angle of R in [0, π].
func (t Transform) Angle() float64 {
	tr := t.R[0][0] + t.R[1][1] + t.R[2][2]
	c := (tr - 1) / 2
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
