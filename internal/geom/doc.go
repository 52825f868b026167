// Package geom provides the small amount of 3D geometry the structure
// builder needs: vectors, rotation matrices and pivoted rigid transforms.
//
// A [Transform] maps p to R·p + T. Rotations about an arbitrary pivot are
// expressed as transforms so that a sequence of them can be folded into a
// single running value with [Transform.Then]:
//
//	t := geom.Identity()
//	t = t.Then(geom.Rotation(geom.Vec3{}, geom.UnitY, math.Pi/2))
//	t = t.Then(geom.Rotation(geom.Vec3{}, geom.UnitY, math.Pi/2))
//	p := t.Apply(geom.Vec3{X: 1}) // ≈ (-1, 0, 0)
package geom
