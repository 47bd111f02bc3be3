// Package geom provides the small 3D vector and matrix value types used
// throughout the prediction pipeline.
package geom

import "math"

// Vec2 is a 2D coordinate (detector-plane millimeters or pixels).
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2     { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2     { return Vec2{a.X - b.X, a.Y - b.Y} }
func (v Vec2) Mul(s float64) Vec2  { return Vec2{v.X * s, v.Y * s} }
func (a Vec2) Dot(b Vec2) float64  { return a.X*b.X + a.Y*b.Y }
func (v Vec2) Len() float64        { return math.Hypot(v.X, v.Y) }

// Vec3 represents a direction or position in 3D laboratory space.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3    { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3    { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (v Vec3) Mul(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product between two vectors.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the Euclidean length of the vector.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Norm returns a unit-length version of the vector.
// If the vector is (near) zero, it returns the input unchanged.
func (v Vec3) Norm() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// RotateAbout rotates v by angle phi (radians) about the unit axis m,
// using the Rodrigues formula. m must be unit-length.
func (v Vec3) RotateAbout(m Vec3, phi float64) Vec3 {
	c, s := math.Cos(phi), math.Sin(phi)
	para := m.Mul(m.Dot(v))
	perp := v.Sub(para)
	return para.Add(perp.Mul(c)).Add(m.Cross(v).Mul(s))
}
