package scene

import "github.com/go-gl/mathgl/mgl64"

// Frame is a coordinate frame: an origin and a rotation about the Y axis, both in world space.
type Frame struct {
	Origin mgl64.Vec3
	// Yaw is the rotation of the frame about the Y axis in degrees.
	Yaw float64
}

// Identity is the world frame.
var Identity = Frame{}

// rotation ...
func (f Frame) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DY(mgl64.DegToRad(f.Yaw))
}

// ToWorld transforms a point local to the frame into world space.
func (f Frame) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return f.Origin.Add(f.rotation().Mul3x1(local))
}

// ToLocal transforms a world space point into the frame.
func (f Frame) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return f.rotation().Transpose().Mul3x1(world.Sub(f.Origin))
}

// Child returns the frame at origin, rotated by yaw, expressed relative to f.
func (f Frame) Child(origin mgl64.Vec3, yaw float64) Frame {
	return Frame{Origin: f.ToWorld(origin), Yaw: f.Yaw + yaw}
}
