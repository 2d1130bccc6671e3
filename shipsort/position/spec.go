// Package position implements the item position format: a single line of text describing where
// an item is put, relative to which object, how it is rotated, how repeated items of the same
// type fan out and which behavioural flags apply to it.
//
//	[anchor:]x[±dx],y[±dy],z[±dz][,rotation[±offset]][,random][:FLAGS]
package position

import "github.com/go-gl/mathgl/mgl64"

// Spec is the parsed form of a position string. Optional fields are nil when absent.
type Spec struct {
	// Position is nil only for a flags-only spec, which has to be merged with a fallback
	// before it can be used for placement.
	Position *mgl64.Vec3
	// PositionOffset is added once per item of the same type already placed.
	PositionOffset *mgl64.Vec3
	// Anchor is the object the position is relative to. Nil means the ship.
	Anchor Anchor
	// Rotation is the yaw of the item in degrees.
	Rotation *int
	// RotationOffset is added to the rotation once per item of the same type already placed.
	// It is never zero.
	RotationOffset *int
	// RandomOffset is the radius of horizontal jitter applied to the final position.
	RandomOffset *float64
	Flags        Flags
}

// AutoRotation is the rotation passed on when a spec has none.
const AutoRotation = -1

// FlagsOnly reports whether the spec carries flags but no coordinates.
func (s Spec) FlagsOnly() bool {
	return s.Position == nil
}

// Offset returns the positional offset, or a zero vector when there is none.
func (s Spec) Offset() mgl64.Vec3 {
	if s.PositionOffset == nil {
		return mgl64.Vec3{}
	}
	return *s.PositionOffset
}

// BaseRotation returns the rotation, or AutoRotation when there is none.
func (s Spec) BaseRotation() int {
	if s.Rotation == nil {
		return AutoRotation
	}
	return *s.Rotation
}

// RotationStep returns the rotation offset, or zero when there is none.
func (s Spec) RotationStep() int {
	if s.RotationOffset == nil {
		return 0
	}
	return *s.RotationOffset
}

// String ...
func (s Spec) String() string {
	return Format(s)
}

// Equal reports whether s and o describe the same position.
func (s Spec) Equal(o Spec) bool {
	return equalPtr(s.Position, o.Position) &&
		equalPtr(s.PositionOffset, o.PositionOffset) &&
		SameAnchor(s.Anchor, o.Anchor) &&
		equalPtr(s.Rotation, o.Rotation) &&
		equalPtr(s.RotationOffset, o.RotationOffset) &&
		equalPtr(s.RandomOffset, o.RandomOffset) &&
		s.Flags == o.Flags
}

// equalPtr ...
func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ptr ...
func ptr[T any](v T) *T {
	return &v
}
