package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// Config describes the objects of a scene.
type Config struct {
	// Objects are created in order, so a parent must be listed before its children. The
	// Environment root is implicit.
	Objects []ObjectConfig
}

// ObjectConfig ...
type ObjectConfig struct {
	// Path is the full path of the object, such as "Environment/HangarShip".
	Path string
	// Position is relative to the parent object.
	Position PositionConfig
	Yaw      float64
	// Size is the extent of the box the object occupies, centred on its origin horizontally and
	// rising from it vertically. A zero size never contains anything.
	Size PositionConfig
}

// PositionConfig ...
type PositionConfig struct {
	X float64
	Y float64
	Z float64
}

// vec3 ...
func (x PositionConfig) vec3() mgl64.Vec3 {
	return mgl64.Vec3{x.X, x.Y, x.Z}
}

// DefaultConfig returns the layout of the hangar ship: the ship itself and the furniture items are
// commonly sorted into.
func DefaultConfig() Config {
	return Config{Objects: []ObjectConfig{
		{
			Path:     position.ShipPath,
			Position: PositionConfig{X: 0, Y: 64, Z: 0},
			Size:     PositionConfig{X: 24, Y: 8, Z: 20},
		},
		{
			Path:     position.ClosetPath,
			Position: PositionConfig{X: -2, Y: 0, Z: -3},
			Size:     PositionConfig{X: 3, Y: 4, Z: 1.5},
		},
		{
			Path:     position.FileCabinetPath,
			Position: PositionConfig{X: -6, Y: 0, Z: -1},
			Size:     PositionConfig{X: 1, Y: 2, Z: 1},
		},
		{
			Path:     position.BunkbedsPath,
			Position: PositionConfig{X: 6, Y: 0, Z: -2},
			Yaw:      90,
			Size:     PositionConfig{X: 3, Y: 3, Z: 2},
		},
	}}
}
