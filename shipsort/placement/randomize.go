package placement

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
)

// ErrNegativeRadius is returned by Randomize for a radius below zero.
var ErrNegativeRadius = errors.New("random offset radius must not be negative")

// Randomize moves p by a uniformly random amount in [-radius, radius] along the X and Z axes. A
// nil or zero radius returns p unchanged.
func Randomize(rng *rand.Rand, p mgl64.Vec3, radius *float64) (mgl64.Vec3, error) {
	if radius == nil {
		return p, nil
	}
	r := *radius
	switch {
	case r < 0:
		return p, ErrNegativeRadius
	case math.Abs(r) < internal.ZeroRadius:
		return p, nil
	}
	return mgl64.Vec3{
		p[0] + rng.Float64()*r*2 - r,
		p[1],
		p[2] + rng.Float64()*r*2 - r,
	}, nil
}
