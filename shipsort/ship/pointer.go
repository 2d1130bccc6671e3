package ship

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/cube/trace"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// lookDistance is how far a player can point at a block.
const lookDistance = 12

// Here returns the feet position of p relative to the object p stands in.
func (s *Ship) Here(p *player.Player) (mgl64.Vec3, position.Anchor) {
	return s.Relative(p.Position())
}

// There returns the centre of the top face of the block p looks at, relative to the object
// containing it. It returns false if p is not looking at a block within reach.
func (s *Ship) There(tx *world.Tx, p *player.Player) (mgl64.Vec3, position.Anchor, bool) {
	start := entity.EyePosition(p)
	end := start.Add(p.Rotation().Vec3().Mul(lookDistance))

	var (
		hit   cube.Pos
		found bool
	)
	trace.TraverseBlocks(start, end, func(pos cube.Pos) bool {
		if len(tx.Block(pos).Model().BBox(pos, tx)) == 0 {
			return true
		}
		hit, found = pos, true
		return false
	})
	if !found {
		return mgl64.Vec3{}, nil, false
	}
	top := hit.Vec3Centre()
	top[1] = float64(hit[1] + 1)
	local, anchor := s.Relative(top)
	return local, anchor, true
}

// Relative expresses a world space point relative to the deepest object containing it. Points
// on the ship but outside any of its objects are relative to the ship, which is a nil anchor.
func (s *Ship) Relative(point mgl64.Vec3) (mgl64.Vec3, position.Anchor) {
	obj, ok := s.scene.Containing(point)
	if ok && obj.Path() != position.ShipPath && obj.Path() != position.EnvironmentPath {
		return obj.Frame().ToLocal(point), obj
	}
	if ship, ok := s.scene.Ship(); ok {
		return ship.ToLocal(point), nil
	}
	env, _ := s.scene.Object(position.EnvironmentPath)
	return point, env
}
