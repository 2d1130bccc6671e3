// Package ship binds the sorting engine to the dragonfly world: it finds the item entities lying
// on the ship, raycasts against its blocks and moves items around.
package ship

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/catalog"
	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"github.com/smell-of-curry/shipsort/shipsort/placement"
	"github.com/smell-of-curry/shipsort/shipsort/position"
	"github.com/smell-of-curry/shipsort/shipsort/scene"
)

// ErrItemGone is returned when an item entity was removed before it could be moved.
var ErrItemGone = errors.New("item is no longer in the world")

// Ship is the hangar ship in a world.
type Ship struct {
	log      *slog.Logger
	w        *world.World
	scene    *scene.Scene
	catalog  *catalog.Catalog
	store    *layers.Store
	surfaces map[string]placement.LayerMask
}

// New ...
func New(log *slog.Logger, w *world.World, sc *scene.Scene, c *catalog.Catalog, store *layers.Store, conf SurfaceConfig) *Ship {
	return &Ship{
		log:      log,
		w:        w,
		scene:    sc,
		catalog:  c,
		store:    store,
		surfaces: conf.layers(),
	}
}

// World returns the world the ship is in.
func (s *Ship) World() *world.World {
	return s.w
}

// Scene ...
func (s *Ship) Scene() *scene.Scene {
	return s.scene
}

// Exec runs f on the world of the ship. It implements sorter.Executor.
func (s *Ship) Exec(f func(w placement.World)) <-chan struct{} {
	return s.w.Exec(func(tx *world.Tx) {
		f(s.Bind(tx))
	})
}

// Bind returns the placement.World of the ship within tx.
func (s *Ship) Bind(tx *world.Tx) *World {
	return &World{s: s, tx: tx}
}

// Items returns every item entity lying on the ship. Items missing from the catalog are
// registered as mod items so their positions can be configured.
func (s *Ship) Items(tx *world.Tx) []*Item {
	obj, ok := s.scene.ShipObject()
	if !ok {
		s.log.Warn("could not find ship")
		return nil
	}
	var items []*Item
	for e := range tx.Entities() {
		ent, ok := e.(*entity.Ent)
		if !ok {
			continue
		}
		b, ok := ent.Behaviour().(*entity.ItemBehaviour)
		if !ok || !obj.Contains(ent.Position()) {
			continue
		}
		i := newItem(s.catalog, ent.H(), b.Item(), ent.Position())
		i.onVehicle = s.onVehicle(tx, i.position)
		if !i.known {
			s.store.RegisterModItem(i.key)
		}
		items = append(items, i)
	}
	return items
}

// onVehicle reports whether the block at or right below pos is a vehicle.
func (s *Ship) onVehicle(tx *world.Tx, pos mgl64.Vec3) bool {
	below := cube.PosFromVec3(pos)
	for _, p := range []cube.Pos{below, below.Side(cube.FaceDown)} {
		if s.layerOf(tx.Block(p), true) == placement.LayerVehicle {
			return true
		}
	}
	return false
}

// World is the ship within a single transaction. It implements placement.World.
type World struct {
	s  *Ship
	tx *world.Tx
}

// RaycastDown steps down block by block from origin and returns the top of the first collision
// box in mask that lies below origin.
func (w *World) RaycastDown(origin mgl64.Vec3, maxDistance float64, mask placement.LayerMask) (mgl64.Vec3, bool) {
	x, z := math.Floor(origin[0]), math.Floor(origin[2])
	lowest, r := origin[1]-maxDistance, w.tx.Range()
	for y := math.Floor(origin[1]); y+1 >= lowest; y-- {
		pos := cube.Pos{int(x), int(y), int(z)}
		if pos[1] < r.Min() {
			return mgl64.Vec3{}, false
		} else if pos[1] > r.Max() {
			continue
		}
		b := w.tx.Block(pos)
		boxes := b.Model().BBox(pos, w.tx)
		if w.s.layerOf(b, len(boxes) > 0)&mask == 0 {
			continue
		}
		top, found := math.Inf(-1), false
		for _, bb := range boxes {
			bb = bb.Translate(pos.Vec3())
			if origin[0] < bb.Min()[0] || origin[0] > bb.Max()[0] || origin[2] < bb.Min()[2] || origin[2] > bb.Max()[2] {
				continue
			}
			if t := bb.Max()[1]; t <= origin[1] && t >= lowest && t > top {
				top, found = t, true
			}
		}
		if found {
			return mgl64.Vec3{origin[0], top, origin[2]}, true
		}
	}
	return mgl64.Vec3{}, false
}

// Place respawns the item entity at local, relative to parent or the ship.
func (w *World) Place(it placement.Item, local mgl64.Vec3, rotation int, parent position.Anchor) error {
	i, ok := it.(*Item)
	if !ok {
		return fmt.Errorf("cannot place %T", it)
	}
	frame, ok := w.frame(parent)
	if !ok {
		return placement.ErrAnchorMissing
	}
	e, ok := i.handle.Entity(w.tx)
	if !ok {
		return ErrItemGone
	}
	ent, ok := e.(*entity.Ent)
	if !ok {
		return ErrItemGone
	}
	b, ok := ent.Behaviour().(*entity.ItemBehaviour)
	if !ok {
		return ErrItemGone
	}

	yaw := ent.Rotation().Yaw()
	if rotation != position.AutoRotation {
		yaw = frame.Yaw + float64(rotation)
	}
	pos := frame.ToWorld(local)
	stack := b.Item()
	_ = w.tx.RemoveEntity(e)

	h := entity.NewItem(world.EntitySpawnOpts{Position: pos, Rotation: cube.Rotation{yaw, 0}}, stack)
	w.tx.AddEntity(h)
	i.handle, i.position = h, pos
	i.onVehicle = w.s.onVehicle(w.tx, pos)
	return nil
}

// frame returns the frame local positions of parent are relative to.
func (w *World) frame(parent position.Anchor) (scene.Frame, bool) {
	if parent == nil {
		return w.s.scene.Ship()
	}
	return w.s.scene.FrameOf(parent)
}

// Items ...
func (w *World) Items() []*Item {
	return w.s.Items(w.tx)
}
