// Package placement turns resolved item positions into concrete placements: it accumulates the
// per-repetition offsets, snaps the target onto a surface and hands the result to the world.
package placement

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
	"github.com/smell-of-curry/shipsort/shipsort/position"
	"github.com/smell-of-curry/shipsort/shipsort/scene"
)

var (
	// ErrRaycastMiss is returned when no surface was found below the target.
	ErrRaycastMiss = errors.New("no surface below target")
	// ErrAnchorMissing is returned when the anchor or the ship no longer exists.
	ErrAnchorMissing = errors.New("anchor object missing")
	// ErrNoPosition is returned for a flags-only spec that was never merged with a fallback.
	ErrNoPosition = errors.New("position has no coordinates")
)

// Outcome is the result of a single placement.
type Outcome uint8

const (
	Success Outcome = iota
	RaycastFailed
	AnchorMissing
	// Failed covers every other failure, such as the world refusing the placement.
	Failed
)

// String ...
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case RaycastFailed:
		return "raycast failed"
	case AnchorMissing:
		return "anchor missing"
	default:
		return "failed"
	}
}

// LayerMask selects the kinds of surface a raycast may hit.
type LayerMask uint32

const (
	// LayerFloor is the walkable floor of the ship.
	LayerFloor LayerMask = 1 << iota
	// LayerFurniture covers tables, counters and other surfaces standing on the floor.
	LayerFurniture
	// LayerShelf covers the shelves inside containers such as the storage closet.
	LayerShelf
	// LayerVehicle covers vehicles parked on the ship.
	LayerVehicle
)

const (
	// SurfaceMask is used when placing relative to an anchor or the ship.
	SurfaceMask = LayerFloor | LayerFurniture | LayerVehicle
	// ContainerMask is used when placing inside a parent object.
	ContainerMask = LayerShelf | LayerFloor
)

// World is what the engine places items into.
type World interface {
	// RaycastDown returns the first point below origin, within maxDistance, on a surface in mask.
	RaycastDown(origin mgl64.Vec3, maxDistance float64, mask LayerMask) (mgl64.Vec3, bool)
	// Place releases the item at local, which is relative to parent, or to the ship when parent
	// is nil. A rotation of position.AutoRotation leaves the rotation up to the world.
	Place(item Item, local mgl64.Vec3, rotation int, parent position.Anchor) error
}

// Frames looks up the coordinate frames of the ship and of anchors. *scene.Scene implements it.
type Frames interface {
	Ship() (scene.Frame, bool)
	FrameOf(a position.Anchor) (scene.Frame, bool)
}

// Item is an item that can be placed.
type Item interface {
	// Key identifies the type of the item. Items with the same key fan out when placed.
	Key() string
	// VerticalOffset is the height above a surface at which the item rests.
	VerticalOffset() float64
}

// Engine places items according to their resolved positions.
type Engine struct {
	log    *slog.Logger
	frames Frames
}

// NewEngine ...
func NewEngine(log *slog.Logger, frames Frames) *Engine {
	return &Engine{log: log, frames: frames}
}

// Rotation returns the rotation of the n-th item placed with spec. Only the accumulated offset is
// wrapped, so an item without a rotation keeps position.AutoRotation.
func Rotation(spec position.Spec, n int) int {
	return spec.BaseRotation() + spec.RotationStep()*n%360
}

// Target returns the unsnapped position of the n-th item placed with spec, relative to its
// anchor.
func Target(spec position.Spec, n int) mgl64.Vec3 {
	return spec.Position.Add(spec.Offset().Mul(float64(n)))
}

// Place places item according to spec. The repetition counter of the item key in s is only
// incremented when the placement succeeds. A non-nil error always accompanies an Outcome other
// than Success.
func (e *Engine) Place(w World, s *Session, item Item, spec position.Spec) (Outcome, error) {
	if spec.Position == nil {
		return Failed, ErrNoPosition
	}
	key := item.Key()
	n := s.Count(key)
	target, rot := Target(spec, n), Rotation(spec, n)

	ship, ok := e.frames.Ship()
	if !ok {
		e.log.Warn("could not find ship", "item", key)
		return AnchorMissing, fmt.Errorf("ship: %w", ErrAnchorMissing)
	}

	var (
		outcome Outcome
		err     error
	)
	if spec.Flags.Has(position.Parent) && spec.Anchor != nil {
		outcome, err = e.placeInside(w, s, item, spec, target, rot)
	} else {
		outcome, err = e.placeRelative(w, s, item, spec, ship, target, rot)
	}
	if outcome == Success {
		s.increment(key)
	}
	return outcome, err
}

// placeInside places item inside the anchor of spec, which becomes its parent.
func (e *Engine) placeInside(w World, s *Session, item Item, spec position.Spec, target mgl64.Vec3, rot int) (Outcome, error) {
	parent, ok := e.frames.FrameOf(spec.Anchor)
	if !ok {
		e.log.Warn("could not find parent object", "item", item.Key(), "parent", spec.Anchor.Path())
		return AnchorMissing, fmt.Errorf("%s: %w", spec.Anchor.Path(), ErrAnchorMissing)
	}
	e.log.Debug("moving item", "item", item.Key(), "position", target, "parent", spec.Anchor.Path())

	lift := mgl64.Vec3{0, item.VerticalOffset() - internal.ContainerNudge, 0}
	var local mgl64.Vec3
	if spec.Flags.Has(position.Exact) {
		p, err := Randomize(s.Rand(), target.Add(lift), spec.RandomOffset)
		if err != nil {
			return Failed, err
		}
		local = p
	} else {
		hit, ok := w.RaycastDown(parent.ToWorld(target), internal.MaxRaycastDistance, ContainerMask)
		if !ok {
			e.log.Warn("raycast unsuccessful", "item", item.Key())
			return RaycastFailed, ErrRaycastMiss
		}
		p, err := Randomize(s.Rand(), hit.Add(lift), spec.RandomOffset)
		if err != nil {
			return Failed, err
		}
		local = parent.ToLocal(p)
	}

	if err := w.Place(item, local, rot, spec.Anchor); err != nil {
		return Failed, fmt.Errorf("place %s: %w", item.Key(), err)
	}
	return Success, nil
}

// placeRelative places item relative to the anchor of spec, or to the ship when it has none. The
// resulting position is always relative to the ship.
func (e *Engine) placeRelative(w World, s *Session, item Item, spec position.Spec, ship scene.Frame, target mgl64.Vec3, rot int) (Outcome, error) {
	frame, relativeTo := ship, "ship"
	if spec.Anchor != nil {
		f, ok := e.frames.FrameOf(spec.Anchor)
		if !ok {
			e.log.Warn("could not find anchor object", "item", item.Key(), "anchor", spec.Anchor.Path())
			return AnchorMissing, fmt.Errorf("%s: %w", spec.Anchor.Path(), ErrAnchorMissing)
		}
		frame, relativeTo = f, spec.Anchor.Path()
	}
	e.log.Debug("moving item", "item", item.Key(), "position", target, "relative_to", relativeTo)

	lift := mgl64.Vec3{0, item.VerticalOffset(), 0}
	var local mgl64.Vec3
	if spec.Flags.Has(position.Exact) {
		local = ship.ToLocal(frame.ToWorld(target)).Add(lift)
	} else {
		hit, ok := w.RaycastDown(frame.ToWorld(target), internal.MaxRaycastDistance, SurfaceMask)
		if !ok {
			e.log.Warn("raycast unsuccessful", "item", item.Key())
			return RaycastFailed, ErrRaycastMiss
		}
		local = ship.ToLocal(hit.Add(lift))
	}
	local, err := Randomize(s.Rand(), local, spec.RandomOffset)
	if err != nil {
		return Failed, err
	}

	if err := w.Place(item, local, rot, nil); err != nil {
		return Failed, fmt.Errorf("place %s: %w", item.Key(), err)
	}
	return Success, nil
}
