package ship

import (
	"github.com/df-mc/dragonfly/server/world"
	"github.com/smell-of-curry/shipsort/shipsort/placement"
)

// SurfaceConfig assigns blocks, by name, to raycast layers. Solid blocks not listed are floor.
type SurfaceConfig struct {
	Furniture []string
	Shelves   []string
	Vehicles  []string
}

// DefaultSurfaceConfig ...
func DefaultSurfaceConfig() SurfaceConfig {
	return SurfaceConfig{
		Furniture: []string{"minecraft:crafting_table", "minecraft:barrel", "minecraft:oak_slab", "minecraft:smithing_table"},
		Shelves:   []string{"minecraft:bookshelf", "minecraft:chiseled_bookshelf", "minecraft:smooth_stone_slab"},
		Vehicles:  []string{"minecraft:rail", "minecraft:black_concrete"},
	}
}

// layers builds the lookup table of the config.
func (c SurfaceConfig) layers() map[string]placement.LayerMask {
	m := map[string]placement.LayerMask{}
	for layer, names := range map[placement.LayerMask][]string{
		placement.LayerFurniture: c.Furniture,
		placement.LayerShelf:     c.Shelves,
		placement.LayerVehicle:   c.Vehicles,
	} {
		for _, n := range names {
			m[n] = layer
		}
	}
	return m
}

// layerOf returns the raycast layer of b, or zero for blocks without a collision box.
func (s *Ship) layerOf(b world.Block, solid bool) placement.LayerMask {
	name, _ := b.EncodeBlock()
	if l, ok := s.surfaces[name]; ok {
		return l
	}
	if !solid {
		return 0
	}
	return placement.LayerFloor
}
