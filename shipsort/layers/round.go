package layers

import (
	"maps"
	"sync"

	"github.com/df-mc/atomic"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// RoundOverride is a position assigned to an item type for the current session only.
type RoundOverride struct {
	Position mgl64.Vec3
	// Anchor is the object Position is relative to. Nil means the ship.
	Anchor position.Anchor
}

// Spec returns the override as a position spec.
func (o RoundOverride) Spec() position.Spec {
	pos := o.Position
	return position.Spec{Position: &pos, Anchor: o.Anchor}
}

// RoundOverrides holds the session overrides keyed by folded item key. Readers never block:
// every write publishes a new table.
type RoundOverrides struct {
	mu    sync.Mutex
	table atomic.Value[map[string]RoundOverride]
}

// NewRoundOverrides ...
func NewRoundOverrides() *RoundOverrides {
	r := &RoundOverrides{}
	r.table.Store(map[string]RoundOverride{})
	return r
}

// Get ...
func (r *RoundOverrides) Get(key string) (RoundOverride, bool) {
	o, ok := r.table.Load()[Key(key)]
	return o, ok
}

// Set assigns an override to key, replacing any previous one.
func (r *RoundOverrides) Set(key string, o RoundOverride) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := maps.Clone(r.table.Load())
	next[Key(key)] = o
	r.table.Store(next)
}

// Reset replaces the table with an empty one.
func (r *RoundOverrides) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table.Store(map[string]RoundOverride{})
}

// Len ...
func (r *RoundOverrides) Len() int {
	return len(r.table.Load())
}
