// Package resolve decides the position of an item by walking the configured layers in order of
// precedence and merging the result with the default position of the item's category.
package resolve

import (
	"fmt"
	"log/slog"

	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// Source provides the layers and category defaults a Resolver works with. *layers.Store
// implements it.
type Source interface {
	Layers() []layers.Layer
	CategoryDefault(c layers.Category) (position.Spec, error)
}

// IntegrityError is returned when even the packaged default position of a category cannot be
// parsed. It indicates a broken build or scene rather than a user error.
type IntegrityError struct {
	Category layers.Category
	Err      error
}

// Error ...
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity failure: %s default position: %v", e.Category, e.Err)
}

// Unwrap ...
func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// DefaultLayer is the Resolution layer name used when no layer matched.
const DefaultLayer = "default"

// Resolution is a resolved position together with where it came from.
type Resolution struct {
	Spec position.Spec
	// Layer is the name of the layer that matched, or DefaultLayer.
	Layer string
	// Merged is true when the matched layer only carried flags and the position was taken from
	// the category default.
	Merged bool
}

// Resolver resolves item positions.
type Resolver struct {
	log *slog.Logger
	src Source
}

// New ...
func New(log *slog.Logger, src Source) *Resolver {
	return &Resolver{log: log, src: src}
}

// Resolve returns the position of the item with key and category c. The only error returned is
// an *IntegrityError.
func (r *Resolver) Resolve(key string, c layers.Category) (position.Spec, error) {
	res, err := r.Explain(key, c)
	return res.Spec, err
}

// Explain resolves like Resolve and also reports which layer the position came from.
func (r *Resolver) Explain(key string, c layers.Category) (Resolution, error) {
	var (
		matched position.Spec
		layer   string
	)
	for _, l := range r.src.Layers() {
		if spec, ok := l.Lookup(key); ok {
			matched, layer = spec, l.Name()
			break
		}
	}

	fallback, err := r.src.CategoryDefault(c)
	if err != nil {
		r.log.Error("category default position is invalid", "category", c, "error", err)
		return Resolution{}, &IntegrityError{Category: c, Err: err}
	}

	switch {
	case layer == "":
		return Resolution{Spec: fallback, Layer: DefaultLayer}, nil
	case !matched.FlagsOnly():
		return Resolution{Spec: matched, Layer: layer}, nil
	}
	r.log.Debug("merging flags-only item position with category default", "item", key, "layer", layer, "flags", matched.Flags)
	return Resolution{Spec: Merge(matched, fallback), Layer: layer, Merged: true}, nil
}

// Merge applies a flags-only override to fallback: the position and anchor come from fallback,
// the filtering flags from override and the positional flags from fallback. Every other field of
// fallback is left out.
func Merge(override, fallback position.Spec) position.Spec {
	return position.Spec{
		Position: fallback.Position,
		Anchor:   fallback.Anchor,
		Flags:    override.Flags.FilteringRelated() | fallback.Flags.PositionRelated(),
	}
}
