package ship

import (
	"strings"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/catalog"
	"github.com/smell-of-curry/shipsort/shipsort/layers"
)

// Item is an item entity lying on the ship.
type Item struct {
	handle *world.EntityHandle

	key      string
	name     string
	known    bool
	category layers.Category
	offset   float64

	position  mgl64.Vec3
	onVehicle bool
}

// Key ...
func (i *Item) Key() string {
	return i.key
}

// Name returns the name players refer to the item by.
func (i *Item) Name() string {
	return i.name
}

// Known reports whether the item is listed in the catalog.
func (i *Item) Known() bool {
	return i.known
}

// VerticalOffset ...
func (i *Item) VerticalOffset() float64 {
	return i.offset
}

// Category ...
func (i *Item) Category() layers.Category {
	return i.category
}

// OnVehicle ...
func (i *Item) OnVehicle() bool {
	return i.onVehicle
}

// Position returns the world position of the item when it was last seen.
func (i *Item) Position() mgl64.Vec3 {
	return i.position
}

// Handle ...
func (i *Item) Handle() *world.EntityHandle {
	return i.handle
}

// ItemKey returns the key of an item by its identifier. The minecraft namespace is dropped and
// any other namespace is joined to the name with a '.', since ':' separates keys from positions
// in the custom position blob.
func ItemKey(identifier string) string {
	ns, name, found := strings.Cut(identifier, ":")
	switch {
	case !found:
		return ns
	case ns == "minecraft":
		return name
	}
	return ns + "." + name
}

// newItem describes stack as an item of the ship.
func newItem(c *catalog.Catalog, h *world.EntityHandle, stack item.Stack, pos mgl64.Vec3) *Item {
	identifier, _ := stack.Item().EncodeItem()
	i := &Item{handle: h, key: ItemKey(identifier), position: pos}
	if e, ok := c.Lookup(i.key); ok {
		i.name, i.known, i.category, i.offset = e.Name, true, e.ItemCategory(), e.VerticalOffset
		return i
	}
	i.name, i.category = i.key, categoryOf(stack)
	return i
}

// categoryOf guesses the category of an item that is not in the catalog: tools are tools,
// unstackable items are carried with two hands and everything else with one.
func categoryOf(stack item.Stack) layers.Category {
	switch {
	case isTool(stack.Item()):
		return layers.Tool
	case stack.MaxCount() == 1:
		return layers.TwoHanded
	}
	return layers.OneHanded
}

// isTool ...
func isTool(it world.Item) bool {
	_, ok := it.(item.Tool)
	return ok
}
