// Package catalog lists the items the sorter knows about: the names players refer to them by,
// their category and their default position.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"gopkg.in/yaml.v3"
)

//go:embed items.yaml
var defaultItems []byte

// Entry is a single known item.
type Entry struct {
	Key            string  `yaml:"key"`
	Name           string  `yaml:"name"`
	Category       string  `yaml:"category"`
	Position       string  `yaml:"position"`
	VerticalOffset float64 `yaml:"vertical_offset"`

	category layers.Category
}

// ItemCategory returns the parsed category of the entry.
func (e Entry) ItemCategory() layers.Category {
	return e.category
}

// file is the on-disk form of a catalog.
type file struct {
	Items []Entry `yaml:"items"`
}

// Catalog is an immutable set of known items.
type Catalog struct {
	entries []Entry
	byKey   map[string]int
	byName  map[string]int
}

// Default returns the catalog bundled with the server.
func Default() *Catalog {
	c, err := Parse(defaultItems)
	if err != nil {
		panic(fmt.Errorf("items.yaml: %w", err))
	}
	return c
}

// Load reads the catalog at path. A missing file yields the default catalog.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse parses a YAML catalog. Keys and names are matched without regard to case and must be
// unique.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	c := &Catalog{byKey: map[string]int{}, byName: map[string]int{}}
	for _, e := range f.Items {
		if e.Key == "" {
			return nil, fmt.Errorf("item %q has no key", e.Name)
		}
		cat, err := layers.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", e.Key, err)
		}
		e.category = cat
		if e.Name == "" {
			e.Name = e.Key
		}

		k, n := layers.Key(e.Key), layers.Key(e.Name)
		if _, dup := c.byKey[k]; dup {
			return nil, fmt.Errorf("duplicate item %s", e.Key)
		}
		if _, dup := c.byName[n]; dup {
			return nil, fmt.Errorf("duplicate item name %q", e.Name)
		}
		c.byKey[k], c.byName[n] = len(c.entries), len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Lookup returns the entry with key.
func (c *Catalog) Lookup(key string) (Entry, bool) {
	i, ok := c.byKey[layers.Key(key)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Find returns the entry a player refers to by either its name or its key.
func (c *Catalog) Find(s string) (Entry, bool) {
	if i, ok := c.byName[layers.Key(s)]; ok {
		return c.entries[i], true
	}
	return c.Lookup(s)
}

// Entries returns every entry in the order they were listed.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Register registers the default position of every entry as a known item in store.
func (c *Catalog) Register(store *layers.Store) {
	for _, e := range c.entries {
		store.RegisterItem(e.Key, e.Position)
	}
}
