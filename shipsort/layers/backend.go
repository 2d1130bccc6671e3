package layers

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/restartfu/gophig"
	"github.com/samber/lo"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
	"golang.org/x/text/cases"
)

// Section names a table of the positions file.
type Section string

const (
	SectionCategories Section = "Categories"
	SectionItems      Section = "Items"
	SectionModItems   Section = "ModItems"
	SectionCustom     Section = "Custom"
)

// document is the on-disk form of the positions file: one table per section, each mapping an
// item key to position text.
type document map[string]map[string]string

// Entry is a persisted value together with the default it falls back to.
type Entry struct {
	Text    string
	Default string
}

// Backend stores position text in a TOML file, organised into sections. Every key may have a
// registered default which is used while the file holds no value for it.
type Backend struct {
	log  *slog.Logger
	path string
	load func() (document, error)
	save func(document) error

	mu       sync.Mutex
	loaded   bool
	defaults document
	values   document
}

// NewBackend creates a Backend persisting to the TOML file at path. Nothing is read until Load
// is called.
func NewBackend(log *slog.Logger, path string) *Backend {
	g := gophig.NewGophig[document](path, gophig.TOMLMarshaler{}, os.ModePerm)
	return &Backend{
		log:  log,
		path: path,
		load: g.LoadConf,
		save: g.SaveConf,

		defaults: document{},
		values:   document{},
	}
}

// Key folds an item key into the form used for every lookup.
func Key(key string) string {
	return cases.Fold().String(strings.TrimSpace(key))
}

// Register sets the default value of key in section. It reports whether key is new, meaning that
// neither a value nor a default was held for it before.
func (b *Backend) Register(section Section, key, def string) bool {
	k := Key(key)

	b.mu.Lock()
	defer b.mu.Unlock()
	_, registered := b.defaults[string(section)][k]
	_, set := b.values[string(section)][k]
	table(b.defaults, section)[k] = def
	return !registered && !set
}

// Load reads the positions file, replacing every value held in memory. A missing file is created
// holding the registered defaults, and an existing file lacking some of them is rewritten.
func (b *Backend) Load() error {
	doc, err := b.load()
	if errors.Is(err, os.ErrNotExist) {
		b.log.Info("positions file not found, writing defaults", "path", b.path)
		if err = os.MkdirAll(filepath.Dir(b.path), internal.DirectoryPermissions); err != nil {
			return fmt.Errorf("create positions directory: %w", err)
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.values = document{}
		b.loaded = true
		return b.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("load positions: %w", err)
	}

	values := document{}
	for section, entries := range doc {
		t := table(values, Section(section))
		for k, v := range entries {
			t[Key(k)] = v
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = values
	b.loaded = true
	if missing := b.missingLocked(); missing > 0 {
		b.log.Info("positions file is missing registered entries, rewriting", "path", b.path, "missing", missing)
		return b.saveLocked()
	}
	return nil
}

// missingLocked counts the registered defaults that have no value.
func (b *Backend) missingLocked() int {
	missing := 0
	for section, entries := range b.defaults {
		for k := range entries {
			if _, ok := b.values[section][k]; !ok {
				missing++
			}
		}
	}
	return missing
}

// Entry returns the entry of key in section. The bool is false when the key has neither a value
// nor a registered default.
func (b *Backend) Entry(section Section, key string) (Entry, bool) {
	k := Key(key)

	b.mu.Lock()
	defer b.mu.Unlock()
	def, registered := b.defaults[string(section)][k]
	v, set := b.values[string(section)][k]
	if !registered && !set {
		return Entry{}, false
	}
	if !set {
		v = def
	}
	return Entry{Text: v, Default: def}, true
}

// Has reports whether key has a value or a default in section.
func (b *Backend) Has(section Section, key string) bool {
	_, ok := b.Entry(section, key)
	return ok
}

// Keys returns every key of section in sorted order.
func (b *Backend) Keys(section Section) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := lo.Uniq(append(lo.Keys(b.defaults[string(section)]), lo.Keys(b.values[string(section)])...))
	slices.Sort(keys)
	return keys
}

// Set stores value for key in section and writes the whole file in a single update.
func (b *Backend) Set(section Section, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := table(b.values, section)
	k := Key(key)
	prev, had := t[k]
	t[k] = value
	if err := b.saveLocked(); err != nil {
		if had {
			t[k] = prev
		} else {
			delete(t, k)
		}
		return err
	}
	return nil
}

// Save writes every value and default to the positions file. Nothing is written before Load, so
// values held by the file are never replaced with defaults alone.
func (b *Backend) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.loaded {
		return nil
	}
	return b.saveLocked()
}

// saveLocked ...
func (b *Backend) saveLocked() error {
	doc := document{}
	for _, src := range []document{b.defaults, b.values} {
		for section, entries := range src {
			t := table(doc, Section(section))
			for k, v := range entries {
				t[k] = v
			}
		}
	}
	if err := b.save(doc); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}

// table returns the table of section in doc, creating it if needed.
func table(doc document, section Section) map[string]string {
	t, ok := doc[string(section)]
	if !ok {
		t = map[string]string{}
		doc[string(section)] = t
	}
	return t
}
