// Package layers holds every source of item positions: the session overrides, the persisted
// positions of known and mod items, the custom position blob and the category defaults.
package layers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/df-mc/atomic"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// ErrUnknownItem is returned when persisting a position for a key that neither the known items
// nor the mod items hold.
var ErrUnknownItem = errors.New("unknown item")

// customKey is the key of the custom position blob in the Custom section.
const customKey = "positions"

// Layer is a single source of item positions.
type Layer interface {
	// Name identifies the layer in logs and diagnostics.
	Name() string
	// Lookup returns the position of key. The bool is false when the layer has nothing for
	// the key, including when it explicitly holds an empty value.
	Lookup(key string) (position.Spec, bool)
}

// Store owns every layer. Lookups never mutate it and may run alongside the setters.
type Store struct {
	log     *slog.Logger
	parser  *position.Parser
	backend *Backend

	round  *RoundOverrides
	custom atomic.Value[*CustomMap]

	mu sync.Mutex
}

// NewStore creates a Store on top of backend and registers the category defaults in it. Load
// must be called before the persisted layers hold anything but defaults.
func NewStore(log *slog.Logger, parser *position.Parser, backend *Backend) *Store {
	s := &Store{
		log:     log,
		parser:  parser,
		backend: backend,
		round:   NewRoundOverrides(),
	}
	for _, c := range Categories {
		backend.Register(SectionCategories, c.String(), c.DefaultText())
	}
	backend.Register(SectionCustom, customKey, "")
	s.custom.Store(ParseCustomMap(log, parser, ""))
	return s
}

// Load reads the backend and re-parses the custom position blob.
func (s *Store) Load() error {
	if err := s.backend.Load(); err != nil {
		return err
	}
	e, _ := s.backend.Entry(SectionCustom, customKey)
	s.custom.Store(ParseCustomMap(s.log, s.parser, e.Text))
	return nil
}

// Layers returns every layer in the order they take precedence.
func (s *Store) Layers() []Layer {
	return []Layer{
		roundLayer{s.round},
		persistedLayer{s: s, section: SectionItems, name: "items"},
		persistedLayer{s: s, section: SectionModItems, name: "mod items"},
		s.custom.Load(),
	}
}

// Round returns the session overrides.
func (s *Store) Round() *RoundOverrides {
	return s.round
}

// Custom returns the current custom position map.
func (s *Store) Custom() *CustomMap {
	return s.custom.Load()
}

// Parser returns the parser used for every layer.
func (s *Store) Parser() *position.Parser {
	return s.parser
}

// CategoryDefault returns the default position of c. When the persisted text fails to parse the
// packaged default is used instead; an error is only returned when that fails too.
func (s *Store) CategoryDefault(c Category) (position.Spec, error) {
	e, _ := s.backend.Entry(SectionCategories, c.String())
	if strings.TrimSpace(e.Text) != "" {
		spec, err := s.parser.Parse(e.Text)
		if err == nil {
			return spec, nil
		}
		s.log.Warn("invalid category position, using default", "category", c, "position", e.Text, "error", err)
	}
	spec, err := s.parser.Parse(c.DefaultText())
	if err != nil {
		return position.Spec{}, fmt.Errorf("default position of %s: %w", c, err)
	}
	return spec, nil
}

// RegisterItem registers a known item with its default position text.
func (s *Store) RegisterItem(key, def string) {
	s.register(SectionItems, key, def)
}

// RegisterModItem registers an item that is not part of the catalog. Its position is empty until
// configured, and the positions file lists it from then on.
func (s *Store) RegisterModItem(key string) {
	if s.backend.Has(SectionModItems, key) {
		return
	}
	s.register(SectionModItems, key, "")
}

// register registers def for key and writes the positions file when the key is new.
func (s *Store) register(section Section, key, def string) {
	if !s.backend.Register(section, key, def) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(); err != nil {
		s.log.Error("could not persist registered item", "item", Key(key), "section", section, "error", err)
	}
}

// Namespace returns the section that owns key, preferring the known items.
func (s *Store) Namespace(key string) (Section, bool) {
	switch {
	case s.backend.Has(SectionItems, key):
		return SectionItems, true
	case s.backend.Has(SectionModItems, key):
		return SectionModItems, true
	}
	return "", false
}

// SetItem validates text and persists it as the position of key in the namespace that owns the
// key.
func (s *Store) SetItem(key, text string) (Section, error) {
	section, ok := s.Namespace(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	if strings.TrimSpace(text) != "" {
		if _, err := s.parser.Parse(text); err != nil {
			return "", err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return section, s.backend.Set(section, key, text)
}

// SetCustom replaces the custom position blob, both in memory and on disk.
func (s *Store) SetCustom(blob string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Set(SectionCustom, customKey, blob); err != nil {
		return err
	}
	s.custom.Store(ParseCustomMap(s.log, s.parser, blob))
	return nil
}

// SetRoundOverride assigns a position to key for the rest of the session.
func (s *Store) SetRoundOverride(key string, pos mgl64.Vec3, anchor position.Anchor) {
	s.round.Set(key, RoundOverride{Position: pos, Anchor: anchor})
}

// ResetRound drops every session override.
func (s *Store) ResetRound() {
	s.round.Reset()
	s.log.Debug("cleared round item positions")
}

// Validate checks the configuration as a whole. Keys present in both the known and mod item
// namespaces are reported as warnings; an error is only returned when a category default cannot
// be parsed at all.
func (s *Store) Validate() ([]string, error) {
	var warnings []string
	items := s.backend.Keys(SectionItems)
	for _, k := range lo.Intersect(items, s.backend.Keys(SectionModItems)) {
		s.log.Warn("item has a position in both the known and the mod item namespaces, using the known item position", "item", k)
		warnings = append(warnings, fmt.Sprintf("%s is both a known and a mod item", k))
	}
	for _, c := range Categories {
		if _, err := s.CategoryDefault(c); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

// roundLayer ...
type roundLayer struct {
	r *RoundOverrides
}

// Name ...
func (roundLayer) Name() string {
	return "round"
}

// Lookup ...
func (l roundLayer) Lookup(key string) (position.Spec, bool) {
	o, ok := l.r.Get(key)
	if !ok {
		return position.Spec{}, false
	}
	return o.Spec(), true
}

// persistedLayer looks items up in one section of the backend. Text that fails to parse falls
// back to the default text of the same key.
type persistedLayer struct {
	s       *Store
	section Section
	name    string
}

// Name ...
func (l persistedLayer) Name() string {
	return l.name
}

// Lookup ...
func (l persistedLayer) Lookup(key string) (position.Spec, bool) {
	e, ok := l.s.backend.Entry(l.section, key)
	if !ok || strings.TrimSpace(e.Text) == "" {
		return position.Spec{}, false
	}
	spec, err := l.s.parser.Parse(e.Text)
	if err == nil {
		return spec, true
	}
	l.s.log.Warn("invalid item position, using default", "item", Key(key), "layer", l.name, "position", e.Text, "error", err)

	if strings.TrimSpace(e.Default) == "" || e.Default == e.Text {
		return position.Spec{}, false
	}
	spec, err = l.s.parser.Parse(e.Default)
	if err != nil {
		l.s.log.Error("invalid default item position, skipping", "item", Key(key), "layer", l.name, "position", e.Default, "error", err)
		return position.Spec{}, false
	}
	return spec, true
}
