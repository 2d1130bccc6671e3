package layers

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// object ...
type object string

// Path ...
func (o object) Path() string { return string(o) }

// resolver resolves the well-known anchor paths.
type resolver struct{}

// ResolveAnchor ...
func (resolver) ResolveAnchor(path string) (position.Anchor, bool) {
	switch path {
	case position.EnvironmentPath, position.ShipPath, position.ClosetPath:
		return object(path), true
	}
	return nil, false
}

var discard = slog.New(slog.DiscardHandler)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "positions.toml")
	parser := position.NewParser(discard, resolver{})
	s := NewStore(discard, parser, NewBackend(discard, path))
	if err := s.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s, path
}

func TestCustomMapSkipsMalformedEntries(t *testing.T) {
	parser := position.NewParser(discard, resolver{})
	m := ParseCustomMap(discard, parser, "A:1,2,3;B;C:4,5,6")

	specs := m.Specs()
	if len(specs) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(specs), specs)
	}
	if a, ok := specs["a"]; !ok || *a.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("entry a = %v", a)
	}
	if c, ok := specs["c"]; !ok || *c.Position != (mgl64.Vec3{4, 5, 6}) {
		t.Fatalf("entry c = %v", c)
	}
	if _, ok := m.Lookup("B"); ok {
		t.Fatal("entry without a spec should be skipped")
	}
}

func TestCustomMapFirstDuplicateWins(t *testing.T) {
	parser := position.NewParser(discard, resolver{})
	m := ParseCustomMap(discard, parser, "mug:1,2,3; Mug:4,5,6;bad:x,1,2;empty: ;")

	spec, ok := m.Lookup("MUG")
	if !ok || *spec.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("mug = %v, %v", spec, ok)
	}
	if _, ok := m.Lookup("bad"); ok {
		t.Fatal("entry with an invalid spec should yield nothing")
	}
	if _, ok := m.Lookup("empty"); ok {
		t.Fatal("entry with empty text should yield nothing")
	}
	if keys := m.Keys(); len(keys) != 3 {
		t.Fatalf("keys = %v", keys)
	}
}

func TestPersistedLayerFallsBackToDefault(t *testing.T) {
	s, _ := newTestStore(t)
	s.RegisterItem("Mug", "1,2,3")
	s.RegisterItem("Cog", "also broken")

	items := s.Layers()[1]
	if spec, ok := items.Lookup("mug"); !ok || *spec.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("default position = %v, %v", spec, ok)
	}

	if err := s.backend.Set(SectionItems, "mug", "not a position"); err != nil {
		t.Fatal(err)
	}
	if spec, ok := items.Lookup("mug"); !ok || *spec.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("broken text should fall back to default, got %v, %v", spec, ok)
	}

	if _, ok := items.Lookup("cog"); ok {
		t.Fatal("broken default should yield nothing")
	}

	if err := s.backend.Set(SectionItems, "mug", "  "); err != nil {
		t.Fatal(err)
	}
	if _, ok := items.Lookup("mug"); ok {
		t.Fatal("blank text should mean no override")
	}
}

func TestLayerOrder(t *testing.T) {
	s, _ := newTestStore(t)
	var names []string
	for _, l := range s.Layers() {
		names = append(names, l.Name())
	}
	want := []string{"round", "items", "mod items", "custom"}
	if len(names) != len(want) {
		t.Fatalf("layers = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("layers = %v, want %v", names, want)
		}
	}
}

func TestRoundOverridesReset(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetRoundOverride("EasterEgg", mgl64.Vec3{1, 0, 1}, object(position.ClosetPath))

	spec, ok := s.Layers()[0].Lookup("easteregg")
	if !ok || *spec.Position != (mgl64.Vec3{1, 0, 1}) || spec.Anchor.Path() != position.ClosetPath {
		t.Fatalf("round override = %v, %v", spec, ok)
	}

	s.ResetRound()
	if s.Round().Len() != 0 {
		t.Fatal("reset should drop every override")
	}
	if _, ok := s.Layers()[0].Lookup("easteregg"); ok {
		t.Fatal("override still present after reset")
	}
}

func TestBackendPersists(t *testing.T) {
	s, path := newTestStore(t)
	s.RegisterItem("Mug", "1,2,3")

	if _, err := s.SetItem("mug", "ship:4,5,6"); err != nil {
		t.Fatalf("set item: %v", err)
	}
	if err := s.SetCustom("cog:7,8,9"); err != nil {
		t.Fatalf("set custom: %v", err)
	}

	reloaded := NewStore(discard, position.NewParser(discard, resolver{}), NewBackend(discard, path))
	reloaded.RegisterItem("Mug", "1,2,3")
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if spec, ok := reloaded.Layers()[1].Lookup("Mug"); !ok || *spec.Position != (mgl64.Vec3{4, 5, 6}) {
		t.Fatalf("persisted item = %v, %v", spec, ok)
	}
	if spec, ok := reloaded.Custom().Lookup("cog"); !ok || *spec.Position != (mgl64.Vec3{7, 8, 9}) {
		t.Fatalf("persisted custom = %v, %v", spec, ok)
	}
}

func readPositions(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read positions: %v", err)
	}
	return string(data)
}

func TestRegisteredModItemIsWritten(t *testing.T) {
	s, path := newTestStore(t)
	s.RegisterModItem("modded.widget")
	if !strings.Contains(readPositions(t, path), "modded.widget") {
		t.Fatalf("positions file does not list the mod item:\n%s", readPositions(t, path))
	}

	reloaded := NewStore(discard, position.NewParser(discard, resolver{}), NewBackend(discard, path))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if section, ok := reloaded.Namespace("Modded.Widget"); !ok || section != SectionModItems {
		t.Fatalf("namespace = %q, %v", section, ok)
	}
}

func TestLoadWritesMissingDefaults(t *testing.T) {
	_, path := newTestStore(t)
	if strings.Contains(readPositions(t, path), "kettle") {
		t.Fatal("kettle should not be listed yet")
	}

	s := NewStore(discard, position.NewParser(discard, resolver{}), NewBackend(discard, path))
	s.RegisterItem("Kettle", "1,2,3")
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(readPositions(t, path), "kettle") {
		t.Fatalf("positions file does not list the new item:\n%s", readPositions(t, path))
	}
}

func TestRegisterBeforeLoadWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.toml")
	s := NewStore(discard, position.NewParser(discard, resolver{}), NewBackend(discard, path))
	s.RegisterModItem("modded.widget")
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stat = %v, want a missing file", err)
	}
}

func TestSetItemRejects(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.SetItem("nothing", "1,2,3"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("err = %v, want %v", err, ErrUnknownItem)
	}

	s.RegisterModItem("modded.widget")
	if _, err := s.SetItem("modded.widget", "x,2,3"); !errors.Is(err, position.ErrInvalidNumber) {
		t.Fatalf("err = %v, want %v", err, position.ErrInvalidNumber)
	}
	section, err := s.SetItem("modded.widget", "1,2,3")
	if err != nil || section != SectionModItems {
		t.Fatalf("section = %q, err = %v", section, err)
	}
}

func TestCategoryDefault(t *testing.T) {
	s, _ := newTestStore(t)
	for _, c := range Categories {
		spec, err := s.CategoryDefault(c)
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		if spec.FlagsOnly() {
			t.Fatalf("%s: default has no position", c)
		}
	}

	if err := s.backend.Set(SectionCategories, Tool.String(), "garbage"); err != nil {
		t.Fatal(err)
	}
	spec, err := s.CategoryDefault(Tool)
	if err != nil {
		t.Fatalf("broken category text should fall back: %v", err)
	}
	if !spec.Flags.Has(position.Parent) || spec.Anchor == nil || spec.Anchor.Path() != position.ClosetPath {
		t.Fatalf("tool default = %s", spec)
	}
}

func TestCategoryDefaultIntegrity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.toml")
	// Without a closet the packaged tool default cannot resolve its anchor.
	s := NewStore(discard, position.NewParser(discard, nil), NewBackend(discard, path))
	if _, err := s.CategoryDefault(Tool); !errors.Is(err, position.ErrAnchorNotFound) {
		t.Fatalf("err = %v, want %v", err, position.ErrAnchorNotFound)
	}
	if _, err := s.Validate(); err == nil {
		t.Fatal("validate should fail when a packaged default does not parse")
	}
}

func TestValidateReportsDuplicateNamespaces(t *testing.T) {
	s, _ := newTestStore(t)
	s.RegisterItem("Mug", "1,2,3")
	s.RegisterModItem("mug")
	s.RegisterModItem("widget")

	warnings, err := s.Validate()
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
	if section, _ := s.Namespace("MUG"); section != SectionItems {
		t.Fatalf("namespace = %q, want %q", section, SectionItems)
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"one-handed": OneHanded,
		"OneHanded":  OneHanded,
		"two_handed": TwoHanded,
		"Tool":       Tool,
	}
	for in, want := range tests {
		got, err := ParseCategory(in)
		if err != nil || got != want {
			t.Errorf("ParseCategory(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseCategory("weapon"); err == nil {
		t.Error("expected an error for an unknown category")
	}
}
