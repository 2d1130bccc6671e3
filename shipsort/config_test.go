package shipsort

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandertv/gophertunnel/minecraft/protocol/login"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

func TestParseLogLevel(t *testing.T) {
	for s, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLogLevel(s)
		if err != nil || got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}

func TestReadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c, err := readConfig(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if c.SortDelay() != 0 || !c.ShipSort.AutoSort {
		t.Fatalf("unexpected sort settings %+v", c.ShipSort)
	}
	if len(c.Scene.Objects) == 0 || c.Scene.Objects[0].Path != position.ShipPath {
		t.Fatalf("expected the default scene, got %+v", c.Scene)
	}
	if len(c.Surfaces.Shelves) == 0 {
		t.Fatalf("expected the default surfaces, got %+v", c.Surfaces)
	}

	again, err := readConfig(path)
	if err != nil {
		t.Fatalf("read config again: %v", err)
	}
	if again.ShipSort.PositionsPath != c.ShipSort.PositionsPath || again.SortDelay() != time.Duration(0) {
		t.Fatalf("config changed between reads: %+v", again.ShipSort)
	}
}

func TestServiceEnabled(t *testing.T) {
	c := DefaultConfig()
	if c.ServiceEnabled() {
		t.Fatalf("the position api must not start with the default key")
	}
	c.Service.APIKey = "  "
	if c.ServiceEnabled() {
		t.Fatalf("the position api must not start with a blank key")
	}
	c.Service.APIKey = "hunter2"
	if !c.ServiceEnabled() {
		t.Fatalf("the position api should start with a key of its own")
	}
	c.Service.GinAddress = ""
	if c.ServiceEnabled() {
		t.Fatalf("the position api must not start without an address")
	}
}

func TestAllower(t *testing.T) {
	identity := func(name string) login.IdentityData {
		return login.IdentityData{DisplayName: name}
	}
	a := Allower{}
	if _, ok := a.Allow(nil, identity("anyone"), login.ClientData{}); !ok {
		t.Fatalf("an empty crew should let everyone join")
	}
	a = Allower{crew: []string{"Captain"}}
	if _, ok := a.Allow(nil, identity("captain"), login.ClientData{}); !ok {
		t.Fatalf("crew names should match case-insensitively")
	}
	if msg, ok := a.Allow(nil, identity("stowaway"), login.ClientData{}); ok || msg == "" {
		t.Fatalf("a stranger should be refused with a message")
	}
}
