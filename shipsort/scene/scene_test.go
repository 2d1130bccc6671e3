package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{Origin: mgl64.Vec3{10, 64, -3}, Yaw: 37}
	for _, p := range []mgl64.Vec3{{0, 0, 0}, {1, 2, 3}, {-4.5, 0.25, 9}} {
		got := f.ToLocal(f.ToWorld(p))
		if !got.ApproxEqualThreshold(p, 1e-9) {
			t.Errorf("round trip of %v gave %v", p, got)
		}
	}
}

func TestFrameChild(t *testing.T) {
	parent := Frame{Origin: mgl64.Vec3{10, 0, 0}, Yaw: 90}
	child := parent.Child(mgl64.Vec3{2, 1, 0}, 90)

	if child.Yaw != 180 {
		t.Fatalf("yaw = %v", child.Yaw)
	}
	want := parent.ToWorld(mgl64.Vec3{2, 1, 0})
	if !child.Origin.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("origin = %v, want %v", child.Origin, want)
	}
	if child.Origin[1] != 1 {
		t.Fatalf("rotation about Y must keep the height, got %v", child.Origin)
	}
}

func TestDefaultScene(t *testing.T) {
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{position.EnvironmentPath, position.ShipPath, position.ClosetPath, position.FileCabinetPath, position.BunkbedsPath} {
		a, ok := s.ResolveAnchor(p)
		if !ok || a.Path() != p {
			t.Errorf("anchor %s = %v, %v", p, a, ok)
		}
	}

	ship, ok := s.Ship()
	if !ok || ship.Origin != (mgl64.Vec3{0, 64, 0}) {
		t.Fatalf("ship frame = %v, %v", ship, ok)
	}
	closet, _ := s.Object(position.ClosetPath)
	if closet.Name() != "StorageCloset" {
		t.Fatalf("name = %q", closet.Name())
	}
	if closet.Frame().Origin != (mgl64.Vec3{-2, 64, -3}) {
		t.Fatalf("closet origin = %v", closet.Frame().Origin)
	}
}

func TestContaining(t *testing.T) {
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if o, ok := s.Containing(mgl64.Vec3{-2, 65, -3}); !ok || o.Path() != position.ClosetPath {
		t.Fatalf("point in closet resolved to %v", o)
	}
	if o, ok := s.Containing(mgl64.Vec3{4, 65, 4}); !ok || o.Path() != position.ShipPath {
		t.Fatalf("point on ship floor resolved to %v", o)
	}
	if _, ok := s.Containing(mgl64.Vec3{100, 0, 100}); ok {
		t.Fatal("point outside the ship should not be contained")
	}
}

func TestAddAndRemove(t *testing.T) {
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ObjectConfig{Path: position.ClosetPath + "/Shelf", Position: PositionConfig{Y: 2}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ObjectConfig{Path: "Nowhere/Thing"}); err == nil {
		t.Fatal("expected an error for a missing parent")
	}
	if err := s.Add(ObjectConfig{Path: position.ClosetPath}); err == nil {
		t.Fatal("expected an error for a duplicate object")
	}
	for _, name := range []string{"Top Shelf", "Shelf.2", "Shelf-2"} {
		if err := s.Add(ObjectConfig{Path: position.ClosetPath + "/" + name}); err == nil {
			t.Fatalf("expected an error for %q, which position text cannot name", name)
		}
	}

	closet, _ := s.ResolveAnchor(position.ClosetPath)
	if !s.Remove(position.ClosetPath) {
		t.Fatal("remove failed")
	}
	if _, ok := s.FrameOf(closet); ok {
		t.Fatal("a removed anchor should have no frame")
	}
	if _, ok := s.Object(position.ClosetPath + "/Shelf"); ok {
		t.Fatal("children should be removed with their parent")
	}
	if s.Remove(position.EnvironmentPath) {
		t.Fatal("the environment cannot be removed")
	}
}
