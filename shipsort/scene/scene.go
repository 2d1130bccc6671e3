// Package scene holds the named objects item positions can be anchored to, each with its own
// coordinate frame.
package scene

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// Object is a named object in the scene. It implements position.Anchor.
type Object struct {
	path   string
	parent *Object
	depth  int

	frame Frame
	size  mgl64.Vec3
}

// Path ...
func (o *Object) Path() string {
	return o.path
}

// Name returns the last element of the path.
func (o *Object) Name() string {
	return o.path[strings.LastIndexByte(o.path, '/')+1:]
}

// Frame returns the world frame of the object.
func (o *Object) Frame() Frame {
	return o.frame
}

// Contains reports whether the world space point lies within the box of the object.
func (o *Object) Contains(point mgl64.Vec3) bool {
	if o.size == (mgl64.Vec3{}) {
		return false
	}
	l := o.frame.ToLocal(point)
	return l[0] >= -o.size[0]/2 && l[0] <= o.size[0]/2 &&
		l[1] >= 0 && l[1] <= o.size[1] &&
		l[2] >= -o.size[2]/2 && l[2] <= o.size[2]/2
}

// Scene is a tree of objects rooted at the Environment. It is safe for concurrent use.
type Scene struct {
	mu      sync.RWMutex
	objects map[string]*Object
}

// New builds a scene from conf.
func New(conf Config) (*Scene, error) {
	root := &Object{path: position.EnvironmentPath, frame: Identity}
	s := &Scene{objects: map[string]*Object{root.path: root}}
	for _, oc := range conf.Objects {
		if err := s.Add(oc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add adds an object to the scene. Its parent must already exist, and its path must be usable as
// the anchor of position text.
func (s *Scene) Add(oc ObjectConfig) error {
	path := strings.Trim(oc.Path, "/")
	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return fmt.Errorf("object %q has no parent", oc.Path)
	}
	if !position.ValidAnchorPath(path) {
		return fmt.Errorf("object %q: path may only hold letters, digits, underscores and slashes", oc.Path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; ok {
		return fmt.Errorf("object %q already exists", path)
	}
	parent, ok := s.objects[path[:i]]
	if !ok {
		return fmt.Errorf("parent of object %q does not exist", path)
	}
	s.objects[path] = &Object{
		path:   path,
		parent: parent,
		depth:  parent.depth + 1,
		frame:  parent.frame.Child(oc.Position.vec3(), oc.Yaw),
		size:   oc.Size.vec3(),
	}
	return nil
}

// Remove removes the object at path along with all of its children.
func (s *Scene) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok || path == position.EnvironmentPath {
		return false
	}
	for p := range s.objects {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(s.objects, p)
		}
	}
	return true
}

// Object returns the object at path.
func (s *Scene) Object(path string) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[path]
	return o, ok
}

// ResolveAnchor ...
func (s *Scene) ResolveAnchor(path string) (position.Anchor, bool) {
	o, ok := s.Object(path)
	if !ok {
		return nil, false
	}
	return o, true
}

// FrameOf returns the frame of the anchor, provided its object is still part of the scene.
func (s *Scene) FrameOf(a position.Anchor) (Frame, bool) {
	o, ok := s.Object(a.Path())
	if !ok {
		return Frame{}, false
	}
	return o.frame, true
}

// Ship returns the frame of the ship.
func (s *Scene) Ship() (Frame, bool) {
	o, ok := s.Object(position.ShipPath)
	if !ok {
		return Frame{}, false
	}
	return o.frame, true
}

// ShipObject returns the ship object.
func (s *Scene) ShipObject() (*Object, bool) {
	return s.Object(position.ShipPath)
}

// Containing returns the deepest object whose box contains the world space point.
func (s *Scene) Containing(point mgl64.Vec3) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *Object
	for _, o := range s.objects {
		if !o.Contains(point) {
			continue
		}
		if best == nil || o.depth > best.depth || (o.depth == best.depth && o.path < best.path) {
			best = o
		}
	}
	return best, best != nil
}

// Paths returns the path of every object in sorted order.
func (s *Scene) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
