package position

import "strings"

// Anchor is an object that coordinates can be relative to, such as the storage closet.
type Anchor interface {
	// Path returns the root-to-leaf path of the object, joined with '/'.
	Path() string
}

// AnchorResolver looks up anchors by their object path.
type AnchorResolver interface {
	ResolveAnchor(path string) (Anchor, bool)
}

// Well-known object paths that anchor keywords resolve to.
const (
	EnvironmentPath = "Environment"
	ShipPath        = EnvironmentPath + "/HangarShip"
	ClosetPath      = ShipPath + "/StorageCloset"
	FileCabinetPath = ShipPath + "/FileCabinet"
	BunkbedsPath    = ShipPath + "/Bunkbeds"
)

// ValidAnchorPath reports whether path can be written as the anchor of position text, so that
// formatting a spec anchored to it yields text that parses again.
func ValidAnchorPath(path string) bool {
	secs := sections(Tokenize(path))
	return len(secs) == 1 && anchorSection(secs[0])
}

// keywordPaths maps anchor keywords to the object they name. The ship keyword maps to an
// empty path, meaning no anchor at all.
var keywordPaths = map[string]string{
	"cupboard":      ClosetPath,
	"closet":        ClosetPath,
	"storage":       ClosetPath,
	"storagecloset": ClosetPath,

	"file":          FileCabinetPath,
	"filecabinet":   FileCabinetPath,
	"filecabinets":  FileCabinetPath,
	"cabinet":       FileCabinetPath,
	"cabinets":      FileCabinetPath,
	"file_cabinet":  FileCabinetPath,
	"file_cabinets": FileCabinetPath,

	"bunkbed":  BunkbedsPath,
	"bunkbeds": BunkbedsPath,

	"ship":        "",
	"environment": EnvironmentPath,
	"none":        EnvironmentPath,
}

// resolveAnchor turns anchor text into an anchor. A nil anchor with a nil error means the ship.
func (p *Parser) resolveAnchor(input, s string) (Anchor, error) {
	trimmed := strings.Trim(s, `/\`)
	if path, ok := keywordPaths[strings.ToLower(trimmed)]; ok {
		if path == "" {
			return nil, nil
		}
		a, ok := p.lookup(path)
		if !ok {
			return nil, &ParseError{Input: input, Anchor: s, Err: ErrAnchorNotFound}
		}
		return a, nil
	}

	a, ok := p.lookup(strings.ReplaceAll(trimmed, `\`, "/"))
	if !ok {
		return nil, &ParseError{Input: input, Anchor: s, Err: ErrUnknownAnchor}
	}
	return a, nil
}

// lookup ...
func (p *Parser) lookup(path string) (Anchor, bool) {
	if p.anchors == nil {
		return nil, false
	}
	return p.anchors.ResolveAnchor(path)
}

// SameAnchor reports whether a and b refer to the same object. Two nil anchors are the same.
func SameAnchor(a, b Anchor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Path() == b.Path()
}
