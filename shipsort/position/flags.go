package position

import "strings"

// Flags is a set of behavioural modifiers attached to an item position. Each flag is written as a
// single uppercase letter; order and duplicates in text are irrelevant.
type Flags uint8

const (
	// NoAutoSort excludes the item from automatic sort passes.
	NoAutoSort Flags = 1 << iota
	// KeepOnCruiser leaves the item alone while it sits on a vehicle, unless the sort is forced.
	KeepOnCruiser
	// Ignore excludes the item from every sort pass, manual ones included, unless forced.
	Ignore
	// Parent places the item inside its anchor instead of relative to it.
	Parent
	// Exact uses the literal coordinates without snapping them to a surface.
	Exact
)

// flagLetters lists every flag with its letter in canonical order.
var flagLetters = [...]struct {
	flag   Flags
	letter byte
}{
	{NoAutoSort, 'A'},
	{KeepOnCruiser, 'C'},
	{Ignore, 'N'},
	{Parent, 'P'},
	{Exact, 'X'},
}

const (
	positionRelated  = Parent | Exact
	filteringRelated = NoAutoSort | KeepOnCruiser | Ignore
)

// ParseFlags parses a run of flag letters. An empty string yields no flags.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, r := range s {
		flag, ok := flagOf(r)
		if !ok {
			return 0, &ParseError{Input: s, Flag: r, Err: ErrUnknownFlag}
		}
		f |= flag
	}
	return f, nil
}

// flagOf ...
func flagOf(r rune) (Flags, bool) {
	for _, fl := range flagLetters {
		if rune(fl.letter) == r {
			return fl.flag, true
		}
	}
	return 0, false
}

// Has reports whether every flag in o is set in f.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

// Union ...
func (f Flags) Union(o Flags) Flags {
	return f | o
}

// Intersect ...
func (f Flags) Intersect(o Flags) Flags {
	return f & o
}

// PositionRelated keeps only the flags that change where an item is put (Parent, Exact).
func (f Flags) PositionRelated() Flags {
	return f & positionRelated
}

// FilteringRelated keeps only the flags that decide whether an item is sorted at all
// (NoAutoSort, KeepOnCruiser, Ignore).
func (f Flags) FilteringRelated() Flags {
	return f & filteringRelated
}

// String returns the flag letters in canonical order, or an empty string.
func (f Flags) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f&fl.flag != 0 {
			b.WriteByte(fl.letter)
		}
	}
	return b.String()
}
