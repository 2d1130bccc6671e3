package layers

import (
	"fmt"
	"strings"
)

// Category is the broad kind of an item, used to pick a default position for items that have
// no position of their own.
type Category uint8

const (
	OneHanded Category = iota
	TwoHanded
	Tool
)

// Categories lists every category.
var Categories = [...]Category{OneHanded, TwoHanded, Tool}

// categoryDefaults holds the packaged default position of every category. These must always
// parse.
var categoryDefaults = [...]string{
	OneHanded: "2.86,2,-6.08,0.1",
	TwoHanded: "-4.5,2,-6.5,90,0.1",
	Tool:      "closet:-1.2+0.3,3.2,0.3,0:P",
}

// String ...
func (c Category) String() string {
	switch c {
	case OneHanded:
		return "OneHanded"
	case TwoHanded:
		return "TwoHanded"
	case Tool:
		return "Tool"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Scrap reports whether items of the category are scrap rather than tools.
func (c Category) Scrap() bool {
	return c != Tool
}

// DefaultText returns the packaged default position text of the category.
func (c Category) DefaultText() string {
	return categoryDefaults[c]
}

// ParseCategory parses a category name, ignoring case, spaces, dashes and underscores.
func ParseCategory(s string) (Category, error) {
	name := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
	switch name {
	case "onehanded", "scrap":
		return OneHanded, nil
	case "twohanded":
		return TwoHanded, nil
	case "tool", "tools":
		return Tool, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
