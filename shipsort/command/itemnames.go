package command

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/samber/lo"
	"github.com/smell-of-curry/shipsort/shipsort/locale"
	"github.com/smell-of-curry/shipsort/shipsort/ship"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ItemNames lists the items currently on the ship that are not in the catalog, or every item
// with -a.
type ItemNames struct {
	Args cmd.Varargs `name:"args" optional:"true"`
}

// NewItemNames ...
func NewItemNames() cmd.Command {
	return cmd.New("itemnames", "Lists the names of the items on the ship", nil, ItemNames{})
}

// Run ...
func (n ItemNames) Run(_ cmd.Source, o *cmd.Output, tx *world.Tx) {
	args, err := splitArgs(n.Args)
	if err != nil {
		o.Error(err)
		return
	}
	all := lo.Contains(args, "-a") || lo.Contains(args, "--all")

	lines := itemLines(ship.Global().Ship().Items(tx), all)
	if len(lines) == 0 {
		o.Error(locale.Translate("itemnames.none"))
		return
	}
	if all {
		o.Print(locale.Translate("itemnames.header"))
	} else {
		o.Print(locale.Translate("itemnames.header.unknown"))
	}
	for _, l := range lines {
		o.Print(" - " + l)
	}
}

// namedItem ...
type namedItem interface {
	Key() string
	Name() string
	Known() bool
}

// itemLines describes every distinct item type in items, ordered case-insensitively.
func itemLines[T namedItem](items []T, all bool) []string {
	items = lo.UniqBy(lo.Filter(items, func(i T, _ int) bool {
		return all || !i.Known()
	}), func(i T) string {
		return i.Key()
	})
	lines := lo.Map(items, func(i T, _ int) string {
		if i.Name() == i.Key() {
			return i.Key()
		}
		return i.Key() + ": " + i.Name()
	})
	collate.New(language.English, collate.IgnoreCase).SortStrings(lines)
	return lines
}
