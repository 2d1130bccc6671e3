// Package command provides the commands players use to sort the ship.
package command

import (
	"errors"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/smell-of-curry/shipsort/shipsort/locale"
	"github.com/smell-of-curry/shipsort/shipsort/ship"
)

// Sort sorts every item on the ship. Given put arguments instead of flags it behaves like Put.
type Sort struct {
	Args cmd.Varargs `name:"args" optional:"true"`
}

// NewSort ...
func NewSort() cmd.Command {
	return cmd.New("sort", "Sorts all items on the ship. -a: also sort items on vehicles, -A: sort every item", []string{"shipsort", "sortitems"}, Sort{})
}

// Run ...
func (s Sort) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	args, err := splitArgs(s.Args)
	if err != nil {
		o.Error(err)
		return
	}
	if len(args) >= 2 {
		put(src, o, tx, args)
		return
	}
	opts, err := parseSortFlags(args)
	if err != nil {
		o.Error(err)
		return
	}

	o.Print(locale.Translate("sort.started"))
	r := newReporter(src, o, "sort.failed")
	n, err := ship.Global().Sort(tx, opts, r.report)
	reported := r.detach()
	switch {
	case errors.Is(err, ship.ErrNoItems):
		o.Error(locale.Translate("sort.no_items"))
	case err != nil:
		o.Error(locale.Translate("sort.failed", err))
	case !reported:
		o.Print(locale.Translate("sort.scheduled", n))
	}
}
