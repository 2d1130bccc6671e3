package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/locale"
	"github.com/smell-of-curry/shipsort/shipsort/position"
	"github.com/smell-of-curry/shipsort/shipsort/ship"
)

// Put sets the position of an item type to where the player stands or looks, and moves every
// item of that type there.
type Put struct {
	Args cmd.Varargs `name:"args"`

	playerAllower
}

// NewPut ...
func NewPut() cmd.Command {
	return cmd.New("put", `Sets the position for an item when sorting: "<item>" here|there [once|game|always]`, []string{"setitemposition"}, Put{})
}

// Run ...
func (p Put) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	args, err := splitArgs(p.Args)
	if err != nil {
		o.Error(err)
		return
	}
	put(src, o, tx, args)
}

// putArgs are the parsed arguments of the put command.
type putArgs struct {
	item  string
	there bool
	when  ship.When
}

// parsePutArgs ...
func parsePutArgs(args []string) (putArgs, error) {
	if len(args) != 2 && len(args) != 3 {
		return putArgs{}, fmt.Errorf("expected 2 or 3 arguments, got %d", len(args))
	}
	a := putArgs{item: args[0], when: ship.Once}
	switch strings.ToLower(args[1]) {
	case "here":
	case "there":
		a.there = true
	default:
		return putArgs{}, fmt.Errorf("expected here or there, got %q", args[1])
	}
	if len(args) == 3 {
		w, err := ship.ParseWhen(strings.ToLower(args[2]))
		if err != nil {
			return putArgs{}, err
		}
		a.when = w
	}
	return a, nil
}

// put runs the put command with args already split.
func put(src cmd.Source, o *cmd.Output, tx *world.Tx, args []string) {
	a, err := parsePutArgs(args)
	if err != nil {
		o.Error(locale.Translate("put.invalid"))
		return
	}
	pl, ok := src.(*player.Player)
	if !ok {
		o.Error(locale.Translate("put.players_only"))
		return
	}

	m := ship.Global()
	key, err := m.ItemKey(tx, a.item)
	if err != nil {
		o.Error(err)
		return
	}

	var (
		local  mgl64.Vec3
		anchor position.Anchor
	)
	if a.there {
		if local, anchor, ok = m.Ship().There(tx, pl); !ok {
			o.Error(locale.Translate("put.no_target"))
			return
		}
	} else {
		local, anchor = m.Ship().Here(pl)
	}
	pos := position.Format(position.Spec{Position: &local, Anchor: anchor})
	o.Print(locale.Translate("put."+a.when.String(), key, pos))

	r := newReporter(src, o, "sort.failed")
	_, err = m.Put(tx, key, local, anchor, a.when, r.report)
	r.detach()
	switch {
	case errors.Is(err, ship.ErrNoItems):
		o.Error(locale.Translate("sort.no_items"))
	case err != nil:
		o.Error(err)
	}
}
