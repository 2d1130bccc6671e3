package command

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/smell-of-curry/shipsort/shipsort/locale"
	"github.com/smell-of-curry/shipsort/shipsort/ship"
)

// toggle is an on or off command argument.
type toggle string

// Type ...
func (toggle) Type() string {
	return "toggle"
}

// Options ...
func (toggle) Options(cmd.Source) []string {
	return []string{"on", "off"}
}

// AutoSort toggles sorting the ship automatically when it leaves the moon.
type AutoSort struct {
	State cmd.Optional[toggle] `name:"state"`
}

// NewAutoSort ...
func NewAutoSort() cmd.Command {
	return cmd.New("autosort", "Toggles sorting the ship automatically at the start of each day", nil, AutoSort{})
}

// Run ...
func (a AutoSort) Run(_ cmd.Source, o *cmd.Output, _ *world.Tx) {
	m := ship.Global()
	state, ok := a.State.Load()
	enabled := !m.AutoSort()
	if ok {
		enabled = state == "on"
	}
	m.SetAutoSort(enabled)

	if enabled {
		o.Print(locale.Translate("autosort.state", locale.Translate("autosort.on")))
		return
	}
	o.Print(locale.Translate("autosort.state", locale.Translate("autosort.off")))
}
