package command

import (
	"fmt"
	"strings"
	"sync"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/kballard/go-shellquote"
	"github.com/smell-of-curry/shipsort/shipsort/locale"
	"github.com/smell-of-curry/shipsort/shipsort/sorter"
)

// playerAllower only allows players to run a command.
type playerAllower struct{}

// Allow ...
func (playerAllower) Allow(s cmd.Source) bool {
	_, ok := s.(*player.Player)
	return ok
}

// splitArgs splits the raw arguments of a command the way a shell would, so item names with
// spaces can be quoted.
func splitArgs(v cmd.Varargs) ([]string, error) {
	args, err := shellquote.Split(string(v))
	if err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

// parseSortFlags parses the flags of the sort command.
func parseSortFlags(args []string) (sorter.Options, error) {
	var opts sorter.Options
	for _, a := range args {
		switch a {
		case "-a", "--all":
			opts.All = true
		case "-A", "--force":
			opts.All, opts.Force = true, true
		default:
			return sorter.Options{}, fmt.Errorf("unknown flag %q", a)
		}
	}
	return opts, nil
}

// reporter delivers the report of a pass to the source of a command: through the command output
// while the command runs and as a chat message once it has returned.
type reporter struct {
	mu       sync.Mutex
	src      cmd.Source
	o        *cmd.Output
	failKey  string
	reported bool
}

// newReporter ...
func newReporter(src cmd.Source, o *cmd.Output, failKey string) *reporter {
	return &reporter{src: src, o: o, failKey: failKey}
}

// report ...
func (r *reporter) report(rep sorter.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reported = true

	var msgs []string
	if rep.Skipped > 0 {
		msgs = append(msgs, locale.Translate("sort.skipped", rep.Skipped))
	}
	failed := rep.Failed() > 0
	if failed {
		msgs = append(msgs, locale.Translate(r.failKey, rep.Summary()))
	} else {
		msgs = append(msgs, locale.Translate("sort.finished"))
	}

	if r.o != nil {
		for i, m := range msgs {
			if failed && i == len(msgs)-1 {
				r.o.Error(m)
				continue
			}
			r.o.Print(m)
		}
		return
	}
	p, ok := r.src.(*player.Player)
	if !ok {
		return
	}
	msg := strings.Join(msgs, "\n")
	p.H().ExecWorld(func(_ *world.Tx, e world.Entity) {
		if p, ok := e.(*player.Player); ok {
			p.Message(msg)
		}
	})
}

// detach stops the reporter from writing to the command output. It returns whether a report was
// delivered while attached.
func (r *reporter) detach() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.o = nil
	return r.reported
}
