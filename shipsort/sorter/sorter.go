// Package sorter runs sort passes: it picks the items to sort, resolves their positions and
// places them either all at once or one at a time in a background job.
package sorter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"github.com/smell-of-curry/shipsort/shipsort/placement"
	"github.com/smell-of-curry/shipsort/shipsort/position"
)

// Item is an item on the ship that can be sorted.
type Item interface {
	placement.Item
	Category() layers.Category
	// OnVehicle reports whether the item currently rests on a vehicle.
	OnVehicle() bool
}

// Resolver resolves the position of an item. *resolve.Resolver implements it.
type Resolver interface {
	Resolve(key string, c layers.Category) (position.Spec, error)
}

// Executor runs f on the world at some later point. The returned channel is closed once f has
// run.
type Executor interface {
	Exec(f func(w placement.World)) <-chan struct{}
}

// Options change which items a sort pass includes.
type Options struct {
	// All includes items resting on vehicles.
	All bool
	// Force includes every item, regardless of its flags.
	Force bool
	// Automatic marks passes that were not requested by a player.
	Automatic bool
}

// Config ...
type Config struct {
	// Delay is the time between two placements. Below ten milliseconds every item is placed at
	// once.
	Delay time.Duration
	// Progress shows a progress bar on the console for throttled passes.
	Progress bool
	// OnFatal is called with errors that abort a pass.
	OnFatal func(error)
}

// Sorter runs sort passes. At most one throttled job runs at a time.
type Sorter struct {
	log      *slog.Logger
	resolver Resolver
	engine   *placement.Engine
	conf     Config

	mu      sync.Mutex
	current *Job
}

// New ...
func New(log *slog.Logger, resolver Resolver, engine *placement.Engine, conf Config) *Sorter {
	return &Sorter{log: log, resolver: resolver, engine: engine, conf: conf}
}

// step is a single planned placement.
type step struct {
	item Item
	spec position.Spec
}

// Skip reports whether an item with flags is left alone by a pass with opts.
func Skip(flags position.Flags, onVehicle bool, opts Options) bool {
	switch {
	case opts.Force:
		return false
	case flags.Has(position.Ignore):
		return true
	case opts.Automatic && flags.Has(position.NoAutoSort):
		return true
	case onVehicle && flags.Has(position.KeepOnCruiser) && !opts.All:
		return true
	}
	return false
}

// Sort sorts items. When the delay is below the immediate threshold every item is placed on w
// and done is called before Sort returns, which then returns a nil Job. Otherwise a Job is
// started that places the items through exec, superseding any job still running, and done is
// called from the job once it has placed every item. The only error returned comes from
// resolving positions and aborts the pass before anything is moved.
func (s *Sorter) Sort(w placement.World, exec Executor, items []Item, opts Options, done func(Report)) (*Job, error) {
	steps, skipped, err := s.plan(items, opts)
	if err != nil {
		s.log.Error("sort aborted", "error", err)
		if s.conf.OnFatal != nil {
			s.conf.OnFatal(err)
		}
		return nil, err
	}
	s.log.Debug("sorting items", "items", len(steps), "skipped", skipped, "automatic", opts.Automatic)
	return s.start(w, exec, steps, Report{Skipped: skipped}, done), nil
}

// MoveAll places every item at spec, without resolving positions or filtering by flags.
func (s *Sorter) MoveAll(w placement.World, exec Executor, items []Item, spec position.Spec, done func(Report)) *Job {
	steps := lo.Map(items, func(i Item, _ int) step {
		return step{item: i, spec: spec}
	})
	return s.start(w, exec, steps, Report{}, done)
}

// Cancel cancels the running job, if any.
func (s *Sorter) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
}

// Current returns the running job, or nil.
func (s *Sorter) Current() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// plan resolves the position of every item and drops those the pass skips. Scrap is placed
// before tools.
func (s *Sorter) plan(items []Item, opts Options) ([]step, int, error) {
	var steps []step
	skipped := 0
	for _, group := range [][]Item{
		lo.Filter(items, func(i Item, _ int) bool { return i.Category().Scrap() }),
		lo.Filter(items, func(i Item, _ int) bool { return !i.Category().Scrap() }),
	} {
		for _, i := range group {
			spec, err := s.resolver.Resolve(i.Key(), i.Category())
			if err != nil {
				return nil, 0, err
			}
			if Skip(spec.Flags, i.OnVehicle(), opts) {
				skipped++
				continue
			}
			steps = append(steps, step{item: i, spec: spec})
		}
	}
	return steps, skipped, nil
}

// start runs steps in a fresh session, either at once or in a new job.
func (s *Sorter) start(w placement.World, exec Executor, steps []step, r Report, done func(Report)) *Job {
	sess := placement.NewSession(nil)
	if s.conf.Delay < internal.ImmediateSortThreshold {
		for _, st := range steps {
			s.place(w, sess, st, &r)
		}
		s.finish(r, done)
		return nil
	}

	j := newJob()
	s.mu.Lock()
	if s.current != nil {
		s.log.Debug("superseding running sort job")
		s.current.Cancel()
	}
	s.current = j
	s.mu.Unlock()

	go s.run(j, exec, sess, steps, r, done)
	return j
}

// run places steps one at a time, waiting the configured delay between two placements.
func (s *Sorter) run(j *Job, exec Executor, sess *placement.Session, steps []step, r Report, done func(Report)) {
	defer close(j.done)

	var bar *progressbar.ProgressBar
	if s.conf.Progress {
		bar = progressbar.Default(int64(len(steps)), "Sorting items")
	}
	t := time.NewTicker(s.conf.Delay)
	defer t.Stop()

	for i, st := range steps {
		if i > 0 {
			select {
			case <-j.stop:
			case <-t.C:
			}
		}
		if j.cancelled() {
			s.log.Debug("sort job cancelled", "placed", i, "remaining", len(steps)-i)
			return
		}
		<-exec.Exec(func(w placement.World) {
			s.place(w, sess, st, &r)
		})
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	s.mu.Lock()
	if s.current == j {
		s.current = nil
	}
	s.mu.Unlock()
	s.finish(r, done)
}

// place ...
func (s *Sorter) place(w placement.World, sess *placement.Session, st step, r *Report) {
	out, err := s.engine.Place(w, sess, st.item, st.spec)
	if out == placement.Success {
		r.Sorted++
		return
	}
	s.log.Warn("could not sort item", "item", st.item.Key(), "outcome", out, "error", err)
	if st.item.Category().Scrap() {
		r.ScrapFailed++
	} else {
		r.ToolsFailed++
	}
}

// finish ...
func (s *Sorter) finish(r Report, done func(Report)) {
	s.log.Info("finished sorting items", "sorted", r.Sorted, "skipped", r.Skipped, "failed", r.Failed())
	if done != nil {
		done(r)
	}
}
