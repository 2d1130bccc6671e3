package ship

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/df-mc/atomic"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"github.com/smell-of-curry/shipsort/shipsort/position"
	"github.com/smell-of-curry/shipsort/shipsort/resolve"
	"github.com/smell-of-curry/shipsort/shipsort/sorter"
)

var (
	// ErrNoItems is returned when there is nothing on the ship to sort.
	ErrNoItems = errors.New("no items to sort")
	// ErrUnknownItem is returned when an item name is neither in the catalog nor on the ship.
	ErrUnknownItem = errors.New("invalid item name")
)

// When is how long a position set with Put lasts.
type When uint8

const (
	// Once only moves the items currently on the ship.
	Once When = iota
	// Game keeps the position until the next session starts.
	Game
	// Always saves the position to the configuration.
	Always
)

// ParseWhen parses the duration argument of the put command.
func ParseWhen(s string) (When, error) {
	switch s {
	case "once", "now":
		return Once, nil
	case "game", "round":
		return Game, nil
	case "always", "save":
		return Always, nil
	}
	return 0, fmt.Errorf("unknown duration %q", s)
}

// String ...
func (w When) String() string {
	switch w {
	case Game:
		return "game"
	case Always:
		return "always"
	default:
		return "once"
	}
}

// Manager runs sort passes on the ship.
type Manager struct {
	log      *slog.Logger
	ship     *Ship
	store    *layers.Store
	resolver *resolve.Resolver
	sorter   *sorter.Sorter

	autoSort atomic.Bool
	day      atomic.Value[int64]
}

var globalManager *Manager

// Global ...
func Global() *Manager {
	return globalManager
}

// NewManager ...
func NewManager(log *slog.Logger, s *Ship, store *layers.Store, r *resolve.Resolver, srt *sorter.Sorter, autoSort bool) *Manager {
	m := &Manager{
		log:      log,
		ship:     s,
		store:    store,
		resolver: r,
		sorter:   srt,
	}
	m.autoSort.Store(autoSort)
	m.day.Store(-1)

	globalManager = m
	return m
}

// Ship ...
func (m *Manager) Ship() *Ship {
	return m.ship
}

// Store ...
func (m *Manager) Store() *layers.Store {
	return m.store
}

// Resolver ...
func (m *Manager) Resolver() *resolve.Resolver {
	return m.resolver
}

// AutoSort reports whether the ship is sorted automatically when it leaves the moon.
func (m *Manager) AutoSort() bool {
	return m.autoSort.Load()
}

// SetAutoSort ...
func (m *Manager) SetAutoSort(v bool) {
	m.autoSort.Store(v)
}

// Sort sorts every item on the ship. done receives the report of the pass, either before Sort
// returns or, for throttled passes, once the job has finished.
func (m *Manager) Sort(tx *world.Tx, opts sorter.Options, done func(sorter.Report)) (int, error) {
	items := m.ship.Items(tx)
	if len(items) == 0 {
		return 0, ErrNoItems
	}
	_, err := m.sorter.Sort(m.ship.Bind(tx), m.ship, toSorterItems(items), opts, done)
	return len(items), err
}

// Put moves every item of the type key to local, relative to anchor or the ship when nil. For
// Game and Always the position is also kept for later passes.
func (m *Manager) Put(tx *world.Tx, key string, local mgl64.Vec3, anchor position.Anchor, when When, done func(sorter.Report)) (int, error) {
	key = layers.Key(key)
	switch when {
	case Game:
		m.store.SetRoundOverride(key, local, anchor)
	case Always:
		text := position.Format(position.Spec{Position: &local, Anchor: anchor})
		if _, err := m.store.SetItem(key, text); err != nil {
			return 0, err
		}
	}

	items := lo.Filter(m.ship.Items(tx), func(i *Item, _ int) bool {
		return i.key == key
	})
	if len(items) == 0 {
		if when == Once {
			return 0, ErrNoItems
		}
		return 0, nil
	}
	m.log.Debug("moving items", "item", key, "position", local, "count", len(items), "when", when)
	m.sorter.MoveAll(m.ship.Bind(tx), m.ship, toSorterItems(items), position.Spec{Position: &local, Anchor: anchor}, done)
	return len(items), nil
}

// ItemKey resolves a name typed by a player to an item key: a catalog name or key, a registered
// mod item or an item currently on the ship.
func (m *Manager) ItemKey(tx *world.Tx, name string) (string, error) {
	if e, ok := m.ship.catalog.Find(name); ok {
		return e.Key, nil
	}
	key := layers.Key(name)
	if _, ok := m.store.Namespace(key); ok {
		return key, nil
	}
	for _, i := range m.ship.Items(tx) {
		if i.key == key || layers.Key(i.name) == key {
			return i.key, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrUnknownItem)
}

// NewSession starts a new session: positions set for the previous game are forgotten and any
// running sort job is cancelled.
func (m *Manager) NewSession() {
	m.sorter.Cancel()
	m.store.ResetRound()
	m.log.Debug("started new session")
}

// Tick checks whether a new day has started and, if so, sorts the ship when automatic sorting is
// enabled. The first tick only records the current day.
func (m *Manager) Tick(tx *world.Tx) {
	day := int64(tx.World().Time()) / internal.DayLength
	prev := m.day.Load()
	m.day.Store(day)
	if prev < 0 || day <= prev || !m.AutoSort() {
		return
	}

	m.log.Info("ship left the moon, sorting items", "day", day)
	_, err := m.Sort(tx, sorter.Options{Automatic: true}, func(r sorter.Report) {
		if r.Failed() > 0 {
			m.log.Warn("automatic sorting failed", "summary", r.Summary())
		}
	})
	if err != nil && !errors.Is(err, ErrNoItems) {
		m.log.Error("automatic sorting failed", "error", err)
	}
}

// toSorterItems ...
func toSorterItems(items []*Item) []sorter.Item {
	return lo.Map(items, func(i *Item, _ int) sorter.Item {
		return i
	})
}

// Close cancels the running sort job, if any.
func (m *Manager) Close() {
	m.sorter.Cancel()
}
