// Package handler provides handlers for the server.
package handler

import (
	"sync"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/smell-of-curry/shipsort/shipsort/locale"
)

// Sessions is notified when a new session starts. *ship.Manager implements it.
type Sessions interface {
	NewSession()
}

// crew tracks the players on the server. The first player to join an empty server starts a new
// session, which resets the positions that were only set for the previous one.
type crew struct {
	mu     sync.Mutex
	online int
}

// join returns true if p is the only player online.
func (c *crew) join() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.online++
	return c.online == 1
}

// leave ...
func (c *crew) leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.online > 0 {
		c.online--
	}
}

var globalCrew = &crew{}

// PlayerHandler ...
type PlayerHandler struct {
	sessions Sessions
	crew     *crew

	player.NopHandler
}

// NewPlayerHandler ...
func NewPlayerHandler(sessions Sessions) *PlayerHandler {
	return &PlayerHandler{sessions: sessions, crew: globalCrew}
}

// HandleJoin ...
func (h *PlayerHandler) HandleJoin(p *player.Player, w *world.World) {
	p.Teleport(w.Spawn().Vec3Middle())
	if h.crew.join() {
		h.sessions.NewSession()
		p.Message(locale.Translate("session.started"))
	}
}

// HandleQuit ...
func (h *PlayerHandler) HandleQuit(*player.Player) {
	h.crew.leave()
}

// HandleFoodLoss ...
func (h *PlayerHandler) HandleFoodLoss(ctx *player.Context, _ int, _ *int) {
	ctx.Cancel()
}

// HandleBlockPlace ...
func (h *PlayerHandler) HandleBlockPlace(ctx *player.Context, _ cube.Pos, _ world.Block) {
	ctx.Cancel()
}

// HandleBlockBreak ...
func (h *PlayerHandler) HandleBlockBreak(ctx *player.Context, _ cube.Pos, _ *[]item.Stack, _ *int) {
	ctx.Cancel()
}

// HandleHurt ...
func (h *PlayerHandler) HandleHurt(ctx *player.Context, _ *float64, _ bool, _ *time.Duration, _ world.DamageSource) {
	ctx.Cancel()
}
