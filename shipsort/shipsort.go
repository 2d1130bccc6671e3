// Package shipsort runs a server whose players share a ship full of items that are sorted into
// configured positions on command or automatically at the start of each day.
package shipsort

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/smell-of-curry/shipsort/shipsort/catalog"
	"github.com/smell-of-curry/shipsort/shipsort/command"
	"github.com/smell-of-curry/shipsort/shipsort/handler"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"github.com/smell-of-curry/shipsort/shipsort/locale"
	"github.com/smell-of-curry/shipsort/shipsort/placement"
	"github.com/smell-of-curry/shipsort/shipsort/position"
	"github.com/smell-of-curry/shipsort/shipsort/resolve"
	"github.com/smell-of-curry/shipsort/shipsort/scene"
	"github.com/smell-of-curry/shipsort/shipsort/ship"
	"github.com/smell-of-curry/shipsort/shipsort/sorter"
	"github.com/smell-of-curry/shipsort/shipsort/translation"
	"github.com/smell-of-curry/shipsort/shipsort/web"
	"golang.org/x/text/language"
)

// ShipSort represents the main server struct.
// It holds configuration, logging, and the components that sort the ship.
type ShipSort struct {
	log  *slog.Logger
	conf Config

	srv      *server.Server
	store    *layers.Store
	resolver *resolve.Resolver
	catalog  *catalog.Catalog
	manager  *ship.Manager
	web      *web.Service

	c chan struct{}
}

// NewShipSort creates a new instance of ShipSort.
func NewShipSort(log *slog.Logger, conf Config) (*ShipSort, error) {
	log.Info("Starting Server...")

	c, err := conf.UserConfig.Config(log)
	if err != nil {
		return nil, err
	}

	s := &ShipSort{
		log:  log,
		conf: conf,

		c: make(chan struct{}),
	}

	sc, err := scene.New(conf.Scene)
	if err != nil {
		return nil, err
	}
	if err = s.loadPositions(sc); err != nil {
		return nil, err
	}
	if err = s.loadLocales(); err != nil {
		return nil, err
	}
	s.loadCommands()
	s.loadTranslations(&c)

	c.Allower = Allower{crew: conf.ShipSort.Crew}

	s.srv = c.New()
	s.srv.CloseOnProgramEnd()

	srt := sorter.New(log, s.resolver, placement.NewEngine(log, sc), sorter.Config{
		Delay:    conf.SortDelay(),
		Progress: conf.ShipSort.ConsoleProgress,
		OnFatal:  s.reportFatal,
	})
	sh := ship.New(log, s.srv.World(), sc, s.catalog, s.store, conf.Surfaces)
	s.manager = ship.NewManager(log, sh, s.store, s.resolver, srt, conf.ShipSort.AutoSort)

	s.setupGin()
	return s, nil
}

// Start begins the server's main loop, accepting connections and handling players.
// It blocks until the server is closed.
func (s *ShipSort) Start() {
	s.srv.Listen()
	s.handleWorld()

	if s.web != nil {
		go func() {
			if err := s.web.ListenAndServe(s.conf.Service.GinAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("position api stopped", "error", err)
			}
		}()
	}

	for pl := range s.srv.Accept() {
		s.accept(pl)
	}

	s.Close()
}

// handleWorld initializes and configures the world settings.
// It sets up the environment and starts background processes.
func (s *ShipSort) handleWorld() {
	w := s.World()

	w.StopWeatherCycle()
	w.StopRaining()
	w.StopThundering()
	w.SetDefaultGameMode(world.GameModeSurvival)
	w.SetTime(internal.DefaultWorldTime)
	w.StartTime()

	go s.startTicking()
}

// loadPositions loads the item catalog and the configured positions, and checks that every
// category has a usable default position.
func (s *ShipSort) loadPositions(sc *scene.Scene) error {
	cat, err := catalog.Load(s.conf.ShipSort.CatalogPath)
	if err != nil {
		return err
	}

	parser := position.NewParser(s.log, sc)
	store := layers.NewStore(s.log, parser, layers.NewBackend(s.log, s.conf.ShipSort.PositionsPath))
	cat.Register(store)
	if err = store.Load(); err != nil {
		return err
	}
	if _, err = store.Validate(); err != nil {
		s.reportFatal(err)
		return err
	}

	s.catalog, s.store = cat, store
	s.resolver = resolve.New(s.log, store)
	return nil
}

// setupGin sets up the position api. It is disabled when no address or api key is configured.
func (s *ShipSort) setupGin() {
	if s.conf.Service.GinAddress == "" {
		return
	}
	if !s.conf.ServiceEnabled() {
		s.log.Warn("position api disabled, set Service.APIKey to a key of your own to enable it", "address", s.conf.Service.GinAddress)
		return
	}
	gin.SetMode(gin.ReleaseMode)
	s.web = web.New(s.log, s.conf.Service.APIKey, s.store, s.resolver, s.catalog)
}

// loadTranslations loads the messages dragonfly broadcasts when players join and leave.
func (s *ShipSort) loadTranslations(c *server.Config) {
	conf := s.conf
	c.JoinMessage = translation.MessageJoin(conf.Translation.MessageJoin)
	c.QuitMessage = translation.MessageQuit(conf.Translation.MessageLeave)
	c.ShutdownMessage = translation.MessageServerDisconnect(conf.Translation.MessageServerDisconnect)
}

// loadLocales registers all the locales active on the server.
func (s *ShipSort) loadLocales() error {
	path := s.conf.ShipSort.LocalePath
	locales := []language.Tag{
		language.English,
	}
	for _, l := range locales {
		if err := locale.Register(l, path); err != nil {
			return err
		}
	}
	return nil
}

// loadCommands registers all the commands on the server.
func (s *ShipSort) loadCommands() {
	cmd.Register(command.NewSort())
	cmd.Register(command.NewPut())
	cmd.Register(command.NewItemNames())
	cmd.Register(command.NewAutoSort())
}

// reportFatal reports an error that stopped items from being sorted.
func (s *ShipSort) reportFatal(err error) {
	s.log.Error("item positions are broken", "error", err)
	sentry.CaptureException(err)
}

// startTicking begins the periodic ticking process for the server.
// Every tick checks whether the ship has left the moon, which starts a new day.
func (s *ShipSort) startTicking() {
	w := s.World()
	t := time.NewTicker(internal.ShipTickInterval)
	defer t.Stop()

	for {
		select {
		case <-s.c:
			return
		case <-t.C:
			w.Exec(func(tx *world.Tx) {
				s.manager.Tick(tx)
			})
		}
	}
}

// accept handles a new player joining the server.
func (s *ShipSort) accept(p *player.Player) {
	h := handler.NewPlayerHandler(s.manager)
	p.Handle(h)

	h.HandleJoin(p, s.World())
}

// Close closes the server and all its associated services.
func (s *ShipSort) Close() {
	s.log.Debug("Cancelling Sort Job...")
	s.manager.Close()
	if s.web != nil {
		s.log.Debug("Closing Position API...")
		if err := s.web.Close(); err != nil {
			s.log.Error("failed to close position api", "error", err)
		}
	}
	close(s.c)
	sentry.Flush(2 * time.Second)
}

// World returns the default world.
func (s *ShipSort) World() *world.World {
	return s.srv.World()
}
