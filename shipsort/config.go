package shipsort

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/df-mc/dragonfly/server"
	"github.com/restartfu/gophig"
	"github.com/sandertv/gophertunnel/minecraft/text"
	"github.com/smell-of-curry/shipsort/shipsort/internal"
	"github.com/smell-of-curry/shipsort/shipsort/scene"
	"github.com/smell-of-curry/shipsort/shipsort/ship"
	"github.com/smell-of-curry/shipsort/shipsort/util"
)

// defaultAPIKey is the placeholder key written to new configs. The position api does not start
// while it is still in place.
const defaultAPIKey = "secret-key"

// Config holds the server configuration, including paths, sorting behaviour and service-related settings.
type Config struct {
	ShipSort struct {
		SentryDsn string
		LogLevel  string // Can be "debug", "info", "warn", "error"

		PositionsPath string
		CatalogPath   string
		LocalePath    string

		// SortDelay is the time between two placements. Below 10ms every item is placed at once.
		SortDelay       util.Duration
		AutoSort        bool
		ConsoleProgress bool

		// Crew lists the players allowed to join. Everyone may join when it is empty.
		Crew []string
	}
	Translation struct {
		MessageJoin             string
		MessageLeave            string
		MessageServerDisconnect string
	}
	Scene    scene.Config
	Surfaces ship.SurfaceConfig
	Service  struct {
		GinAddress string
		APIKey     string
	}
	server.UserConfig
}

// DefaultConfig returns a config with prefilled default values.
func DefaultConfig() Config {
	c := Config{}

	c.ShipSort.SentryDsn = ""
	c.ShipSort.LogLevel = "info" // Default to info level in production
	c.ShipSort.PositionsPath = "resources/positions.toml"
	c.ShipSort.CatalogPath = "resources/items.yaml"
	c.ShipSort.LocalePath = "resources/locales"
	c.ShipSort.SortDelay = util.Duration(internal.DefaultSortDelay)
	c.ShipSort.AutoSort = true
	c.ShipSort.ConsoleProgress = false

	c.Translation.MessageJoin = "<yellow>%v boarded the ship</yellow>"
	c.Translation.MessageLeave = "<yellow>%v left the ship</yellow>"
	c.Translation.MessageServerDisconnect = "<yellow>The ship has been shut down</yellow>"

	c.Scene = scene.DefaultConfig()
	c.Surfaces = ship.DefaultSurfaceConfig()

	c.Service.GinAddress = ":8080"
	c.Service.APIKey = defaultAPIKey

	userConfig := server.DefaultConfig()
	userConfig.Server.Name = text.Colourf("<aqua>Ship</aqua><white>Sort</white>")
	userConfig.World.Folder = "resources/world"

	userConfig.Players.Folder = "resources/player_data"
	userConfig.Players.MaximumChunkRadius = 8

	c.UserConfig = userConfig

	return c
}

// SortDelay ...
func (c Config) SortDelay() time.Duration {
	return time.Duration(c.ShipSort.SortDelay)
}

// ServiceEnabled reports whether the position api should be started. It stays disabled without an
// address, and while the api key is empty or still the default one.
func (c Config) ServiceEnabled() bool {
	key := strings.TrimSpace(c.Service.APIKey)
	return c.Service.GinAddress != "" && key != "" && key != defaultAPIKey
}

// ParseLogLevel returns the appropriate slog.Level based on string configuration.
// Returns an error if the provided log level string is not recognized.
func ParseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unrecognized log level: %q", level)
	}
}

// ReadConfig loads the server configuration from config.toml.
// If the file doesn't exist, it creates a new one with default values.
func ReadConfig() (Config, error) {
	return readConfig("./config.toml")
}

// readConfig ...
func readConfig(path string) (Config, error) {
	g := gophig.NewGophig[Config](path, gophig.TOMLMarshaler{}, os.ModePerm)
	_, err := g.LoadConf()
	if os.IsNotExist(err) {
		err = g.SaveConf(DefaultConfig())
		if err != nil {
			return Config{}, err
		}
	}
	c, err := g.LoadConf()
	return c, err
}
