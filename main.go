package main

import (
	"log/slog"
	"time"

	"github.com/df-mc/dragonfly/server/player/chat"
	"github.com/getsentry/sentry-go"
	"github.com/smell-of-curry/shipsort/shipsort"
)

// init ...
func init() {
	chat.Global.Subscribe(chat.StdoutSubscriber{})
}

// main ...
func main() {
	conf, err := shipsort.ReadConfig()
	if err != nil {
		panic(err)
	}

	level, err := shipsort.ParseLogLevel(conf.ShipSort.LogLevel)
	if err != nil {
		slog.Warn("invalid log level, using info", "error", err)
	}
	slog.SetLogLoggerLevel(level)
	log := slog.Default()

	if dsn := conf.ShipSort.SentryDsn; dsn != "" {
		if err = sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Error("failed to initialise sentry", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	s, err := shipsort.NewShipSort(log, conf)
	if err != nil {
		panic(err)
	}

	s.Start()
}
