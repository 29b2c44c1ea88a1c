package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"

	"github.com/saltstack/tamarack/internal/app"
	"github.com/saltstack/tamarack/internal/config"
)

var (
	Version, Branch, Commit, BuildDate string
)

var (
	configPath = kingpin.Flag("config", "path to config file").Short('c').String()
)

func main() {
	kingpin.Parse()

	var err error
	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()), contem.Exit(&err))
	defer ctx.Shutdown()

	err = run(ctx)
	if err != nil {
		logze.DefaultPtr().Error("cannot run", "error", err)
	}
}

func run(ctx contem.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return erro.Wrap(err, "load config")
	}
	logze.Init(logze.C().WithConsole().WithLevel(logLevel(cfg.LogLevel)))

	bot, err := app.New(ctx, cfg)
	if err != nil {
		return erro.Wrap(err, "new app")
	}

	if err := bot.Start(ctx); err != nil {
		return erro.Wrap(err, "start webhook server")
	}

	<-ctx.Done()

	return nil
}

func logLevel(level string) string {
	switch level {
	case "debug":
		return logze.LevelDebug
	case "warn", "warning":
		return logze.LevelWarn
	case "error":
		return logze.LevelError
	default:
		return logze.LevelInfo
	}
}
