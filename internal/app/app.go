// Package app wires the bot's components together.
package app

import (
	"context"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/saltstack/tamarack/internal/config"
	"github.com/saltstack/tamarack/internal/dispatcher"
	"github.com/saltstack/tamarack/internal/model"
	"github.com/saltstack/tamarack/internal/notifier/slack"
	"github.com/saltstack/tamarack/internal/provider/github"
	"github.com/saltstack/tamarack/internal/server"
)

// Tamarack is the main service that orchestrates all components.
type Tamarack struct {
	provider   model.CodeProvider
	notifier   model.ChatNotifier
	dispatcher *dispatcher.Dispatcher
	server     *server.Server

	cfg config.Config
	log logze.Logger
}

// New creates the fully wired bot.
func New(ctx contem.Context, cfg config.Config) (*Tamarack, error) {
	service := &Tamarack{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := service.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize service")
	}

	return service, nil
}

// Start starts the webhook server.
func (s *Tamarack) Start(ctx context.Context) error {
	if err := s.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start webhook server")
	}
	return nil
}

func (s *Tamarack) init(ctx contem.Context, cfg config.Config) (err error) {

	// Create the code host client
	s.provider, err = github.New(cfg.Provider)
	if err != nil {
		return errm.Wrap(err, "failed to create code host client")
	}

	// Chat notifications are optional: without a webhook URL new-branch
	// events are logged and dropped.
	if cfg.Notifier.WebhookURL != "" {
		s.notifier, err = slack.New(cfg.Notifier)
		if err != nil {
			return errm.Wrap(err, "failed to create chat notifier")
		}
	} else {
		s.log.Info("no chat webhook URL configured, branch notifications are disabled")
	}

	// Create the event dispatcher - this is the central orchestrator
	s.dispatcher, err = dispatcher.New(cfg.Review, s.provider, s.notifier)
	if err != nil {
		return errm.Wrap(err, "failed to create event dispatcher")
	}
	ctx.Add(s.dispatcher.Stop)

	// Create the webhook server - just an event source
	s.server, err = server.New(cfg.Server, s.provider, s.dispatcher)
	if err != nil {
		return errm.Wrap(err, "failed to create webhook server")
	}
	ctx.Add(s.server.Stop)

	return nil
}
