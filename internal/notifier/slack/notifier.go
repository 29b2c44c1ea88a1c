// Package slack posts notifications to a Slack-compatible incoming webhook.
package slack

import (
	"context"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/saltstack/tamarack/internal/model"
)

var _ model.ChatNotifier = (*Notifier)(nil)

// message is the payload shape the incoming webhook expects.
type message struct {
	Text string `json:"text"`
}

// Notifier sends messages to a fixed webhook destination.
type Notifier struct {
	cfg Config
	cli *cliex.HTTP
	log logze.Logger
}

// New creates a new Slack notifier.
func New(cfg Config) (*Notifier, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	log := logze.With("notifier", "slack")

	cli, err := cliex.NewWithConfig(cliex.Config{
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to create HTTP client")
	}

	return &Notifier{
		cfg: cfg,
		cli: cli,
		log: log,
	}, nil
}

// SendMessage posts a single text message to the configured webhook.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if _, err := n.cli.Post(ctx, n.cfg.WebhookURL, message{Text: text}); err != nil {
		return errm.Wrap(err, "failed to post chat notification")
	}

	n.log.Debug("sent chat notification")

	return nil
}
