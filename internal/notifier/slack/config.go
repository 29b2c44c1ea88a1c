package slack

import (
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultUserAgent      = "tamarack-bot"
	defaultRequestTimeout = 10 * time.Second
)

// Config represents chat notifier configuration. WebhookURL is optional at
// the application level: without it the notifier is not constructed at all.
type Config struct {
	WebhookURL     string        `yaml:"webhook_url" env:"SLACK_WEBHOOK_URL"`
	UserAgent      string        `yaml:"user_agent" env:"SLACK_USER_AGENT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SLACK_REQUEST_TIMEOUT"`
}

func (cfg *Config) PrepareAndValidate() error {
	if cfg.WebhookURL == "" {
		return errm.New("webhook URL is required")
	}

	cfg.UserAgent = lang.Check(cfg.UserAgent, defaultUserAgent)
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return nil
}
