// Package config holds the application configuration, assembled from an
// optional YAML file and environment variables. The configuration is built
// once at startup and never mutated afterwards.
package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"

	"github.com/saltstack/tamarack/internal/dispatcher"
	"github.com/saltstack/tamarack/internal/notifier/slack"
	"github.com/saltstack/tamarack/internal/provider/github"
	"github.com/saltstack/tamarack/internal/server"
)

const defaultLogLevel = "info"

// Config represents the main application configuration. Component sections
// are validated by the components themselves at construction time.
type Config struct {
	Server   server.Config     `yaml:"server"`
	Provider github.Config     `yaml:"provider"`
	Notifier slack.Config      `yaml:"notifier"`
	Review   dispatcher.Config `yaml:"review"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Load reads the configuration from the given YAML file, or from the
// environment alone when path is empty.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, errm.Wrap(err, "read config file", "path", path)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, errm.Wrap(err, "read environment")
		}
	}

	cfg.LogLevel = lang.Check(cfg.LogLevel, defaultLogLevel)

	return cfg, nil
}
