package dispatcher

import (
	"slices"

	"github.com/maxbolgarin/errm"

	"github.com/saltstack/tamarack/internal/owners"
)

// Policy selects what to do with resolved code owners on an opened PR.
// The two policies are mutually exclusive: a deployment chooses one.
type Policy string

const (
	// PolicyAssign requests the owners as reviewers on the PR.
	PolicyAssign Policy = "assign"
	// PolicyMention posts a comment mentioning the owners instead.
	PolicyMention Policy = "mention"
)

var supportedPolicies = []Policy{PolicyAssign, PolicyMention}

const defaultPoolSize = 100

// Config represents event dispatch configuration.
type Config struct {
	Policy Policy        `yaml:"policy" env:"REVIEW_POLICY"`
	Owners owners.Config `yaml:"owners"`

	// Async acknowledges webhooks immediately and processes events on a
	// pool. Processing failures are then logged instead of answered with
	// an HTTP error.
	Async    bool `yaml:"async" env:"REVIEW_ASYNC"`
	PoolSize int  `yaml:"pool_size" env:"REVIEW_POOL_SIZE"`
}

func (cfg *Config) PrepareAndValidate() error {
	if cfg.Policy == "" {
		cfg.Policy = PolicyAssign
	}
	if !slices.Contains(supportedPolicies, cfg.Policy) {
		return errm.Errorf("invalid review policy %q", cfg.Policy)
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = defaultPoolSize
	}
	return nil
}
