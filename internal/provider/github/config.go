package github

import (
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultBaseURL        = "https://github.com"
	defaultOwnersFilePath = ".github/CODEOWNERS"
	defaultRequestTimeout = 10 * time.Second

	// AlgorithmSHA1 is the historical GitHub webhook signature algorithm
	// (X-Hub-Signature header).
	AlgorithmSHA1 = "sha1"
	// AlgorithmSHA256 is the current one (X-Hub-Signature-256 header).
	AlgorithmSHA256 = "sha256"
)

// Config represents GitHub client configuration.
type Config struct {
	Token              string        `yaml:"token" env:"GITHUB_TOKEN"`
	BaseURL            string        `yaml:"base_url" env:"GITHUB_BASE_URL"`
	WebhookSecret      string        `yaml:"webhook_secret" env:"HOOK_SECRET_KEY"`
	SignatureAlgorithm string        `yaml:"signature_algorithm" env:"SIGNATURE_ALGORITHM"`
	OwnersFilePath     string        `yaml:"owners_file_path" env:"OWNERS_FILE_PATH"`
	RequestTimeout     time.Duration `yaml:"request_timeout" env:"GITHUB_REQUEST_TIMEOUT"`
}

func (cfg *Config) PrepareAndValidate() error {
	if cfg.Token == "" {
		return errm.New("the bot was started without a GitHub authentication token, " +
			"set the GITHUB_TOKEN environment variable")
	}
	if cfg.WebhookSecret == "" {
		return errm.New("the bot was started without a webhook secret key, " +
			"set the token in the bot's webhook settings page and " +
			"set the HOOK_SECRET_KEY environment variable")
	}

	cfg.SignatureAlgorithm = lang.Check(cfg.SignatureAlgorithm, AlgorithmSHA1)
	if cfg.SignatureAlgorithm != AlgorithmSHA1 && cfg.SignatureAlgorithm != AlgorithmSHA256 {
		return errm.Errorf("unsupported signature algorithm %q", cfg.SignatureAlgorithm)
	}

	cfg.OwnersFilePath = lang.Check(cfg.OwnersFilePath, defaultOwnersFilePath)
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return nil
}
