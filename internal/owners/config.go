package owners

import "github.com/maxbolgarin/lang"

const (
	// SUSE reviews everything the Core team reviews, without duplicating
	// the rule file entries - see tamarack issue #14.
	defaultMirrorSubstring = "team-core"
	defaultMirrorOwner     = "@saltstack/team-suse"
)

// Config controls the resolver's mirror policy. An empty MirrorSubstring
// after Prepare disables mirroring entirely.
type Config struct {
	MirrorSubstring string `yaml:"mirror_substring" env:"OWNERS_MIRROR_SUBSTRING"`
	MirrorOwner     string `yaml:"mirror_owner" env:"OWNERS_MIRROR_OWNER"`
	Disabled        bool   `yaml:"mirror_disabled" env:"OWNERS_MIRROR_DISABLED"`
}

// Prepare fills in the historical defaults.
func (cfg *Config) Prepare() {
	if cfg.Disabled {
		cfg.MirrorSubstring = ""
		cfg.MirrorOwner = ""
		return
	}
	cfg.MirrorSubstring = lang.Check(cfg.MirrorSubstring, defaultMirrorSubstring)
	cfg.MirrorOwner = lang.Check(cfg.MirrorOwner, defaultMirrorOwner)
}
