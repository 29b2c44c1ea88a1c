// Package owners resolves changed file paths against a CODEOWNERS-style
// rule file to determine who should review a pull request.
package owners

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maxbolgarin/errm"

	"github.com/saltstack/tamarack/internal/model"
)

// Rule is one line of the ownership rule file: a path pattern and the owner
// responsible for files matching it. The owner is either a bare handle or a
// "group/name" team handle.
type Rule struct {
	Pattern string
	Owner   string
}

// ParseRules parses the raw text of an ownership rule file. Blank lines and
// lines starting with '#' are skipped. Any other line must contain exactly
// two whitespace-separated fields.
func ParseRules(contents string) ([]Rule, error) {
	var rules []Rule
	for i, line := range strings.Split(contents, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, &ParseError{Line: i + 1, Text: line}
		}
		rules = append(rules, Rule{Pattern: fields[0], Owner: fields[1]})
	}
	return rules, nil
}

// Resolver matches changed files against ownership rules. The mirror policy
// appends a fixed extra owner after every owner containing the configured
// substring, so one group can shadow another's review scope without
// duplicating rule file entries.
type Resolver struct {
	cfg Config
}

// NewResolver creates a resolver with the given config.
func NewResolver(cfg Config) *Resolver {
	cfg.Prepare()
	return &Resolver{cfg: cfg}
}

// Resolve returns the owners of the given changed files, in rule file order
// with files iterated inside each rule. Duplicates are kept: a file matching
// two rules, or two files matching one rule, each contribute an entry.
func (r *Resolver) Resolve(files []string, rules []Rule) ([]string, error) {
	var matches []string
	for _, rule := range rules {
		for _, file := range files {
			ok, err := doublestar.Match(rule.Pattern, file)
			if err != nil {
				return nil, errm.Wrap(err, "bad pattern", "pattern", rule.Pattern)
			}
			if !ok {
				continue
			}
			matches = append(matches, rule.Owner)
			if r.cfg.MirrorSubstring != "" && strings.Contains(rule.Owner, r.cfg.MirrorSubstring) {
				matches = append(matches, r.cfg.MirrorOwner)
			}
		}
	}
	return matches, nil
}

// Partition splits resolved owners into individual reviewers and team
// reviewers. Team handles have the form "group/name"; only the name part is
// sent to the review-request API.
func Partition(resolved []string) model.ReviewRequest {
	var req model.ReviewRequest
	for _, owner := range resolved {
		if _, team, ok := strings.Cut(owner, "/"); ok {
			req.TeamReviewers = append(req.TeamReviewers, team)
		} else {
			req.Reviewers = append(req.Reviewers, owner)
		}
	}
	return req
}

// JoinNames joins owner names into a natural-language list:
// "a", "a and b", "a, b, and c".
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
