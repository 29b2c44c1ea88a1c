package dispatcher

import (
	"context"
	"fmt"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"

	"github.com/saltstack/tamarack/internal/model"
	"github.com/saltstack/tamarack/internal/owners"
)

// assignReviewers requests reviews from the code owners of the changed
// files. No owners matching is not an error: the PR simply gets no
// reviewers from the bot.
func (d *Dispatcher) assignReviewers(ctx context.Context, event *model.Event, log logze.Logger) error {
	timer := abstract.StartTimer()

	resolved, err := d.resolveOwners(ctx, event, log)
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		log.Info("no code owners were found, no reviewers requested")
		return nil
	}

	req := owners.Partition(resolved)

	log.Info("requesting reviewers", "reviewers", resolved)

	if err := d.provider.RequestReviewers(ctx, event.Repo, event.PullRequest.Number, req); err != nil {
		return errm.Wrap(err, "failed to request reviewers")
	}

	log.Info("requested reviewers",
		"individuals", len(req.Reviewers),
		"teams", len(req.TeamReviewers),
		"elapsed_time", timer.ElapsedTime().String(),
	)

	return nil
}

// mentionReviewers posts a comment on the PR thanking the author and
// mentioning the code owners of the changed files.
func (d *Dispatcher) mentionReviewers(ctx context.Context, event *model.Event, log logze.Logger) error {
	author := event.PullRequest.Author
	if author == "" {
		return model.NewResourceNotFound("pull request owner", event.PullRequest.Number)
	}

	resolved, err := d.resolveOwners(ctx, event, log)
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		log.Info("no code owners were found, no comment posted")
		return nil
	}

	comment := fmt.Sprintf("Hi @%s - thank you for your pull request! "+
		"Based on the CODEOWNERS file in this repository, we identified %s "+
		"to review this change.", author, owners.JoinNames(resolved))

	log.Info("posting mention comment", "owners", resolved)

	if err := d.provider.CreateComment(ctx, event.Repo, event.PullRequest.Number, comment); err != nil {
		return errm.Wrap(err, "failed to post mention comment")
	}

	return nil
}

// resolveOwners runs the fetch files -> fetch owners file -> resolve
// pipeline for one pull request.
func (d *Dispatcher) resolveOwners(ctx context.Context, event *model.Event, log logze.Logger) ([]string, error) {
	pr := event.PullRequest
	if event.Repo == "" {
		return nil, model.NewResourceNotFound("repository URL", pr.Number)
	}
	if pr.Number == 0 {
		return nil, model.NewResourceNotFound("pull request URL", 0)
	}

	log.Info("fetching pull request file names")
	files, err := d.provider.GetChangedFiles(ctx, event.Repo, pr.Number)
	if err != nil {
		return nil, errm.Wrap(err, "failed to fetch changed files")
	}

	log.Info("fetching owners file", "branch", pr.BaseBranch)
	contents, err := d.provider.GetOwnersFileContents(ctx, event.Repo, pr.BaseBranch)
	if err != nil {
		return nil, errm.Wrap(err, "failed to fetch owners file")
	}

	rules, err := owners.ParseRules(contents)
	if err != nil {
		return nil, errm.Wrap(err, "failed to parse owners file")
	}

	resolved, err := d.resolver.Resolve(files, rules)
	if err != nil {
		return nil, errm.Wrap(err, "failed to resolve owners")
	}

	return resolved, nil
}
