// Package dispatcher routes inbound webhook events to the right follow-up
// action: requesting reviewers, posting a mention comment, or announcing a
// new branch in chat.
package dispatcher

import (
	"context"
	"strings"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/saltstack/tamarack/internal/model"
	"github.com/saltstack/tamarack/internal/owners"
)

const (
	actionOpened = "opened"

	refTypeBranch = "branch"

	// Merge-forward PRs are automated branch syncs, reviewers are not
	// assigned to them.
	mergeForwardMarker = "Merge forward"
)

// Dispatcher decides what to do with an inbound event. It holds no state
// across events: every event is classified and processed independently.
type Dispatcher struct {
	provider model.CodeProvider
	notifier model.ChatNotifier // nil when no chat webhook is configured
	resolver *owners.Resolver
	cfg      Config
	pool     *ants.Pool
	log      logze.Logger
}

// New creates a new event dispatcher. notifier may be nil, in which case
// branch creation events are logged and dropped.
func New(cfg Config, provider model.CodeProvider, notifier model.ChatNotifier) (*Dispatcher, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	d := &Dispatcher{
		provider: provider,
		notifier: notifier,
		resolver: owners.NewResolver(cfg.Owners),
		cfg:      cfg,
		log:      logze.With("module", "dispatcher"),
	}

	if cfg.Async {
		pool, err := ants.NewPool(cfg.PoolSize)
		if err != nil {
			return nil, errm.Wrap(err, "failed to create ants pool")
		}
		d.pool = pool
	}

	return d, nil
}

// HandleEvent processes one event. In synchronous mode any processing error
// is returned to the caller; in async mode the event is acknowledged at once
// and processed on the pool, with failures logged only.
func (d *Dispatcher) HandleEvent(ctx context.Context, event *model.Event) error {
	if d.pool == nil {
		return d.processEvent(ctx, event)
	}
	return d.pool.Submit(func() {
		if err := d.processEvent(context.WithoutCancel(ctx), event); err != nil {
			d.log.Err(err, "failed to process event", "kind", event.Kind, "action", event.Action)
		}
	})
}

// Stop releases the processing pool, if any.
func (d *Dispatcher) Stop(_ context.Context) error {
	if d.pool != nil {
		d.pool.Release()
	}
	return nil
}

func (d *Dispatcher) processEvent(ctx context.Context, event *model.Event) error {
	switch event.Kind {
	case model.EventPullRequest:
		return d.handlePullRequest(ctx, event)
	case model.EventCreate:
		return d.handleCreate(ctx, event)
	default:
		d.log.Debug("ignoring unrecognized event")
		return nil
	}
}

// handlePullRequest acts on "opened" pull requests only: it runs the
// configured review policy unless the PR is a merge-forward.
func (d *Dispatcher) handlePullRequest(ctx context.Context, event *model.Event) error {
	pr := event.PullRequest
	if pr == nil {
		return model.NewResourceNotFound("pull request", 0)
	}
	log := d.log.WithFields("pr_number", pr.Number, "action", event.Action)

	log.Info("received pull request event")

	if event.Action != actionOpened {
		log.Info("skipping pull request, we only care about 'opened'")
		return nil
	}

	if strings.Contains(pr.Title, mergeForwardMarker) {
		log.Info("skipping merge-forward pull request, reviewers are not assigned to merge-forward PRs")
		return nil
	}

	switch d.cfg.Policy {
	case PolicyMention:
		return d.mentionReviewers(ctx, event, log)
	default:
		return d.assignReviewers(ctx, event, log)
	}
}

// handleCreate announces new branches in chat. Other created refs (tags)
// are ignored.
func (d *Dispatcher) handleCreate(ctx context.Context, event *model.Event) error {
	log := d.log.WithFields("ref_type", event.RefType, "ref", event.Ref)

	if event.RefType != refTypeBranch {
		log.Info("skipping create event, we only care about branches")
		return nil
	}
	if d.notifier == nil {
		log.Info("new branch created, but no chat webhook is configured")
		return nil
	}

	log.Info("announcing new branch")

	err := d.notifier.SendMessage(ctx, "A new branch has been created: "+event.Ref)
	if err != nil {
		return errm.Wrap(err, "failed to send branch notification")
	}

	return nil
}
