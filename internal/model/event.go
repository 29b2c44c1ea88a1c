package model

// EventKind classifies an inbound webhook event for dispatch.
type EventKind string

const (
	// EventPullRequest is an event carrying a pull request payload.
	EventPullRequest EventKind = "pull_request"
	// EventCreate is a branch or tag creation event.
	EventCreate EventKind = "create"
	// EventIgnored is any event the bot does not act on.
	EventIgnored EventKind = "ignored"
)

// Event is the normalized representation of a webhook payload.
// Kind is derived from field presence at parse time, so an event is always
// exactly one of pull-request, create or ignored.
type Event struct {
	Kind   EventKind
	Action string

	// Repo is the repository in "owner/name" form.
	Repo string

	// RefType and Ref are set on create events only.
	RefType string
	Ref     string

	// PullRequest is set on pull request events only.
	PullRequest *PullRequest
}

// PullRequest holds the pull request fields the dispatcher needs.
type PullRequest struct {
	Number     int
	Title      string
	Author     string
	BaseBranch string
}
