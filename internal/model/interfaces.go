package model

import "context"

// CodeProvider defines the operations the bot needs from the code host.
// Each call is an at-most-once remote request; retry is left to the caller
// of the bot (webhook re-delivery).
type CodeProvider interface {
	// Webhook handling
	ValidateWebhook(payload []byte, signature string) error
	ParseWebhookEvent(payload []byte) (*Event, error)

	// PR operations
	GetChangedFiles(ctx context.Context, repo string, prNumber int) ([]string, error)
	GetOwnersFileContents(ctx context.Context, repo, branch string) (string, error)
	RequestReviewers(ctx context.Context, repo string, prNumber int, req ReviewRequest) error
	CreateComment(ctx context.Context, repo string, prNumber int, body string) error
}

// ChatNotifier posts a message to a fixed chat destination.
type ChatNotifier interface {
	SendMessage(ctx context.Context, text string) error
}
