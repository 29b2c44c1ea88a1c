// Package github implements the code host client on top of the GitHub API.
package github

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"golang.org/x/oauth2"

	"github.com/saltstack/tamarack/internal/model"
)

var _ model.CodeProvider = (*Provider)(nil)

// Provider implements the CodeProvider interface for GitHub.
type Provider struct {
	client *github.Client
	cfg    Config
	log    logze.Logger
}

// New creates a new GitHub provider.
func New(cfg Config) (*Provider, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	log := logze.With("provider", "github")

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client := github.NewClient(tc)

	// Set base URL if provided (for GitHub Enterprise)
	if cfg.BaseURL != "" && cfg.BaseURL != defaultBaseURL {
		var err error
		client, err = github.NewClient(tc).WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, errm.Wrap(err, "failed to create GitHub Enterprise client")
		}
	}

	return &Provider{
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

// ValidateWebhook validates the webhook signature against the shared secret.
// The signature header has the form "<algorithm>=<hexdigest>" and the
// algorithm must match the configured one exactly.
func (p *Provider) ValidateWebhook(payload []byte, signature string) error {
	if signature == "" {
		return errm.New("missing webhook signature")
	}

	algorithm, digest, found := strings.Cut(signature, "=")
	if !found {
		return errm.New("invalid webhook signature format")
	}
	if algorithm != p.cfg.SignatureAlgorithm {
		return errm.Errorf("unsupported signature algorithm %q, expected %q",
			algorithm, p.cfg.SignatureAlgorithm)
	}

	var newHash func() hash.Hash
	switch algorithm {
	case AlgorithmSHA1:
		newHash = sha1.New
	case AlgorithmSHA256:
		newHash = sha256.New
	default:
		return errm.Errorf("unsupported signature algorithm %q", algorithm)
	}

	mac := hmac.New(newHash, []byte(p.cfg.WebhookSecret))
	mac.Write(payload)
	calculated := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(digest), []byte(calculated)) {
		return errm.New("webhook signature verification failed")
	}

	return nil
}

// ParseWebhookEvent decodes a webhook payload into a normalized event.
// The event kind is determined by field presence: a pull_request object
// makes it a pull request event, otherwise a ref_type makes it a create
// event, otherwise it is ignored.
func (p *Provider) ParseWebhookEvent(payload []byte) (*model.Event, error) {
	var body webhookPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, errm.Wrap(err, "failed to parse webhook payload")
	}

	event := &model.Event{
		Kind:    model.EventIgnored,
		Action:  body.Action,
		Repo:    body.Repository.FullName,
		RefType: body.RefType,
		Ref:     body.Ref,
	}

	switch {
	case body.PullRequest != nil:
		event.Kind = model.EventPullRequest
		event.PullRequest = &model.PullRequest{
			Number:     body.PullRequest.Number,
			Title:      body.PullRequest.Title,
			Author:     body.PullRequest.User.Login,
			BaseBranch: body.PullRequest.Base.Ref,
		}
		if event.PullRequest.Number == 0 {
			event.PullRequest.Number = body.Number
		}
	case body.RefType != "":
		event.Kind = model.EventCreate
	}

	return event, nil
}

// GetChangedFiles returns the file names changed in a pull request.
func (p *Provider) GetChangedFiles(ctx context.Context, repo string, prNumber int) ([]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	opts := &github.ListOptions{PerPage: 100}
	var fileNames []string

	for {
		files, resp, err := p.client.PullRequests.ListFiles(ctx, owner, name, prNumber, opts)
		if err != nil {
			return nil, errm.Wrap(err, "failed to list pull request files")
		}
		for _, file := range files {
			fileNames = append(fileNames, file.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	p.log.Debug("fetched pull request file names", "pr_number", prNumber, "files", len(fileNames))

	return fileNames, nil
}

// GetOwnersFileContents returns the decoded contents of the ownership rule
// file at the given branch.
func (p *Provider) GetOwnersFileContents(ctx context.Context, repo, branch string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	var opts *github.RepositoryContentGetOptions
	if branch != "" {
		opts = &github.RepositoryContentGetOptions{Ref: branch}
	}

	fileContent, _, _, err := p.client.Repositories.GetContents(ctx, owner, name, p.cfg.OwnersFilePath, opts)
	if err != nil {
		return "", errm.Wrap(err, "failed to fetch owners file", "path", p.cfg.OwnersFilePath)
	}
	if fileContent == nil {
		return "", errm.Errorf("owners file at %s is not a file", p.cfg.OwnersFilePath)
	}

	contents, err := fileContent.GetContent()
	if err != nil {
		return "", errm.Wrap(err, "failed to decode owners file contents")
	}

	return contents, nil
}

// RequestReviewers requests the given reviewers on a pull request.
func (p *Provider) RequestReviewers(ctx context.Context, repo string, prNumber int, req model.ReviewRequest) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	reviewersRequest := github.ReviewersRequest{
		Reviewers:     req.Reviewers,
		TeamReviewers: req.TeamReviewers,
	}

	_, _, err = p.client.PullRequests.RequestReviewers(ctx, owner, name, prNumber, reviewersRequest)
	if err != nil {
		return errm.Wrap(err, "failed to request reviewers")
	}

	return nil
}

// CreateComment posts a comment on a pull request. GitHub treats PR comments
// as issue comments.
func (p *Provider) CreateComment(ctx context.Context, repo string, prNumber int, body string) error {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	comment := &github.IssueComment{
		Body: &body,
	}

	_, _, err = p.client.Issues.CreateComment(ctx, owner, name, prNumber, comment)
	if err != nil {
		return errm.Wrap(err, "failed to create pull request comment")
	}

	return nil
}

func splitRepo(repo string) (owner, name string, err error) {
	owner, name, found := strings.Cut(repo, "/")
	if !found || owner == "" || name == "" {
		return "", "", errm.Errorf("invalid GitHub repository %q, expected 'owner/repo'", repo)
	}
	return owner, name, nil
}
