package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/saltstack/tamarack/internal/model"
)

const testSecret = "superSecretTestingKey"

func newProvider(t *testing.T, cfg Config) *Provider {
	t.Helper()
	if cfg.Token == "" {
		cfg.Token = "test-token"
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = testSecret
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestValidateWebhook(t *testing.T) {
	// Digests of "hello world" keyed with the test secret.
	const (
		sha1Digest   = "27a5d3cdd8ea4f3a3bcb5d807d44463191801509"
		sha256Digest = "132f4ed9b7083ef62547c884a2f9321255c6213c7a2386eba037b807693feb12"
	)

	tests := []struct {
		name      string
		algorithm string
		body      string
		signature string
		wantErr   bool
	}{
		{
			name:      "valid_sha1",
			body:      "hello world",
			signature: "sha1=" + sha1Digest,
		},
		{
			name:      "valid_sha256",
			algorithm: AlgorithmSHA256,
			body:      "hello world",
			signature: "sha256=" + sha256Digest,
		},
		{
			name:      "mutated_body",
			body:      "hello worlD",
			signature: "sha1=" + sha1Digest,
			wantErr:   true,
		},
		{
			name:      "mutated_digest",
			body:      "hello world",
			signature: "sha1=07a5d3cdd8ea4f3a3bcb5d807d44463191801509",
			wantErr:   true,
		},
		{
			name:      "wrong_algorithm",
			body:      "hello world",
			signature: "foo=" + sha1Digest,
			wantErr:   true,
		},
		{
			name:      "sha256_signature_with_sha1_config",
			body:      "hello world",
			signature: "sha256=" + sha256Digest,
			wantErr:   true,
		},
		{
			name:      "missing_separator",
			body:      "hello world",
			signature: sha1Digest,
			wantErr:   true,
		},
		{
			name:    "missing_signature",
			body:    "hello world",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProvider(t, Config{SignatureAlgorithm: tt.algorithm})
			err := p.ValidateWebhook([]byte(tt.body), tt.signature)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWebhook() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateWebhookMutatedSecret(t *testing.T) {
	p := newProvider(t, Config{WebhookSecret: "superSecretTestingKex"})
	err := p.ValidateWebhook([]byte("hello world"), "sha1=27a5d3cdd8ea4f3a3bcb5d807d44463191801509")
	if err == nil {
		t.Fatal("ValidateWebhook() error = nil, want an error for a mutated secret")
	}
}

func TestParseWebhookEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *model.Event
	}{
		{
			name: "pull_request_event",
			payload: `{
				"action": "opened",
				"number": 42,
				"pull_request": {
					"number": 42,
					"title": "Add PKI auth",
					"url": "https://api.github.com/repos/saltstack/salt/pulls/42",
					"issue_url": "https://api.github.com/repos/saltstack/salt/issues/42",
					"base": {"ref": "develop"},
					"user": {"login": "rallytime"}
				},
				"repository": {"full_name": "saltstack/salt"}
			}`,
			want: &model.Event{
				Kind:   model.EventPullRequest,
				Action: "opened",
				Repo:   "saltstack/salt",
				PullRequest: &model.PullRequest{
					Number:     42,
					Title:      "Add PKI auth",
					Author:     "rallytime",
					BaseBranch: "develop",
				},
			},
		},
		{
			name:    "pull_request_number_fallback",
			payload: `{"action": "opened", "number": 7, "pull_request": {"title": "x"}, "repository": {"full_name": "saltstack/salt"}}`,
			want: &model.Event{
				Kind:        model.EventPullRequest,
				Action:      "opened",
				Repo:        "saltstack/salt",
				PullRequest: &model.PullRequest{Number: 7, Title: "x"},
			},
		},
		{
			name:    "create_event",
			payload: `{"ref_type": "branch", "ref": "feature-x", "repository": {"full_name": "saltstack/salt"}}`,
			want: &model.Event{
				Kind:    model.EventCreate,
				Repo:    "saltstack/salt",
				RefType: "branch",
				Ref:     "feature-x",
			},
		},
		{
			name:    "unrecognized_event",
			payload: `{"action": "completed", "repository": {"full_name": "saltstack/salt"}}`,
			want: &model.Event{
				Kind:   model.EventIgnored,
				Action: "completed",
				Repo:   "saltstack/salt",
			},
		},
	}

	p := newProvider(t, Config{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseWebhookEvent([]byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseWebhookEvent() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWebhookEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseWebhookEventBadJSON(t *testing.T) {
	p := newProvider(t, Config{})
	if _, err := p.ParseWebhookEvent([]byte("{not json")); err == nil {
		t.Fatal("ParseWebhookEvent() error = nil, want an error")
	}
}

// apiProvider spins up a fake GitHub API and points a provider at it.
func apiProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newProvider(t, Config{BaseURL: srv.URL})
}

func TestGetChangedFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/saltstack/salt/pulls/42/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"filename": "salt/auth/pki.py"}, {"filename": "doc/index.rst"}]`)
	})

	p := apiProvider(t, mux)

	got, err := p.GetChangedFiles(context.Background(), "saltstack/salt", 42)
	if err != nil {
		t.Fatalf("GetChangedFiles() error = %v", err)
	}
	want := []string{"salt/auth/pki.py", "doc/index.rst"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetChangedFiles() = %v, want %v", got, want)
	}
}

func TestGetChangedFilesNotFound(t *testing.T) {
	p := apiProvider(t, http.NotFoundHandler())

	if _, err := p.GetChangedFiles(context.Background(), "saltstack/salt", 42); err == nil {
		t.Fatal("GetChangedFiles() error = nil, want an error")
	}
}

func TestGetOwnersFileContents(t *testing.T) {
	const ownersFile = "salt/state.py @team-state\nsalt/auth/* @team-core\n"

	var gotRef string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/saltstack/salt/contents/.github/CODEOWNERS", func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		resp := map[string]string{
			"type":     "file",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(ownersFile)),
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Error(err)
		}
	})

	p := apiProvider(t, mux)

	got, err := p.GetOwnersFileContents(context.Background(), "saltstack/salt", "develop")
	if err != nil {
		t.Fatalf("GetOwnersFileContents() error = %v", err)
	}
	if got != ownersFile {
		t.Errorf("GetOwnersFileContents() = %q, want %q", got, ownersFile)
	}
	if gotRef != "develop" {
		t.Errorf("ref = %q, want %q", gotRef, "develop")
	}
}

func TestRequestReviewers(t *testing.T) {
	var gotBody struct {
		Reviewers     []string `json:"reviewers"`
		TeamReviewers []string `json:"team_reviewers"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/saltstack/salt/pulls/42/requested_reviewers", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Error(err)
		}
		fmt.Fprint(w, `{"number": 42}`)
	})

	p := apiProvider(t, mux)

	req := model.ReviewRequest{
		Reviewers:     []string{"@alice"},
		TeamReviewers: []string{"team-suse"},
	}
	if err := p.RequestReviewers(context.Background(), "saltstack/salt", 42, req); err != nil {
		t.Fatalf("RequestReviewers() error = %v", err)
	}

	if !reflect.DeepEqual(gotBody.Reviewers, []string{"@alice"}) {
		t.Errorf("reviewers = %v", gotBody.Reviewers)
	}
	if !reflect.DeepEqual(gotBody.TeamReviewers, []string{"team-suse"}) {
		t.Errorf("team_reviewers = %v", gotBody.TeamReviewers)
	}
}

func TestCreateComment(t *testing.T) {
	var gotBody struct {
		Body string `json:"body"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/saltstack/salt/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})

	p := apiProvider(t, mux)

	if err := p.CreateComment(context.Background(), "saltstack/salt", 42, "Hi there"); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if gotBody.Body != "Hi there" {
		t.Errorf("comment body = %q, want %q", gotBody.Body, "Hi there")
	}
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		repo    string
		owner   string
		name    string
		wantErr bool
	}{
		{repo: "saltstack/salt", owner: "saltstack", name: "salt"},
		{repo: "saltstack", wantErr: true},
		{repo: "/salt", wantErr: true},
		{repo: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.repo, func(t *testing.T) {
			owner, name, err := splitRepo(tt.repo)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitRepo(%q) error = %v, wantErr %v", tt.repo, err, tt.wantErr)
			}
			if owner != tt.owner || name != tt.name {
				t.Errorf("splitRepo(%q) = %q, %q", tt.repo, owner, name)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing_token", cfg: Config{WebhookSecret: testSecret}},
		{name: "missing_secret", cfg: Config{Token: "test-token"}},
		{name: "bad_algorithm", cfg: Config{Token: "test-token", WebhookSecret: testSecret, SignatureAlgorithm: "md5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("New() error = nil, want an error")
			}
		})
	}
}
