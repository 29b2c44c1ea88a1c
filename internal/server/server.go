// Package server exposes the webhook HTTP endpoint.
package server

import (
	"context"
	"net/http"

	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"

	"github.com/saltstack/tamarack/internal/model"
)

// authHeaders are the signature headers checked on inbound webhooks, in
// order of preference.
var authHeaders = []string{
	"X-Hub-Signature",     // GitHub (legacy, sha1)
	"X-Hub-Signature-256", // GitHub (sha256)
}

// EventHandler processes a parsed webhook event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *model.Event) error
}

// Server handles webhook requests from the code host.
type Server struct {
	provider   model.CodeProvider
	dispatcher EventHandler
	config     Config
	log        logze.Logger
	server     *servex.Server
}

// New creates a new webhook server.
func New(cfg Config, provider model.CodeProvider, dispatcher EventHandler) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	log := logze.With("module", "server")

	server, err := servex.NewServer(
		servex.WithReadTimeout(cfg.Timeout),
		servex.WithIdleTimeout(cfg.Timeout*2),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(cfg.Certificate),
	)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create server")
	}

	s := &Server{
		provider:   provider,
		dispatcher: dispatcher,
		config:     cfg,
		log:        log,
		server:     server,
	}

	server.HandleFunc(cfg.Endpoint, s.handleWebhook)

	return s, nil
}

// Start starts the webhook server.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("listening for webhook events", "address", s.config.Address, "endpoint", s.config.Endpoint)
	if s.config.EnableHTTPS {
		return s.server.StartHTTPS(s.config.Address)
	}
	return s.server.StartHTTP(s.config.Address)
}

// Stop stops the webhook server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleWebhook handles one inbound webhook request: validate the signature,
// parse the payload, dispatch. A no-op dispatch is still a 200.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := servex.NewContext(w, r)

	body, err := ctx.Read()
	if err != nil {
		ctx.BadRequest(err, "failed to read webhook body")
		return
	}

	signature := s.getSignatureFromHeaders(r)

	if err := s.provider.ValidateWebhook(body, signature); err != nil {
		ctx.Unauthorized(err, "webhook validation failed")
		return
	}

	event, err := s.provider.ParseWebhookEvent(body)
	if err != nil {
		ctx.BadRequest(err, "failed to parse webhook event")
		return
	}

	if err := s.dispatcher.HandleEvent(r.Context(), event); err != nil {
		ctx.InternalServerError(err, "failed to handle event")
		return
	}

	ctx.Response(http.StatusOK)
}

// getSignatureFromHeaders extracts the webhook signature from request headers.
func (s *Server) getSignatureFromHeaders(r *http.Request) string {
	for _, header := range authHeaders {
		if value := r.Header.Get(header); value != "" {
			return value
		}
	}
	return ""
}
