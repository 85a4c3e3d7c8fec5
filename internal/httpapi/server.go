// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package httpapi exposes the service over an HTTP JSON API.
package httpapi

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/saasland/saasland/internal/auth"
	"github.com/saasland/saasland/internal/billing"
	"github.com/saasland/saasland/internal/catalog"
	"github.com/saasland/saasland/internal/mailer"
	"github.com/saasland/saasland/internal/newsletter"
	"github.com/saasland/saasland/internal/observability"
)

// ResetFlowFactory creates a fresh password-reset flow. Each recovery
// link verification starts a new flow; the server closes the previous
// one.
type ResetFlowFactory func() *auth.ResetFlow

// Config wires the server's collaborators.
type Config struct {
	Holder     *auth.SessionHolder
	Operations *auth.Operations
	NewFlow    ResetFlowFactory
	Catalog    catalog.Repository
	Billing    *billing.Service
	Newsletter *newsletter.Service
	Sender     mailer.Sender

	// MailFrom and ContactAddr route contact form notifications.
	MailFrom    string
	ContactAddr string

	Metrics *observability.Metrics
	Logger  *slog.Logger

	// RequestsPerSecond and Burst configure the per-client token
	// bucket. Zero values disable rate limiting.
	RequestsPerSecond float64
	Burst             int
}

// Server is the HTTP API server.
type Server struct {
	cfg    Config
	logger *slog.Logger
	router chi.Router

	// The active password-reset flow. The API mirrors a single
	// recovery attempt at a time; verifying a new link replaces and
	// closes the previous flow.
	flowMu sync.Mutex
	flow   *auth.ResetFlow
}

// NewServer builds the router and handlers.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases any password-reset flow still held by the server.
func (s *Server) Close() {
	s.flowMu.Lock()
	defer s.flowMu.Unlock()
	if s.flow != nil {
		s.flow.Close()
		s.flow = nil
	}
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(s.recoverMiddleware)
	r.Use(s.logMiddleware)
	if s.cfg.RequestsPerSecond > 0 && s.cfg.Burst > 0 {
		r.Use(s.rateLimitMiddleware(s.cfg.RequestsPerSecond, s.cfg.Burst))
	}
	if s.cfg.Metrics != nil {
		r.Use(s.metricsMiddleware)
	}

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/landing", s.handleLanding)
		r.Get("/features", s.handleFeatures)
		r.Get("/pricing", s.handlePricing)
		r.Get("/testimonials", s.handleTestimonials)
		r.Get("/plans/{id}", s.handlePlan)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", s.handleSignIn)
			r.Post("/signup", s.handleSignUp)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/signout", s.handleSignOut)
			r.Get("/session", s.handleSession)
		})

		r.Post("/reset-password/verify", s.handleResetVerify)
		r.Post("/reset-password", s.handleResetSubmit)

		r.Post("/checkout", s.handleCheckout)
		r.Post("/newsletter", s.handleNewsletter)
		r.Post("/contact", s.handleContact)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable
	w.Write([]byte("ok\n"))
}

// replaceFlow installs a fresh reset flow, closing the previous one.
func (s *Server) replaceFlow() *auth.ResetFlow {
	s.flowMu.Lock()
	defer s.flowMu.Unlock()
	if s.flow != nil {
		s.flow.Close()
	}
	s.flow = s.cfg.NewFlow()
	return s.flow
}

// currentFlow returns the active reset flow, or nil.
func (s *Server) currentFlow() *auth.ResetFlow {
	s.flowMu.Lock()
	defer s.flowMu.Unlock()
	return s.flow
}
