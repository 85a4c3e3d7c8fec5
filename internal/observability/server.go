// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package observability provides HTTP endpoints for metrics and health checks.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker returns whether the service is ready to accept connections.
type ReadinessChecker func() bool

// Metrics contains the application's Prometheus metrics.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	SignInsTotal      *prometheus.CounterVec
	SignUpsTotal      *prometheus.CounterVec
	PasswordResets    *prometheus.CounterVec
	CheckoutsTotal    *prometheus.CounterVec
	NewsletterSignups *prometheus.CounterVec
}

// NewMetrics creates and registers the application metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saasland_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "saasland_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		SignInsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saasland_signins_total",
				Help: "Total number of sign-in attempts by outcome",
			},
			[]string{"outcome"},
		),
		SignUpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saasland_signups_total",
				Help: "Total number of sign-up attempts by outcome",
			},
			[]string{"outcome"},
		),
		PasswordResets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saasland_password_resets_total",
				Help: "Total number of password reset submissions by outcome",
			},
			[]string{"outcome"},
		),
		CheckoutsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saasland_checkouts_total",
				Help: "Total number of checkout attempts by outcome",
			},
			[]string{"outcome"},
		),
		NewsletterSignups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saasland_newsletter_signups_total",
				Help: "Total number of newsletter signups by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.SignInsTotal,
		m.SignUpsTotal,
		m.PasswordResets,
		m.CheckoutsTotal,
		m.NewsletterSignups,
	)
	return m
}

// Outcome labels for the domain counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Server serves /metrics and Kubernetes-style health probes on its own
// listener, separate from the public API.
type Server struct {
	addr     string
	isReady  ReadinessChecker
	registry *prometheus.Registry
	metrics  *Metrics

	mu       sync.Mutex
	listener net.Listener
	srv      *http.Server
}

// NewServer creates an observability server on addr ("host:port"). The
// registry is private so the public API cannot leak metrics into it; a
// nil readinessChecker means always ready.
func NewServer(addr string, readinessChecker ReadinessChecker) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		addr:     addr,
		isReady:  readinessChecker,
		registry: registry,
		metrics:  NewMetrics(registry),
	}
}

// Metrics returns the domain counters for recording application events.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start binds the listener and begins serving. The returned channel
// reports a serve failure after startup and closes on clean shutdown.
func (s *Server) Start() (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, oops.With("addr", s.addr).Wrap(err)
	}

	srv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.listener = listener
	s.srv = srv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop drains in-flight probe requests and releases the listener. Safe
// to call when the server never started or already stopped.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return oops.With("operation", "shutdown_observability_server").Wrap(err)
	}

	slog.Info("observability server stopped")
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/healthz/liveness", func(w http.ResponseWriter, _ *http.Request) {
		writeProbe(w, http.StatusOK, "ok\n")
	})
	mux.HandleFunc("/healthz/readiness", func(w http.ResponseWriter, _ *http.Request) {
		if s.isReady == nil || s.isReady() {
			writeProbe(w, http.StatusOK, "ok\n")
			return
		}
		writeProbe(w, http.StatusServiceUnavailable, "not ready\n")
	})
	return mux
}

func writeProbe(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // probe clients may disconnect mid-write
	w.Write([]byte(body))
}
