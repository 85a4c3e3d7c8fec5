// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/saasland/saasland/internal/auth"
	"github.com/saasland/saasland/internal/observability"
	"github.com/saasland/saasland/pkg/errutil"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Loading       bool       `json:"loading"`
	Authenticated bool       `json:"authenticated"`
	User          *userView  `json:"user,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type userView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	outcome := s.cfg.Operations.SignIn(r.Context(), req.Email, req.Password)
	if s.cfg.Metrics != nil {
		s.countOutcome(s.cfg.Metrics.SignInsTotal, outcome)
	}
	s.respondOutcome(w, outcome)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	outcome := s.cfg.Operations.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if s.cfg.Metrics != nil {
		s.countOutcome(s.cfg.Metrics.SignUpsTotal, outcome)
	}
	s.respondOutcome(w, outcome)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	outcome := s.cfg.Operations.ForgotPassword(r.Context(), req.Email)
	s.respondOutcome(w, outcome)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Holder.SignOut(r.Context()); err != nil {
		errutil.LogError(s.logger, "sign out failed", err)
		s.respondError(w, http.StatusBadGateway, "sign out failed")
		return
	}
	s.respondJSON(w, http.StatusOK, messageBody{Message: "Signed out"})
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	resp := sessionResponse{
		Loading:       s.cfg.Holder.Loading(),
		Authenticated: s.cfg.Holder.IsAuthenticated(),
	}
	if user := s.cfg.Holder.User(); user != nil {
		resp.User = &userView{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName(),
		}
	}
	if session := s.cfg.Holder.Session(); session != nil {
		expires := session.ExpiresAt
		resp.ExpiresAt = &expires
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type resetVerifyRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Type         string `json:"type"`
}

type resetSubmitRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type resetStateResponse struct {
	State         auth.ResetState `json:"state"`
	Message       string          `json:"message,omitempty"`
	InlineError   string          `json:"inline_error,omitempty"`
	RedirectTo    string          `json:"redirect_to,omitempty"`
	RedirectAfter time.Duration   `json:"redirect_after,omitempty"`
}

func (s *Server) handleResetVerify(w http.ResponseWriter, r *http.Request) {
	var req resetVerifyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	flow := s.replaceFlow()
	state := flow.Verify(r.Context(), auth.RecoveryParams{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Type:         req.Type,
	})
	s.respondJSON(w, http.StatusOK, resetResponse(flow, state))
}

func (s *Server) handleResetSubmit(w http.ResponseWriter, r *http.Request) {
	var req resetSubmitRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	flow := s.currentFlow()
	if flow == nil {
		s.respondError(w, http.StatusConflict, "no password reset in progress")
		return
	}

	state := flow.Submit(r.Context(), req.Password, req.ConfirmPassword)
	if s.cfg.Metrics != nil {
		outcome := observability.OutcomeFailure
		if state == auth.StateSuccess {
			outcome = observability.OutcomeSuccess
		}
		s.cfg.Metrics.PasswordResets.WithLabelValues(outcome).Inc()
	}
	s.respondJSON(w, http.StatusOK, resetResponse(flow, state))
}

// resetResponse renders the flow for the client, including the pending
// auto-redirect for terminal states.
func resetResponse(flow *auth.ResetFlow, state auth.ResetState) resetStateResponse {
	resp := resetStateResponse{
		State:       state,
		Message:     flow.FailureMessage(),
		InlineError: flow.InlineError(),
	}
	if state == auth.StateFailed || state == auth.StateSuccess {
		resp.RedirectTo = "/auth"
		resp.RedirectAfter = auth.ResetRedirectDelay
	}
	return resp
}

// respondOutcome maps operation outcomes onto HTTP statuses: success is
// 200, provider rejections are 401-ish client errors rendered as 400.
func (s *Server) respondOutcome(w http.ResponseWriter, outcome auth.Outcome) {
	status := http.StatusOK
	if outcome.Kind == auth.OutcomeError {
		status = http.StatusBadRequest
	}
	s.respondJSON(w, status, outcome)
}

// countOutcome increments a domain counter with the outcome label.
func (s *Server) countOutcome(counter *prometheus.CounterVec, outcome auth.Outcome) {
	if counter == nil {
		return
	}
	label := observability.OutcomeFailure
	if outcome.Kind == auth.OutcomeSuccess {
		label = observability.OutcomeSuccess
	}
	counter.WithLabelValues(label).Inc()
}
