// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/saasland/saasland/internal/billing"
	"github.com/saasland/saasland/internal/catalog"
	"github.com/saasland/saasland/internal/mailer"
	"github.com/saasland/saasland/internal/observability"
	"github.com/saasland/saasland/pkg/errutil"
)

// Checkout messages shown to the user.
const (
	msgPaymentFailed = "There was an error processing your payment. Please try again."
)

// contactSendTimeout bounds the synchronous contact email dispatch.
const contactSendTimeout = 15 * time.Second

type checkoutRequest struct {
	PlanID string `json:"plan_id"`
}

type checkoutResponse struct {
	Message      string                `json:"message"`
	Subscription *billing.Subscription `json:"subscription,omitempty"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user := s.cfg.Holder.User()
	if user == nil {
		s.respondError(w, http.StatusUnauthorized, "sign in to subscribe to a plan")
		return
	}

	// The plan can arrive as a query parameter or in the body.
	planRef := r.URL.Query().Get("planId")
	if planRef == "" {
		var req checkoutRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		planRef = req.PlanID
	}
	planID, err := ulid.Parse(planRef)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	sub, err := s.cfg.Billing.Checkout(r.Context(), user.ID, planID)
	if err != nil {
		s.countCheckout(observability.OutcomeFailure)
		if errors.Is(err, catalog.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "plan not found")
			return
		}
		errutil.LogError(s.logger, "checkout failed", err)
		s.respondError(w, http.StatusBadGateway, msgPaymentFailed)
		return
	}
	s.countCheckout(observability.OutcomeSuccess)

	plan, planErr := s.cfg.Catalog.GetPlan(r.Context(), planID)
	planName := "selected"
	if planErr == nil {
		planName = plan.Name
	}
	s.respondJSON(w, http.StatusOK, checkoutResponse{
		Message:      fmt.Sprintf("You've successfully subscribed to the %s plan.", planName),
		Subscription: sub,
	})
}

func (s *Server) countCheckout(outcome string) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.CheckoutsTotal.WithLabelValues(outcome).Inc()
	}
}

type newsletterRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	msg, err := s.cfg.Newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		s.countNewsletter(observability.OutcomeFailure)
		errutil.LogError(s.logger, "newsletter subscribe failed", err)
		s.respondError(w, http.StatusBadRequest, "Failed to subscribe. Please try again.")
		return
	}
	s.countNewsletter(observability.OutcomeSuccess)
	s.respondJSON(w, http.StatusOK, messageBody{Message: msg})
}

func (s *Server) countNewsletter(outcome string) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.NewsletterSignups.WithLabelValues(outcome).Inc()
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "name and message are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), contactSendTimeout)
	defer cancel()

	msg := mailer.ContactNotification(s.cfg.MailFrom, s.cfg.ContactAddr, req.Name, req.Email, req.Message)
	if err := s.cfg.Sender.Send(ctx, msg); err != nil {
		errutil.LogError(s.logger, "contact email failed", err)
		s.respondError(w, http.StatusBadGateway, "Failed to send message. Please try again.")
		return
	}
	s.respondJSON(w, http.StatusOK, messageBody{Message: "Message sent! We'll get back to you as soon as possible."})
}
