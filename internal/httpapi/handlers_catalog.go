// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/saasland/saasland/internal/catalog"
)

type landingResponse struct {
	Features     []catalog.Feature     `json:"features"`
	Pricing      []catalog.PricingPlan `json:"pricing"`
	Testimonials []catalog.Testimonial `json:"testimonials"`
}

// handleLanding aggregates everything the landing page renders.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	features, err := s.cfg.Catalog.ListFeatures(ctx)
	if err != nil {
		s.respondInternal(w, err, "landing: list features failed")
		return
	}
	pricing, err := s.cfg.Catalog.ListPlans(ctx)
	if err != nil {
		s.respondInternal(w, err, "landing: list plans failed")
		return
	}
	testimonials, err := s.cfg.Catalog.ListTestimonials(ctx)
	if err != nil {
		s.respondInternal(w, err, "landing: list testimonials failed")
		return
	}

	s.respondJSON(w, http.StatusOK, landingResponse{
		Features:     features,
		Pricing:      pricing,
		Testimonials: testimonials,
	})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := s.cfg.Catalog.ListFeatures(r.Context())
	if err != nil {
		s.respondInternal(w, err, "list features failed")
		return
	}
	s.respondJSON(w, http.StatusOK, features)
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	plans, err := s.cfg.Catalog.ListPlans(r.Context())
	if err != nil {
		s.respondInternal(w, err, "list plans failed")
		return
	}
	s.respondJSON(w, http.StatusOK, plans)
}

func (s *Server) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := s.cfg.Catalog.ListTestimonials(r.Context())
	if err != nil {
		s.respondInternal(w, err, "list testimonials failed")
		return
	}
	s.respondJSON(w, http.StatusOK, testimonials)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	plan, err := s.cfg.Catalog.GetPlan(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		s.respondInternal(w, err, "get plan failed")
		return
	}
	s.respondJSON(w, http.StatusOK, plan)
}
