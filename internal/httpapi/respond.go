// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/saasland/saasland/pkg/errutil"
)

// errorBody is the JSON shape of failure responses.
type errorBody struct {
	Error string `json:"error"`
}

// messageBody is the JSON shape of simple outcome responses.
type messageBody struct {
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("response encode failed", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorBody{Error: message})
}

// respondInternal logs the underlying error and returns a generic 500.
func (s *Server) respondInternal(w http.ResponseWriter, err error, msg string) {
	errutil.LogError(s.logger, msg, err)
	s.respondError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody reads a JSON request body into dst. Responds 400 and
// returns false on malformed input.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
