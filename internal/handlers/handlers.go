// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the mediapress API.
// Handlers are grouped by concern (publications, categories, media,
// engagement) and receive their dependencies through the handler struct.
//
// Authentication and authorization live upstream; the API trusts the
// X-User-ID header set by the gateway after it verifies the caller.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mediapress/internal/apperr"
)

// userIDHeader carries the authenticated caller's id, set by the
// upstream gateway.
const userIDHeader = "X-User-ID"

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError maps a service error onto an HTTP status: validation and
// conflict errors are the caller's fault, not-found is 404, anything
// else is a 500 with the detail kept out of the response body.
func writeError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field})
		return
	}
	if apperr.IsConflict(err) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if apperr.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	slog.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// decodeJSON parses the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validationf("", "invalid request body: %v", err)
	}
	return nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validationf(name, "invalid %s", name)
	}
	return id, nil
}

// callerID extracts the authenticated user's id from the gateway header.
// Returns uuid.Nil when the request is anonymous.
func callerID(r *http.Request) uuid.UUID {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// requireCaller extracts the caller id or fails with a validation error.
// Editorial endpoints require an identified caller.
func requireCaller(r *http.Request) (uuid.UUID, error) {
	id := callerID(r)
	if id == uuid.Nil {
		return uuid.Nil, apperr.Validationf(userIDHeader, "authenticated user required")
	}
	return id, nil
}
