package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	passRetryAfter     = 30 * time.Second
	upstreamRetryAfter = 10 * time.Second
)

// writeError maps a service error onto its problem+json response.
// notFound and fallback are the details used for missing resources and
// unexpected errors.
func writeError(w http.ResponseWriter, err error, notFound, fallback string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		problem.ValidationError("Request contains invalid fields", validationFields(err)).Write(w)
	case errors.Is(err, domain.ErrNotFound):
		problem.NotFound(notFound).Write(w)
	case errors.Is(err, domain.ErrPassInProgress):
		problem.Conflict("A detection pass is already running for this user").WithRetryAfter(passRetryAfter).Write(w)
	case errors.Is(err, domain.ErrInvalidTransition):
		problem.Conflict("Insight is not in a state that allows this change").Write(w)
	case errors.Is(err, domain.ErrConflict):
		problem.Conflict("Request conflicts with the current state").Write(w)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		problem.ServiceUnavailable("A dependency is unavailable, retry later").WithRetryAfter(upstreamRetryAfter).Write(w)
	default:
		problem.InternalError(fallback).Write(w)
	}
}

// validationFields turns a domain.Invalid error ("validation failed: field msg")
// into a single field error.
func validationFields(err error) []problem.FieldError {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(domain.ErrValidation.Error())+2:]
	}
	field, detail, ok := strings.Cut(msg, " ")
	if !ok {
		return []problem.FieldError{{Field: "body", Message: msg}}
	}
	return []problem.FieldError{{Field: field, Message: detail}}
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		problem.BadRequest("Invalid " + label + " ID format").Write(w)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// decodeOptional decodes a JSON body into dst, treating an empty body as "{}".
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseLimit(r *http.Request) (int, *problem.FieldError) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return 0, &problem.FieldError{Field: "limit", Message: "must be a positive integer"}
	}
	return limit, nil
}
