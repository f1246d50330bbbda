package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/blaisecz/insight-engine/internal/api/validation"
	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/blaisecz/insight-engine/pkg/problem"
)

type DataPointHandler struct {
	service service.DataPointService
}

func NewDataPointHandler(service service.DataPointService) *DataPointHandler {
	return &DataPointHandler{service: service}
}

// Create handles POST /v1/users/{userId}/data-points
// @Summary Record a data point
// @Description Ingest one behavioral observation. Use client_request_id for safe retries (idempotency). Returns 200 if duplicate request, 201 if new.
// @Tags data-points
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param request body domain.RecordDataPointRequest true "Observation"
// @Success 201 {object} domain.DataPoint "New data point recorded"
// @Success 200 {object} domain.DataPoint "Existing data point returned (idempotent duplicate)"
// @Failure 400 {object} problem.Problem "Invalid request body or parameters"
// @Failure 422 {object} problem.Problem "Validation error"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/data-points [post]
func (h *DataPointHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	var req domain.RecordDataPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	point, isExisting, err := h.service.Record(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "User not found", "Failed to record data point")
		return
	}

	status := http.StatusCreated
	if isExisting {
		status = http.StatusOK
	}
	writeJSON(w, status, point)
}

// List handles GET /v1/users/{userId}/data-points
// @Summary List data points
// @Description Retrieve a user's observations, newest first, with optional type and time range filters and cursor pagination.
// @Tags data-points
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param type query string false "Data type" Enums(mood, productivity, energy, sleep, sentiment, activity)
// @Param from query string false "Start of range (RFC3339)" format(date-time)
// @Param to query string false "End of range (RFC3339)" format(date-time)
// @Param limit query int false "Page size (default 20, max 100)" minimum(1) maximum(100)
// @Param cursor query string false "Pagination cursor from previous response"
// @Success 200 {object} domain.DataPointListResponse
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 422 {object} problem.Problem "Invalid filter values"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/data-points [get]
func (h *DataPointHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	filter, fieldErrors := parseListFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err, "User not found", "Failed to list data points")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func parseListFilter(r *http.Request) (domain.DataPointFilter, []problem.FieldError) {
	var filter domain.DataPointFilter
	var fieldErrors []problem.FieldError

	if typ := r.URL.Query().Get("type"); typ != "" {
		filter.DataType = domain.DataType(typ)
		if !filter.DataType.Valid() {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "type",
				Message: "must be a known data type",
			})
		}
	}

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		raw := r.URL.Query().Get(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   bound.name,
				Message: "must be a valid RFC3339 timestamp",
			})
			continue
		}
		*bound.dst = &t
	}

	limit, limitErr := parseLimit(r)
	if limitErr != nil {
		fieldErrors = append(fieldErrors, *limitErr)
	}
	filter.Limit = limit

	filter.Cursor = r.URL.Query().Get("cursor")

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		fieldErrors = append(fieldErrors, problem.FieldError{
			Field:   "to",
			Message: "must not be before from",
		})
	}

	return filter, fieldErrors
}
