package handler

import (
	"encoding/json"
	"net/http"

	"github.com/blaisecz/insight-engine/internal/api/validation"
	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/blaisecz/insight-engine/pkg/problem"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// Upsert handles PUT /v1/events
// @Summary Sync astrological events
// @Description Inserts or updates feed entries by external_id. Entries without user_id apply to every user.
// @Tags events
// @Accept json
// @Produce json
// @Param request body domain.UpsertEventsRequest true "Feed entries"
// @Success 200 {object} domain.UpsertEventsResponse
// @Failure 400 {object} problem.Problem "Invalid body"
// @Failure 422 {object} problem.Problem "Validation error"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /events [put]
func (h *EventHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	n, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Event not found", "Failed to store events")
		return
	}

	writeJSON(w, http.StatusOK, domain.UpsertEventsResponse{Upserted: n})
}
