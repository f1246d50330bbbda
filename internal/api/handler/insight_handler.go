package handler

import (
	"net/http"

	"github.com/blaisecz/insight-engine/internal/api/validation"
	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/blaisecz/insight-engine/pkg/problem"
)

type InsightHandler struct {
	service service.InsightService
}

func NewInsightHandler(service service.InsightService) *InsightHandler {
	return &InsightHandler{service: service}
}

// ListActive handles GET /v1/users/{userId}/insights
// @Summary List active insights
// @Description Live, unexpired insights for a user ordered by priority, then most recent trigger.
// @Tags insights
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.InsightListResponse
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/insights [get]
func (h *InsightHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	insights, err := h.service.ListActive(r.Context(), userID)
	if err != nil {
		writeError(w, err, "User not found", "Failed to list insights")
		return
	}

	writeJSON(w, http.StatusOK, domain.InsightListResponse{Data: insights})
}

// ListDue handles GET /v1/users/{userId}/insights/due
// @Summary List insights due for delivery
// @Description Undelivered insights whose delivery time has passed. Delivery surfaces poll this and report back via the delivered endpoint.
// @Tags insights
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.InsightListResponse
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/insights/due [get]
func (h *InsightHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	insights, err := h.service.ListDue(r.Context(), userID)
	if err != nil {
		writeError(w, err, "User not found", "Failed to list due insights")
		return
	}

	writeJSON(w, http.StatusOK, domain.InsightListResponse{Data: insights})
}

// MarkDelivered handles POST /v1/insights/{insightId}/delivered
// @Summary Mark an insight delivered
// @Description Records that a delivery surface showed the insight. Repeating the call is a no-op.
// @Tags insights
// @Accept json
// @Produce json
// @Param insightId path string true "Insight UUID" format(uuid)
// @Param request body domain.MarkDeliveredRequest false "Delivery details"
// @Success 200 {object} domain.Insight
// @Failure 400 {object} problem.Problem "Invalid insight ID or body"
// @Failure 404 {object} problem.Problem "Insight not found"
// @Failure 409 {object} problem.Problem "Insight dismissed or expired"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /insights/{insightId}/delivered [post]
func (h *InsightHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	insightID, ok := parseUUIDParam(w, r, "insightId", "insight")
	if !ok {
		return
	}

	var req domain.MarkDeliveredRequest
	if err := decodeOptional(r, &req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	insight, err := h.service.MarkDelivered(r.Context(), insightID, &req)
	if err != nil {
		writeError(w, err, "Insight not found", "Failed to mark insight delivered")
		return
	}

	writeJSON(w, http.StatusOK, insight)
}

// Acknowledge handles POST /v1/insights/{insightId}/acknowledge
// @Summary Acknowledge an insight
// @Description Marks the insight as seen by the user. Acknowledging twice returns the same state.
// @Tags insights
// @Produce json
// @Param insightId path string true "Insight UUID" format(uuid)
// @Success 200 {object} domain.Insight
// @Failure 400 {object} problem.Problem "Invalid insight ID"
// @Failure 404 {object} problem.Problem "Insight not found"
// @Failure 409 {object} problem.Problem "Insight dismissed or expired"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /insights/{insightId}/acknowledge [post]
func (h *InsightHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	insightID, ok := parseUUIDParam(w, r, "insightId", "insight")
	if !ok {
		return
	}

	insight, err := h.service.Acknowledge(r.Context(), insightID)
	if err != nil {
		writeError(w, err, "Insight not found", "Failed to acknowledge insight")
		return
	}

	writeJSON(w, http.StatusOK, insight)
}

// Dismiss handles POST /v1/insights/{insightId}/dismiss
// @Summary Dismiss an insight
// @Tags insights
// @Produce json
// @Param insightId path string true "Insight UUID" format(uuid)
// @Success 200 {object} domain.Insight
// @Failure 400 {object} problem.Problem "Invalid insight ID"
// @Failure 404 {object} problem.Problem "Insight not found"
// @Failure 409 {object} problem.Problem "Insight already acknowledged or expired"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /insights/{insightId}/dismiss [post]
func (h *InsightHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	insightID, ok := parseUUIDParam(w, r, "insightId", "insight")
	if !ok {
		return
	}

	insight, err := h.service.Dismiss(r.Context(), insightID)
	if err != nil {
		writeError(w, err, "Insight not found", "Failed to dismiss insight")
		return
	}

	writeJSON(w, http.StatusOK, insight)
}

// PostFeedback handles POST /v1/insights/{insightId}/feedback
// @Summary Rate an insight
// @Description Stores the user's rating. Ratings on LLM-personalized insights are forwarded to Langfuse as scores.
// @Tags insights
// @Accept json
// @Produce json
// @Param insightId path string true "Insight UUID" format(uuid)
// @Param request body domain.FeedbackRequest true "Rating"
// @Success 200 {object} domain.Insight
// @Failure 400 {object} problem.Problem "Invalid insight ID or body"
// @Failure 404 {object} problem.Problem "Insight not found"
// @Failure 422 {object} problem.Problem "Validation error"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /insights/{insightId}/feedback [post]
func (h *InsightHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	insightID, ok := parseUUIDParam(w, r, "insightId", "insight")
	if !ok {
		return
	}

	var req domain.FeedbackRequest
	if err := decodeOptional(r, &req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	insight, err := h.service.RecordFeedback(r.Context(), insightID, &req)
	if err != nil {
		writeError(w, err, "Insight not found", "Failed to record feedback")
		return
	}

	writeJSON(w, http.StatusOK, insight)
}
