package handler

import (
	"net/http"

	"github.com/blaisecz/insight-engine/internal/service"
)

type HealthHandler struct {
	service service.HealthService
}

func NewHealthHandler(service service.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Get handles GET /v1/users/{userId}/health
// @Summary Engine health for a user
// @Description Reports whether the user has configuration, patterns, active insights and recent data.
// @Tags health
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.Health
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/health [get]
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	health, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err, "User not found", "Failed to compute health")
		return
	}

	writeJSON(w, http.StatusOK, health)
}
