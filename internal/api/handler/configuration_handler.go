package handler

import (
	"encoding/json"
	"net/http"

	"github.com/blaisecz/insight-engine/internal/api/validation"
	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/blaisecz/insight-engine/pkg/problem"
)

type ConfigurationHandler struct {
	service service.ConfigurationService
}

func NewConfigurationHandler(service service.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{service: service}
}

// Get handles GET /v1/users/{userId}/configuration
// @Summary Get engine configuration
// @Description Returns the user's proactive insight settings, creating the defaults on first access.
// @Tags configuration
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.Configuration
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/configuration [get]
func (h *ConfigurationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	cfg, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Configuration not found", "Failed to load configuration")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// Update handles PATCH /v1/users/{userId}/configuration
// @Summary Update engine configuration
// @Description Applies the provided fields. minimum_confidence can never go below 0.7. An invalid patch leaves the stored configuration untouched.
// @Tags configuration
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.ConfigurationPatch true "Fields to change"
// @Success 200 {object} domain.Configuration
// @Failure 400 {object} problem.Problem "Invalid user ID or body"
// @Failure 422 {object} problem.Problem "Validation error"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/configuration [patch]
func (h *ConfigurationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	var patch domain.ConfigurationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(patch); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	cfg, err := h.service.Update(r.Context(), userID, &patch)
	if err != nil {
		writeError(w, err, "Configuration not found", "Failed to update configuration")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
