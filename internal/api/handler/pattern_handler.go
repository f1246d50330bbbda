package handler

import (
	"net/http"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/service"
)

type PatternHandler struct {
	service service.PatternService
}

func NewPatternHandler(service service.PatternService) *PatternHandler {
	return &PatternHandler{service: service}
}

// ListPatterns handles GET /v1/users/{userId}/patterns
// @Summary List detected patterns
// @Tags patterns
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.PatternListResponse
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/patterns [get]
func (h *PatternHandler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	patterns, err := h.service.ListPatterns(r.Context(), userID)
	if err != nil {
		writeError(w, err, "User not found", "Failed to list patterns")
		return
	}

	writeJSON(w, http.StatusOK, domain.PatternListResponse{Data: patterns})
}

// ListRules handles GET /v1/users/{userId}/rules
// @Summary List predictive rules
// @Description Every rule synthesized for the user, including inactive and retired ones.
// @Tags patterns
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.RuleListResponse
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/rules [get]
func (h *PatternHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	rules, err := h.service.ListRules(r.Context(), userID)
	if err != nil {
		writeError(w, err, "User not found", "Failed to list rules")
		return
	}

	writeJSON(w, http.StatusOK, domain.RuleListResponse{Data: rules})
}
