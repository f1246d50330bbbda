package handler

import (
	"net/http"

	"github.com/blaisecz/insight-engine/internal/service"
)

type EngineHandler struct {
	engine service.Engine
}

func NewEngineHandler(engine service.Engine) *EngineHandler {
	return &EngineHandler{engine: engine}
}

// RunPass handles POST /v1/users/{userId}/detection-passes
// @Summary Run a detection pass
// @Description Runs pattern detection, rule synthesis and insight generation for one user now, instead of waiting for the scheduler.
// @Tags engine
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} domain.PassResult
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 409 {object} problem.Problem "A pass is already running for this user"
// @Failure 503 {object} problem.Problem "Event feed or store unavailable"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/detection-passes [post]
func (h *EngineHandler) RunPass(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	result, err := h.engine.RunDetectionPass(r.Context(), userID)
	if err != nil {
		writeError(w, err, "User not found", "Detection pass failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Revalidate handles POST /v1/users/{userId}/revalidations
// @Summary Revalidate rules
// @Description Re-tests the user's rules that are due against recent data, decaying or retiring those that no longer hold.
// @Tags engine
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {object} service.RevalidationResult
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 409 {object} problem.Problem "A pass is already running for this user"
// @Failure 503 {object} problem.Problem "Event feed or store unavailable"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/revalidations [post]
func (h *EngineHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user")
	if !ok {
		return
	}

	result, err := h.engine.Revalidate(r.Context(), userID)
	if err != nil {
		writeError(w, err, "User not found", "Revalidation failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
