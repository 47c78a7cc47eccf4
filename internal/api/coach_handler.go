package api

import (
	"errors"
	"net/http"

	"fitgenie/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CoachHandler holds the coach service dependency.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// AskCoachRequest defines the JSON payload for a coaching question.
type AskCoachRequest struct {
	Query string `json:"query" binding:"required"`
}

// AskCoach answers a free-form fitness question grounded in the exercise
// catalog.
func (h *CoachHandler) AskCoach(c *gin.Context) {
	var req AskCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	answer, err := h.coachService.AskCoach(c.Request.Context(), userID, req.Query)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to process coaching question.")
		}
		return
	}

	// Relevant exercises keep their raw catalog shape here; image keys are
	// not presigned for coach answers.
	c.JSON(http.StatusOK, answer)
}
