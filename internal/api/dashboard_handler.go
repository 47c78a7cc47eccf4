package api

import (
	"net/http"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

const recentActivityLimit = 10

// DashboardHandler holds the progress and activity dependencies.
type DashboardHandler struct {
	progressService service.ProgressService
	activity        *service.ActivityRecorder
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(progressService service.ProgressService, activity *service.ActivityRecorder) *DashboardHandler {
	return &DashboardHandler{progressService: progressService, activity: activity}
}

// --- DTOs for API (Data Transfer Objects) ---

// ActivityResponse is the DTO for one recent activity entry.
type ActivityResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	ReferenceID string    `json:"referenceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func mapActivitiesToResponse(activities []domain.UserActivity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		responses[i] = ActivityResponse{
			ID:          a.ID.Hex(),
			Type:        string(a.Type),
			Title:       a.Title,
			ReferenceID: a.ReferenceID,
			CreatedAt:   a.CreatedAt,
		}
	}
	return responses
}

// --- Handler Methods ---

// GetDashboard returns the caller's aggregated workout and exercise stats.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	stats, err := h.progressService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve dashboard stats.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns the caller's latest activity entries.
func (h *DashboardHandler) GetRecentActivity(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	activities, err := h.activity.Recent(c.Request.Context(), userID, recentActivityLimit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve recent activity.")
		return
	}

	c.JSON(http.StatusOK, mapActivitiesToResponse(activities))
}

// RepairStats recomputes the caller's progress record from primary records.
func (h *DashboardHandler) RepairStats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	progress, err := h.progressService.RepairStats(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to repair stats.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Stats repaired successfully",
		"progress": progress,
	})
}
