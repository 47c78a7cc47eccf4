package api

import (
	"errors"
	"net/http"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ProfileRequest defines the JSON payload for saving a profile. All fields
// are optional; weight is in kilograms, height in centimeters.
type ProfileRequest struct {
	Weight       *float64 `json:"weight" binding:"omitempty,gt=0"`
	Height       *float64 `json:"height" binding:"omitempty,gt=0"`
	Age          *int     `json:"age" binding:"omitempty,gt=0"`
	Gender       string   `json:"gender" binding:"omitempty,oneof=male female other"`
	FitnessLevel string   `json:"fitnessLevel" binding:"omitempty,oneof=beginner intermediate expert advanced"`
	Goals        []string `json:"goals"`
}

// ProfileResponse is the DTO for returning profile details.
type ProfileResponse struct {
	Weight       *float64  `json:"weight,omitempty"`
	Height       *float64  `json:"height,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	FitnessLevel string    `json:"fitnessLevel,omitempty"`
	Goals        []string  `json:"goals"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func mapProfileToResponse(p *domain.UserProfile) ProfileResponse {
	if p == nil {
		return ProfileResponse{}
	}
	goals := p.Goals
	if goals == nil {
		goals = []string{}
	}
	return ProfileResponse{
		Weight:       p.Weight,
		Height:       p.Height,
		Age:          p.Age,
		Gender:       p.Gender,
		FitnessLevel: p.FitnessLevel,
		Goals:        goals,
		UpdatedAt:    p.UpdatedAt,
	}
}

// --- Handler Methods ---

// GetProfile returns the caller's fitness profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profile.")
		}
		return
	}

	c.JSON(http.StatusOK, mapProfileToResponse(profile))
}

// SaveProfile creates or updates the caller's fitness profile.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	profile := &domain.UserProfile{
		Weight:       req.Weight,
		Height:       req.Height,
		Age:          req.Age,
		Gender:       req.Gender,
		FitnessLevel: req.FitnessLevel,
		Goals:        req.Goals,
	}

	stored, err := h.profileService.SaveProfile(c.Request.Context(), userID, profile)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save profile.")
		return
	}

	c.JSON(http.StatusOK, mapProfileToResponse(stored))
}
