package api

import (
	"errors"
	"net/http"
	"strconv"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"
	"fitgenie/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse is the DTO for returning catalog exercise details. Images
// are presigned URLs, not raw object keys.
type ExerciseResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Level            string   `json:"level"`
	Mechanic         string   `json:"mechanic,omitempty"`
	Force            string   `json:"force,omitempty"`
	Equipment        string   `json:"equipment,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
	Category         string   `json:"category,omitempty"`
	Images           []string `json:"images"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:               ex.ID.Hex(),
		Name:             ex.Name,
		Level:            ex.Level,
		Mechanic:         ex.Mechanic,
		Force:            ex.Force,
		Equipment:        ex.Equipment,
		PrimaryMuscles:   ex.PrimaryMuscles,
		SecondaryMuscles: ex.SecondaryMuscles,
		Instructions:     ex.Instructions,
		Category:         ex.Category,
		Images:           ex.Images,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to response DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises retrieves catalog exercises, optionally filtered by level,
// equipment or muscle query parameters.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := repository.ExerciseFilter{
		Level:  c.Query("level"),
		Muscle: c.Query("muscle"),
	}
	if equipment := c.Query("equipment"); equipment != "" {
		filter.Equipment = []string{equipment}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit <= 0 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit parameter.")
			return
		}
		filter.Limit = limit
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}

	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise retrieves a single catalog exercise by ID.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format.")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// ListEquipment returns the distinct equipment values in the catalog.
func (h *ExerciseHandler) ListEquipment(c *gin.Context) {
	equipment, err := h.exerciseService.ListEquipment(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve equipment list.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment})
}

// ListMuscleGroups returns the distinct primary muscle values in the catalog.
func (h *ExerciseHandler) ListMuscleGroups(c *gin.Context) {
	muscles, err := h.exerciseService.ListMuscleGroups(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve muscle groups.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"muscleGroups": muscles})
}
