package api

import (
	"errors"
	"net/http"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"
	"fitgenie/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// WorkoutRequest defines the JSON payload for creating or updating a workout.
type WorkoutRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
	Level       string `json:"level"`
	Type        string `json:"type"`
	Duration    int    `json:"duration" binding:"omitempty,min=1"`
}

// GenerateWorkoutRequest defines the JSON payload for workout generation.
type GenerateWorkoutRequest struct {
	Goal      string   `json:"goal" binding:"required"`
	Level     string   `json:"level" binding:"required,oneof=beginner intermediate expert"`
	Equipment []string `json:"equipment"`
	Duration  int      `json:"duration" binding:"omitempty,min=1"`
	SplitType string   `json:"splitType" binding:"required"`
	Day       string   `json:"day" binding:"omitempty,oneof=push pull legs"`
}

// AddExercisesRequest lists catalog exercise ids to append to a workout.
type AddExercisesRequest struct {
	ExerciseIDs []string `json:"exerciseIds" binding:"required,min=1"`
}

// PrescribedExerciseResponse is the DTO for one exercise inside a workout.
type PrescribedExerciseResponse struct {
	ExerciseID       string   `json:"exerciseId"`
	Name             string   `json:"name"`
	Sets             int      `json:"sets"`
	Reps             string   `json:"reps"`
	RestSeconds      int      `json:"rest_seconds"`
	Equipment        string   `json:"equipment,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty"`
	Instructions     []string `json:"instructions,omitempty"`
	Images           []string `json:"images,omitempty"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description,omitempty"`
	Goal        string                       `json:"goal,omitempty"`
	Level       string                       `json:"level,omitempty"`
	Type        string                       `json:"type,omitempty"`
	Duration    int                          `json:"duration"`
	Exercises   []PrescribedExerciseResponse `json:"exercises"`
	CreatedBy   string                       `json:"createdBy,omitempty"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}

	exercises := make([]PrescribedExerciseResponse, len(w.Exercises))
	for i, ex := range w.Exercises {
		exercises[i] = PrescribedExerciseResponse{
			ExerciseID:       ex.ExerciseID.Hex(),
			Name:             ex.Name,
			Sets:             ex.Sets,
			Reps:             ex.Reps,
			RestSeconds:      ex.RestSeconds,
			Equipment:        ex.Equipment,
			PrimaryMuscles:   ex.PrimaryMuscles,
			SecondaryMuscles: ex.SecondaryMuscles,
			Instructions:     ex.Instructions,
			Images:           ex.Images,
		}
	}

	resp := WorkoutResponse{
		ID:          w.ID.Hex(),
		Name:        w.Name,
		Description: w.Description,
		Goal:        w.Goal,
		Level:       w.Level,
		Type:        w.Type,
		Duration:    w.Duration,
		Exercises:   exercises,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if w.CreatedBy != nil {
		resp.CreatedBy = w.CreatedBy.Hex()
	}
	return resp
}

// MapWorkoutsToResponse converts a slice of domain.Workout to response DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// --- Handler Methods ---

// ListWorkouts retrieves workout templates, optionally filtered by query
// parameters.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	filter := repository.WorkoutFilter{
		Level: c.Query("level"),
		Goal:  c.Query("goal"),
		Type:  c.Query("type"),
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout retrieves a single workout template by ID.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	workout, err := h.workoutService.GetWorkoutByID(c.Request.Context(), workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout.")
		}
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CreateWorkout creates a new workout template owned by the caller.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workout := &domain.Workout{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		Level:       req.Level,
		Type:        req.Type,
		Duration:    req.Duration,
	}

	created, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, workout)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout.")
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(created))
}

// UpdateWorkout updates a workout template the caller owns.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workout := &domain.Workout{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		Level:       req.Level,
		Type:        req.Type,
		Duration:    req.Duration,
	}

	updated, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, workout)
	if err != nil {
		respondWorkoutError(c, err, "Failed to update workout.")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(updated))
}

// DeleteWorkout removes a workout template the caller owns, along with its
// scheduled instances.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		respondWorkoutError(c, err, "Failed to delete workout.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted successfully"})
}

// AddExercises appends catalog exercises to a workout the caller owns.
func (h *WorkoutHandler) AddExercises(c *gin.Context) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	var req AddExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exerciseIDs := make([]primitive.ObjectID, 0, len(req.ExerciseIDs))
	for _, idStr := range req.ExerciseIDs {
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format: "+idStr)
			return
		}
		exerciseIDs = append(exerciseIDs, id)
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workout, err := h.workoutService.AddExercisesToWorkout(c.Request.Context(), userID, workoutID, exerciseIDs)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientExercises) {
			abortWithError(c, http.StatusBadRequest, "None of the given exercises exist.")
			return
		}
		respondWorkoutError(c, err, "Failed to add exercises to workout.")
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// GenerateWorkout builds a personalized workout from the exercise catalog.
func (h *WorkoutHandler) GenerateWorkout(c *gin.Context) {
	var req GenerateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	workout, err := h.workoutService.GenerateWorkout(c.Request.Context(), userID, service.GenerationParams{
		Goal:      req.Goal,
		Level:     req.Level,
		Equipment: req.Equipment,
		Duration:  req.Duration,
		SplitType: req.SplitType,
		Day:       req.Day,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGenerationInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInsufficientExercises):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate workout.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// respondWorkoutError maps common workout service errors onto HTTP statuses.
func respondWorkoutError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
