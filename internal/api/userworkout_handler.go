package api

import (
	"errors"
	"net/http"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserWorkoutHandler holds the user workout service dependency.
type UserWorkoutHandler struct {
	userWorkoutService service.UserWorkoutService
}

// NewUserWorkoutHandler creates a new UserWorkoutHandler.
func NewUserWorkoutHandler(userWorkoutService service.UserWorkoutService) *UserWorkoutHandler {
	return &UserWorkoutHandler{userWorkoutService: userWorkoutService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ScheduleWorkoutRequest defines the JSON payload for scheduling a workout.
type ScheduleWorkoutRequest struct {
	WorkoutID string    `json:"workoutId" binding:"required"`
	Scheduled time.Time `json:"scheduled" binding:"required"`
}

// SetEntryPayload is one logged set within an exercise.
type SetEntryPayload struct {
	Reps      int     `json:"reps" binding:"min=0"`
	Weight    float64 `json:"weight" binding:"min=0"`
	Completed bool    `json:"completed"`
}

// CompletedExercisePayload is the progress for one exercise in a session.
type CompletedExercisePayload struct {
	ExerciseID string            `json:"exerciseId" binding:"required"`
	Name       string            `json:"name" binding:"required"`
	Sets       []SetEntryPayload `json:"sets"`
}

// UpdateProgressRequest defines the JSON payload for saving mid-session
// progress.
type UpdateProgressRequest struct {
	Exercises []CompletedExercisePayload `json:"exercises" binding:"required"`
}

// CompleteWorkoutRequest defines the JSON payload for completing a session.
// CaloriesBurned is optional; when absent the server estimates it from the
// user's profile.
type CompleteWorkoutRequest struct {
	Exercises      []CompletedExercisePayload `json:"exercises"`
	CaloriesBurned *int                       `json:"caloriesBurned"`
}

// SetEntryResponse mirrors SetEntryPayload on the way out.
type SetEntryResponse struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// CompletedExerciseResponse is the DTO for one exercise in a session.
type CompletedExerciseResponse struct {
	ExerciseID string             `json:"exerciseId"`
	Name       string             `json:"name"`
	Sets       []SetEntryResponse `json:"sets"`
}

// UserWorkoutResponse is the DTO for returning a scheduled workout instance.
type UserWorkoutResponse struct {
	ID             string                      `json:"id"`
	WorkoutID      string                      `json:"workoutId"`
	Name           string                      `json:"name"`
	Description    string                      `json:"description,omitempty"`
	Scheduled      time.Time                   `json:"scheduled"`
	Completed      bool                        `json:"completed"`
	CompletedAt    *time.Time                  `json:"completedAt,omitempty"`
	Duration       int                         `json:"duration"`
	CaloriesBurned int                         `json:"caloriesBurned"`
	Exercises      []CompletedExerciseResponse `json:"exercises"`
	CreatedAt      time.Time                   `json:"createdAt"`
}

// CompleteWorkoutResponse carries the updated instance plus the calorie
// credit applied to the user's progress.
type CompleteWorkoutResponse struct {
	UserWorkout    UserWorkoutResponse `json:"userWorkout"`
	CaloriesBurned int                 `json:"caloriesBurned"`
}

// MapUserWorkoutToResponse converts a domain.UserWorkout to its DTO.
func MapUserWorkoutToResponse(uw *domain.UserWorkout) UserWorkoutResponse {
	if uw == nil {
		return UserWorkoutResponse{}
	}

	exercises := make([]CompletedExerciseResponse, len(uw.Exercises))
	for i, ex := range uw.Exercises {
		sets := make([]SetEntryResponse, len(ex.Sets))
		for j, set := range ex.Sets {
			sets[j] = SetEntryResponse{Reps: set.Reps, Weight: set.Weight, Completed: set.Completed}
		}
		exercises[i] = CompletedExerciseResponse{
			ExerciseID: ex.ExerciseID.Hex(),
			Name:       ex.Name,
			Sets:       sets,
		}
	}

	return UserWorkoutResponse{
		ID:             uw.ID.Hex(),
		WorkoutID:      uw.WorkoutID.Hex(),
		Name:           uw.Name,
		Description:    uw.Description,
		Scheduled:      uw.Scheduled,
		Completed:      uw.Completed,
		CompletedAt:    uw.CompletedAt,
		Duration:       uw.Duration,
		CaloriesBurned: uw.CaloriesBurned,
		Exercises:      exercises,
		CreatedAt:      uw.CreatedAt,
	}
}

// MapUserWorkoutsToResponse converts a slice of user workouts to DTOs.
func MapUserWorkoutsToResponse(userWorkouts []domain.UserWorkout) []UserWorkoutResponse {
	responses := make([]UserWorkoutResponse, len(userWorkouts))
	for i := range userWorkouts {
		responses[i] = MapUserWorkoutToResponse(&userWorkouts[i])
	}
	return responses
}

func mapCompletedExercisePayloads(payloads []CompletedExercisePayload) ([]domain.CompletedExercise, error) {
	exercises := make([]domain.CompletedExercise, len(payloads))
	for i, p := range payloads {
		exerciseID, err := primitive.ObjectIDFromHex(p.ExerciseID)
		if err != nil {
			return nil, errors.New("invalid exercise ID format: " + p.ExerciseID)
		}
		sets := make([]domain.SetEntry, len(p.Sets))
		for j, set := range p.Sets {
			sets[j] = domain.SetEntry{Reps: set.Reps, Weight: set.Weight, Completed: set.Completed}
		}
		exercises[i] = domain.CompletedExercise{
			ExerciseID: exerciseID,
			Name:       p.Name,
			Sets:       sets,
		}
	}
	return exercises, nil
}

// --- Handler Methods ---

// ScheduleWorkout creates a scheduled instance of a workout template for the
// caller.
func (h *UserWorkoutHandler) ScheduleWorkout(c *gin.Context) {
	var req ScheduleWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	userWorkout, err := h.userWorkoutService.ScheduleWorkout(c.Request.Context(), userID, workoutID, req.Scheduled)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to schedule workout.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserWorkoutToResponse(userWorkout))
}

// GetUpcomingWorkouts lists the caller's next scheduled workouts.
func (h *UserWorkoutHandler) GetUpcomingWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	userWorkouts, err := h.userWorkoutService.GetUpcomingWorkouts(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve upcoming workouts.")
		return
	}

	c.JSON(http.StatusOK, MapUserWorkoutsToResponse(userWorkouts))
}

// GetPastWorkouts lists the caller's completed or missed workouts.
func (h *UserWorkoutHandler) GetPastWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	userWorkouts, err := h.userWorkoutService.GetPastWorkouts(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve past workouts.")
		return
	}

	c.JSON(http.StatusOK, MapUserWorkoutsToResponse(userWorkouts))
}

// GetUserWorkout retrieves one of the caller's workout instances.
func (h *UserWorkoutHandler) GetUserWorkout(c *gin.Context) {
	userWorkoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user workout ID format.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	userWorkout, err := h.userWorkoutService.GetUserWorkout(c.Request.Context(), userID, userWorkoutID)
	if err != nil {
		respondUserWorkoutError(c, err, "Failed to retrieve workout.")
		return
	}

	c.JSON(http.StatusOK, MapUserWorkoutToResponse(userWorkout))
}

// UpdateProgress saves mid-session set progress without completing the
// workout.
func (h *UserWorkoutHandler) UpdateProgress(c *gin.Context) {
	userWorkoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user workout ID format.")
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises, err := mapCompletedExercisePayloads(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	userWorkout, err := h.userWorkoutService.UpdateProgress(c.Request.Context(), userID, userWorkoutID, exercises)
	if err != nil {
		respondUserWorkoutError(c, err, "Failed to update workout progress.")
		return
	}

	c.JSON(http.StatusOK, MapUserWorkoutToResponse(userWorkout))
}

// CompleteWorkout marks a session as done and rolls it into the caller's
// progress stats. Completing an already-completed workout is rejected so the
// stats are never double counted.
func (h *UserWorkoutHandler) CompleteWorkout(c *gin.Context) {
	userWorkoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user workout ID format.")
		return
	}

	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises, err := mapCompletedExercisePayloads(req.Exercises)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	result, err := h.userWorkoutService.CompleteWorkout(c.Request.Context(), userID, userWorkoutID, exercises, req.CaloriesBurned)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyCompleted) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		respondUserWorkoutError(c, err, "Failed to complete workout.")
		return
	}

	c.JSON(http.StatusOK, CompleteWorkoutResponse{
		UserWorkout:    MapUserWorkoutToResponse(result.UserWorkout),
		CaloriesBurned: result.CaloriesBurned,
	})
}

// respondUserWorkoutError maps common user workout service errors onto HTTP
// statuses.
func respondUserWorkoutError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserWorkoutAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
