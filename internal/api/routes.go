package api

import (
	"net/http"

	"fitgenie/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	userWorkoutService service.UserWorkoutService,
	progressService service.ProgressService,
	profileService service.ProfileService,
	coachService service.CoachService,
	activity *service.ActivityRecorder,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	userWorkoutHandler := NewUserWorkoutHandler(userWorkoutService)
	dashboardHandler := NewDashboardHandler(progressService, activity)
	profileHandler := NewProfileHandler(profileService)
	coachHandler := NewCoachHandler(coachService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// The exercise catalog is public read-only reference data.
		exerciseGroup := apiV1.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/equipment", exerciseHandler.ListEquipment)
			exerciseGroup.GET("/muscle-groups", exerciseHandler.ListMuscleGroups)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Workout Template Routes ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.POST("/generate", workoutHandler.GenerateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.POST("/:id/exercises", workoutHandler.AddExercises)
		}

		// --- Scheduled Workout Routes ---
		userWorkoutGroup := protected.Group("/user-workouts")
		{
			userWorkoutGroup.POST("", userWorkoutHandler.ScheduleWorkout)
			userWorkoutGroup.GET("/upcoming", userWorkoutHandler.GetUpcomingWorkouts)
			userWorkoutGroup.GET("/past", userWorkoutHandler.GetPastWorkouts)
			userWorkoutGroup.GET("/:id", userWorkoutHandler.GetUserWorkout)
			userWorkoutGroup.PUT("/:id/progress", userWorkoutHandler.UpdateProgress)
			userWorkoutGroup.POST("/:id/complete", userWorkoutHandler.CompleteWorkout)
		}

		// --- Dashboard Routes ---
		dashboardGroup := protected.Group("/dashboard")
		{
			dashboardGroup.GET("/stats", dashboardHandler.GetDashboard)
			dashboardGroup.GET("/activity", dashboardHandler.GetRecentActivity)
			dashboardGroup.POST("/repair-stats", dashboardHandler.RepairStats)
		}

		// --- Profile Routes ---
		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.PUT("", profileHandler.SaveProfile)
		}

		// --- AI Coach ---
		protected.POST("/ai-coach", coachHandler.AskCoach)
	}
}
