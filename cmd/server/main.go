package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitgenie/fitness-api/internal/api"
	"fitgenie/fitness-api/internal/config"
	"fitgenie/fitness-api/internal/repository/mongo"
	"fitgenie/fitness-api/internal/service"
	"fitgenie/fitness-api/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Fitness API Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureUserWorkoutIndexes(ctx, appDB.Collection("user_workouts"))
		mongo.EnsureUserProgressIndexes(ctx, appDB.Collection("user_progress"))
		mongo.EnsureUserActivityIndexes(ctx, appDB.Collection("user_activities"))
		mongo.EnsureUserProfileIndexes(ctx, appDB.Collection("user_profiles"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	userWorkoutRepo := mongo.NewMongoUserWorkoutRepository(appDB)
	progressRepo := mongo.NewMongoUserProgressRepository(appDB)
	activityRepo := mongo.NewMongoUserActivityRepository(appDB)
	profileRepo := mongo.NewMongoUserProfileRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	activity := service.NewActivityRecorder(activityRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)
	progressService := service.NewProgressService(progressRepo, workoutRepo, userWorkoutRepo, profileRepo)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo, userWorkoutRepo, progressService, activity)
	userWorkoutService := service.NewUserWorkoutService(userWorkoutRepo, workoutRepo, progressService, activity)
	profileService := service.NewProfileService(profileRepo)

	var completions service.CompletionClient
	if cfg.OpenAI.APIKey != "" {
		completions = service.NewOpenAICompletionClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Println("WARN: No OpenAI API key configured, AI coach will use fallback responses.")
	}
	coachService := service.NewCoachService(exerciseRepo, completions, activity)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, exerciseService, workoutService, userWorkoutService,
		progressService, profileService, coachService, activity)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
