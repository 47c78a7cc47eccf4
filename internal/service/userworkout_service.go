package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserWorkoutNotFound     = errors.New("user workout not found")
	ErrUserWorkoutAccessDenied = errors.New("access denied to view or modify this workout")
	ErrAlreadyCompleted        = errors.New("workout is already completed")
)

// List sizes for the schedule views.
const (
	upcomingWorkoutLimit = 5
	pastWorkoutLimit     = 10
)

// Fallback reps when a prescription range cannot be parsed.
const defaultSetReps = 10

// CompleteWorkoutResult is what a successful completion returns to the
// handler: the stored record plus the calories that were credited.
type CompleteWorkoutResult struct {
	UserWorkout    *domain.UserWorkout
	CaloriesBurned int
}

// --- Service Interface ---
type UserWorkoutService interface {
	ScheduleWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, scheduled time.Time) (*domain.UserWorkout, error)
	GetUpcomingWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkout, error)
	GetPastWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkout, error)
	GetUserWorkout(ctx context.Context, userID, userWorkoutID primitive.ObjectID) (*domain.UserWorkout, error)
	UpdateProgress(ctx context.Context, userID, userWorkoutID primitive.ObjectID, exercises []domain.CompletedExercise) (*domain.UserWorkout, error)
	CompleteWorkout(ctx context.Context, userID, userWorkoutID primitive.ObjectID, exercises []domain.CompletedExercise, caloriesBurned *int) (*CompleteWorkoutResult, error)
}

// userWorkoutService implements the UserWorkoutService interface.
type userWorkoutService struct {
	userWorkoutRepo repository.UserWorkoutRepository
	workoutRepo     repository.WorkoutRepository
	progressService ProgressService
	activity        *ActivityRecorder
	now             func() time.Time
}

// NewUserWorkoutService creates a new instance of userWorkoutService.
func NewUserWorkoutService(
	userWorkoutRepo repository.UserWorkoutRepository,
	workoutRepo repository.WorkoutRepository,
	progressService ProgressService,
	activity *ActivityRecorder,
) UserWorkoutService {
	return &userWorkoutService{
		userWorkoutRepo: userWorkoutRepo,
		workoutRepo:     workoutRepo,
		progressService: progressService,
		activity:        activity,
		now:             time.Now,
	}
}

// ScheduleWorkout instantiates a workout template for the user at the given
// time. The template's name, description, duration and exercises are copied
// so later template edits leave the schedule untouched.
func (s *userWorkoutService) ScheduleWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, scheduled time.Time) (*domain.UserWorkout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	exercises := make([]domain.CompletedExercise, len(workout.Exercises))
	for i, ex := range workout.Exercises {
		sets := make([]domain.SetEntry, ex.Sets)
		reps := domain.RepsLowerBound(ex.Reps, defaultSetReps)
		for j := range sets {
			sets[j] = domain.SetEntry{Reps: reps}
		}
		exercises[i] = domain.CompletedExercise{
			ExerciseID: ex.ExerciseID,
			Name:       ex.Name,
			Sets:       sets,
		}
	}

	userWorkout := &domain.UserWorkout{
		UserID:      userID,
		WorkoutID:   workoutID,
		Name:        workout.Name,
		Description: workout.Description,
		Scheduled:   scheduled,
		Duration:    workout.Duration,
		Exercises:   exercises,
	}

	userWorkoutID, err := s.userWorkoutRepo.Create(ctx, userWorkout)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, userID, domain.ActivityScheduledWorkout,
		fmt.Sprintf("Scheduled workout: %s for %s", workout.Name, scheduled.Format("2006-01-02")),
		userWorkoutID.Hex())

	return s.userWorkoutRepo.GetByID(ctx, userWorkoutID)
}

// GetUpcomingWorkouts lists the next few scheduled, not-yet-completed
// workouts.
func (s *userWorkoutService) GetUpcomingWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkout, error) {
	return s.userWorkoutRepo.GetUpcoming(ctx, userID, s.now(), upcomingWorkoutLimit)
}

// GetPastWorkouts lists recently completed or missed workouts.
func (s *userWorkoutService) GetPastWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkout, error) {
	return s.userWorkoutRepo.GetPast(ctx, userID, s.now(), pastWorkoutLimit)
}

// GetUserWorkout retrieves one instance, ensuring ownership.
func (s *userWorkoutService) GetUserWorkout(ctx context.Context, userID, userWorkoutID primitive.ObjectID) (*domain.UserWorkout, error) {
	return s.ownedUserWorkout(ctx, userID, userWorkoutID)
}

// UpdateProgress replaces the in-session exercise records, ensuring
// ownership.
func (s *userWorkoutService) UpdateProgress(ctx context.Context, userID, userWorkoutID primitive.ObjectID, exercises []domain.CompletedExercise) (*domain.UserWorkout, error) {
	userWorkout, err := s.ownedUserWorkout(ctx, userID, userWorkoutID)
	if err != nil {
		return nil, err
	}

	if exercises != nil {
		userWorkout.Exercises = exercises
	}
	if err := s.userWorkoutRepo.Update(ctx, userWorkout); err != nil {
		return nil, err
	}
	return userWorkout, nil
}

// CompleteWorkout marks the instance completed and folds it into the user's
// progress. The completed flag is checked first so one physical completion
// is recorded exactly once; the progress rollup itself is not idempotent.
func (s *userWorkoutService) CompleteWorkout(ctx context.Context, userID, userWorkoutID primitive.ObjectID, exercises []domain.CompletedExercise, caloriesBurned *int) (*CompleteWorkoutResult, error) {
	userWorkout, err := s.ownedUserWorkout(ctx, userID, userWorkoutID)
	if err != nil {
		return nil, err
	}
	if userWorkout.Completed {
		return nil, ErrAlreadyCompleted
	}

	if exercises != nil {
		userWorkout.Exercises = exercises
	}

	// Resolve the template for level/goal context and the muscles behind
	// each completed exercise.
	var level, goal string
	musclesByName := map[string][]string{}
	if workout, werr := s.workoutRepo.GetByID(ctx, userWorkout.WorkoutID); werr == nil {
		level = workout.Level
		goal = workout.Goal
		for _, ex := range workout.Exercises {
			musclesByName[ex.Name] = ex.PrimaryMuscles
		}
	}

	credited := 0
	if caloriesBurned != nil && *caloriesBurned > 0 {
		credited = *caloriesBurned
	} else {
		credited = s.progressService.EstimateCalories(ctx, userID,
			userWorkout.Duration, len(userWorkout.Exercises), level, goal)
	}

	now := s.now()
	userWorkout.Completed = true
	userWorkout.CompletedAt = &now
	userWorkout.CaloriesBurned = credited

	if err := s.userWorkoutRepo.Update(ctx, userWorkout); err != nil {
		return nil, err
	}

	refs := make([]domain.CompletedExerciseRef, len(userWorkout.Exercises))
	for i, ex := range userWorkout.Exercises {
		refs[i] = domain.CompletedExerciseRef{
			Name:           ex.Name,
			PrimaryMuscles: musclesByName[ex.Name],
		}
	}

	if _, err := s.progressService.RecordWorkoutCompleted(ctx, userID, WorkoutCompletion{
		Duration:       userWorkout.Duration,
		Level:          level,
		Goal:           goal,
		Exercises:      refs,
		CaloriesBurned: &credited,
	}); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Completed workout: %s", userWorkout.Name)
	if credited > 0 {
		title = fmt.Sprintf("Completed workout: %s (%d calories)", userWorkout.Name, credited)
	}
	s.activity.Record(ctx, userID, domain.ActivityCompletedWorkout, title, userWorkoutID.Hex())

	return &CompleteWorkoutResult{UserWorkout: userWorkout, CaloriesBurned: credited}, nil
}

// ownedUserWorkout fetches an instance and verifies the acting user owns it.
func (s *userWorkoutService) ownedUserWorkout(ctx context.Context, userID, userWorkoutID primitive.ObjectID) (*domain.UserWorkout, error) {
	userWorkout, err := s.userWorkoutRepo.GetByID(ctx, userWorkoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserWorkoutNotFound
		}
		return nil, err
	}
	if userWorkout.UserID != userID {
		return nil, ErrUserWorkoutAccessDenied
	}
	return userWorkout, nil
}
