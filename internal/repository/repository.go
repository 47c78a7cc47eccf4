package repository

import (
	"context"
	"time"

	"fitgenie/fitness-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseFilter narrows catalog queries. Zero values mean "no constraint";
// slice fields match any of the provided values.
type ExerciseFilter struct {
	Level          string
	Equipment      []string
	Force          string
	Mechanic       string
	PrimaryMuscles []string
	// Muscle matches either primary or secondary muscles (catalog browsing).
	Muscle string
	Limit  int64
}

// ExerciseRepository reads the externally seeded exercise catalog.
type ExerciseRepository interface {
	Find(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	DistinctEquipment(ctx context.Context) ([]string, error)
	DistinctPrimaryMuscles(ctx context.Context) ([]string, error)
}

// WorkoutFilter narrows workout-template queries.
type WorkoutFilter struct {
	Level string
	Goal  string
	Type  string
}

// WorkoutRepository persists workout templates.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	Find(ctx context.Context, filter WorkoutFilter) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByCreator(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// UserWorkoutRepository persists per-user workout instances.
type UserWorkoutRepository interface {
	Create(ctx context.Context, userWorkout *domain.UserWorkout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.UserWorkout, error)
	GetUpcoming(ctx context.Context, userID primitive.ObjectID, after time.Time, limit int64) ([]domain.UserWorkout, error)
	GetPast(ctx context.Context, userID primitive.ObjectID, before time.Time, limit int64) ([]domain.UserWorkout, error)
	GetCompleted(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkout, error)
	Update(ctx context.Context, userWorkout *domain.UserWorkout) error
	CountCompleted(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}

// CompletionUpdate is one completed workout folded into a UserProgress
// document. Counter fields map to atomic increments at the storage layer;
// the recomputed list fields are written alongside them in the same
// single-document update.
type CompletionUpdate struct {
	CompletedWorkoutsInc int
	DurationInc          int
	CaloriesInc          int
	ExercisesInc         int
	LastWorkoutDate      time.Time
	FavoriteExercises    []domain.StatCount
	MuscleGroups         []domain.StatCount
	WeeklyActivity       []domain.ActivityEntry
}

// UserProgressRepository persists the per-user aggregate. Mutating
// operations have upsert semantics: a missing record is created zero-valued,
// never reported as an error.
type UserProgressRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error)
	// Ensure returns the user's record, creating the zero-valued one if absent.
	Ensure(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error)
	// IncrementTotalWorkouts bumps the created-workout counter atomically.
	IncrementTotalWorkouts(ctx context.Context, userID primitive.ObjectID, n int) error
	// ApplyCompletion applies counter increments and list replacements in a
	// single document update.
	ApplyCompletion(ctx context.Context, userID primitive.ObjectID, update CompletionUpdate) error
	// Replace overwrites the full record (repair flow).
	Replace(ctx context.Context, progress *domain.UserProgress) error
}

// UserActivityRepository is the append-only audit trail. Append failures are
// the caller's to swallow; they never block a stats update.
type UserActivityRepository interface {
	Append(ctx context.Context, activity *domain.UserActivity) error
	GetRecent(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.UserActivity, error)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// UserProfileRepository persists optional biometrics.
type UserProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	Upsert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error)
}
