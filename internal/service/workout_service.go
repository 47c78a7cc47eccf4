package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound       = errors.New("workout not found")
	ErrWorkoutAccessDenied   = errors.New("access denied to modify or delete this workout")
	ErrGenerationInvalid     = errors.New("goal, level and split type are required to generate a workout")
	ErrInsufficientExercises = errors.New("insufficient exercises for the given criteria")
)

// Generation tuning constants.
const (
	// Below this pool size the equipment constraint is dropped and the
	// catalog re-queried.
	minViablePool = 5

	// Roughly one exercise per this many minutes, bounded below/above.
	minutesPerExercise = 10
	minExerciseCount   = 3
	maxExerciseCount   = 8

	// Share of the target count reserved for compound movements (ceil).
	compoundShare = 0.6

	catalogQueryLimit = 50
)

// Leg-day selection matches on these primary muscles.
var legMuscles = []string{"quadriceps", "hamstrings", "calves", "glutes"}

// GenerationParams are the inputs of one workout generation request.
type GenerationParams struct {
	Goal      string
	Level     string
	Equipment []string
	Duration  int // minutes
	SplitType string
	Day       string // push|pull|legs, only meaningful for the ppl split
}

// Prescription is the sets/reps/rest decision for one exercise.
type Prescription struct {
	Sets        int
	Reps        string
	RestSeconds int
}

// --- Service Interface ---
type WorkoutService interface {
	ListWorkouts(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error)
	GetWorkoutByID(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error)
	CreateWorkout(ctx context.Context, userID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error
	AddExercisesToWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, exerciseIDs []primitive.ObjectID) (*domain.Workout, error)
	GenerateWorkout(ctx context.Context, userID primitive.ObjectID, params GenerationParams) (*domain.Workout, error)
}

// randFactory builds the locally-scoped randomness source for one generation
// call. Production uses an unseeded PCG; tests inject a fixed seed.
type randFactory func() *rand.Rand

func defaultRandFactory() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo     repository.WorkoutRepository
	exerciseRepo    repository.ExerciseRepository
	userWorkoutRepo repository.UserWorkoutRepository
	progressService ProgressService
	activity        *ActivityRecorder
	newRand         randFactory
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	userWorkoutRepo repository.UserWorkoutRepository,
	progressService ProgressService,
	activity *ActivityRecorder,
) WorkoutService {
	return &workoutService{
		workoutRepo:     workoutRepo,
		exerciseRepo:    exerciseRepo,
		userWorkoutRepo: userWorkoutRepo,
		progressService: progressService,
		activity:        activity,
		newRand:         defaultRandFactory,
	}
}

// ListWorkouts retrieves workout templates matching the filter.
func (s *workoutService) ListWorkouts(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	return s.workoutRepo.Find(ctx, filter)
}

// GetWorkoutByID retrieves a single workout template.
func (s *workoutService) GetWorkoutByID(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// CreateWorkout persists a user-authored workout and counts it toward the
// user's created-workout total.
func (s *workoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error) {
	if workout.Name == "" {
		return nil, errors.New("workout name is required")
	}
	if workout.Duration <= 0 {
		workout.Duration = 1
	}
	workout.CreatedBy = &userID

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}

	if err := s.progressService.RecordWorkoutCreated(ctx, userID); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, userID, domain.ActivityWorkout,
		fmt.Sprintf("Created workout: %s", workout.Name), workoutID.Hex())

	return s.workoutRepo.GetByID(ctx, workoutID)
}

// UpdateWorkout updates a workout template, ensuring ownership.
func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, workout *domain.Workout) (*domain.Workout, error) {
	existing, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	existing.Name = workout.Name
	existing.Description = workout.Description
	existing.Goal = workout.Goal
	existing.Level = workout.Level
	existing.Type = workout.Type
	if workout.Duration > 0 {
		existing.Duration = workout.Duration
	}
	if workout.Exercises != nil {
		existing.Exercises = workout.Exercises
	}

	if err := s.workoutRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteWorkout removes a workout template and its scheduled instances,
// ensuring ownership.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	if _, err := s.ownedWorkout(ctx, userID, workoutID); err != nil {
		return err
	}

	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return s.userWorkoutRepo.DeleteByWorkoutID(ctx, workoutID)
}

// AddExercisesToWorkout appends catalog exercises to a workout with the
// default prescription, ensuring ownership.
func (s *workoutService) AddExercisesToWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, exerciseIDs []primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseRepo.GetByIDs(ctx, exerciseIDs)
	if err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return nil, ErrInsufficientExercises
	}

	defaultPrescription := prescriptionFor("", "")
	for i := range exercises {
		workout.Exercises = append(workout.Exercises, snapshotExercise(&exercises[i], defaultPrescription))
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// GenerateWorkout assembles a personalized workout from the exercise catalog
// and persists it. Generation fails with ErrInsufficientExercises when even
// the relaxed catalog query yields nothing; an empty workout is never
// persisted.
func (s *workoutService) GenerateWorkout(ctx context.Context, userID primitive.ObjectID, params GenerationParams) (*domain.Workout, error) {
	if params.Goal == "" || params.Level == "" || params.SplitType == "" {
		return nil, ErrGenerationInvalid
	}
	if params.Duration <= 0 {
		params.Duration = 1
	}

	rng := s.newRand()
	selected, err := s.selectExercises(ctx, params, rng)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, ErrInsufficientExercises
	}

	prescribed := make([]domain.PrescribedExercise, len(selected))
	for i := range selected {
		prescribed[i] = snapshotExercise(&selected[i], prescriptionFor(params.Goal, selected[i].Mechanic))
	}

	name, description := workoutTitle(params)
	workoutType := params.Day
	if workoutType == "" {
		workoutType = params.SplitType
	}

	workout := &domain.Workout{
		Name:        name,
		Description: description,
		Goal:        params.Goal,
		Level:       params.Level,
		Type:        workoutType,
		Duration:    params.Duration,
		Exercises:   prescribed,
		CreatedBy:   &userID,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}

	if err := s.progressService.RecordWorkoutCreated(ctx, userID); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, userID, domain.ActivityWorkout,
		fmt.Sprintf("Generated workout: %s", name), workoutID.Hex())

	return s.workoutRepo.GetByID(ctx, workoutID)
}

// ownedWorkout fetches a workout and verifies the acting user owns it.
func (s *workoutService) ownedWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.CreatedBy == nil || *workout.CreatedBy != userID {
		return nil, ErrWorkoutAccessDenied
	}
	return workout, nil
}

// selectExercises queries the catalog and samples a duration-sized set with
// a compound/isolation balance.
func (s *workoutService) selectExercises(ctx context.Context, params GenerationParams, rng *rand.Rand) ([]domain.Exercise, error) {
	filter := repository.ExerciseFilter{
		Level:     params.Level,
		Equipment: params.Equipment,
		Limit:     catalogQueryLimit,
	}
	if params.SplitType == "ppl" {
		switch params.Day {
		case "push":
			filter.Force = domain.ForcePush
		case "pull":
			filter.Force = domain.ForcePull
		case "legs":
			filter.PrimaryMuscles = legMuscles
		}
	}

	pool, err := s.exerciseRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Too few matches: drop the equipment constraint first, keep level and
	// muscle constraints.
	if len(pool) < minViablePool {
		filter.Equipment = nil
		pool, err = s.exerciseRepo.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
	}

	target := targetExerciseCount(params.Duration)

	var compound, isolation []domain.Exercise
	for _, ex := range pool {
		if ex.IsCompound() {
			compound = append(compound, ex)
		} else if ex.Mechanic == domain.MechanicIsolation {
			isolation = append(isolation, ex)
		}
	}

	numCompound := int(math.Ceil(float64(target) * compoundShare))
	numIsolation := target - numCompound

	selected := append(
		sampleWithoutReplacement(rng, compound, numCompound),
		sampleWithoutReplacement(rng, isolation, numIsolation)...,
	)

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	if len(selected) > target {
		selected = selected[:target]
	}
	return selected, nil
}

// targetExerciseCount maps a duration to an exercise count, roughly one per
// ten minutes, clamped to [3,8].
func targetExerciseCount(durationMinutes int) int {
	count := durationMinutes / minutesPerExercise
	if count < minExerciseCount {
		return minExerciseCount
	}
	if count > maxExerciseCount {
		return maxExerciseCount
	}
	return count
}

// sampleWithoutReplacement picks up to n distinct exercises from the pool.
func sampleWithoutReplacement(rng *rand.Rand, pool []domain.Exercise, n int) []domain.Exercise {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	shuffled := make([]domain.Exercise, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// prescriptionFor returns the sets/reps/rest for a goal and exercise
// mechanic. Unrecognized goals fall through to the general row.
func prescriptionFor(goal, mechanic string) Prescription {
	compound := mechanic == domain.MechanicCompound
	switch goal {
	case domain.GoalStrength:
		if compound {
			return Prescription{Sets: 5, Reps: "3-5", RestSeconds: 180}
		}
		return Prescription{Sets: 3, Reps: "6-8", RestSeconds: 120}
	case domain.GoalMuscleBuilding, domain.GoalHypertrophy:
		if compound {
			return Prescription{Sets: 4, Reps: "8-12", RestSeconds: 90}
		}
		return Prescription{Sets: 3, Reps: "8-12", RestSeconds: 60}
	case domain.GoalFatLoss:
		return Prescription{Sets: 3, Reps: "12-15", RestSeconds: 45}
	case domain.GoalEndurance:
		return Prescription{Sets: 3, Reps: "15-20", RestSeconds: 30}
	default:
		return Prescription{Sets: 3, Reps: "10-12", RestSeconds: 60}
	}
}

// snapshotExercise copies the catalog fields a workout needs so the workout
// stays stable if the catalog entry changes later.
func snapshotExercise(ex *domain.Exercise, p Prescription) domain.PrescribedExercise {
	return domain.PrescribedExercise{
		ExerciseID:       ex.ID,
		Name:             ex.Name,
		Sets:             p.Sets,
		Reps:             p.Reps,
		RestSeconds:      p.RestSeconds,
		Equipment:        ex.Equipment,
		PrimaryMuscles:   ex.PrimaryMuscles,
		SecondaryMuscles: ex.SecondaryMuscles,
		Instructions:     ex.Instructions,
		Images:           ex.Images,
	}
}

// workoutTitle builds the generated workout's name and description.
func workoutTitle(params GenerationParams) (name, description string) {
	if params.SplitType == "ppl" && params.Day != "" {
		name = fmt.Sprintf("%s Day for %s", titleCase(params.Day), titleCase(params.Goal))
		switch params.Day {
		case "push":
			description = "Focus on chest, shoulders, and triceps with movements that involve pushing weight away from your body."
		case "pull":
			description = "Focus on back and biceps with movements that involve pulling weight toward your body."
		case "legs":
			description = "Focus on quadriceps, hamstrings, glutes, and calves to build lower body strength and power."
		}
		return name, description
	}

	name = fmt.Sprintf("%s Workout for %s", titleCase(params.SplitType), titleCase(params.Goal))
	description = fmt.Sprintf("A %s workout designed to help you achieve your %s goals.", params.SplitType, params.Goal)
	return name, description
}

// titleCase uppercases the first letter only, matching the display style of
// generated names.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
