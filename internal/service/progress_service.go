package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"fitgenie/fitness-api/internal/calories"
	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dashboard display limits.
const (
	dashboardFavoriteLimit = 5
	weekDays               = 7
)

var dayLabels = [weekDays]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WorkoutCompletion describes one completed workout for the aggregator.
// CaloriesBurned nil means "estimate from the user's profile".
type WorkoutCompletion struct {
	Duration       int // minutes
	Level          string
	Goal           string
	Exercises      []domain.CompletedExerciseRef
	CaloriesBurned *int
}

// DayActivity is one presentation bucket of the weekly activity chart.
type DayActivity struct {
	Day      string `json:"day"`
	Minutes  int    `json:"minutes"`
	Calories int    `json:"calories"`
}

// MuscleGroupShare is a percentage-normalized muscle group entry.
type MuscleGroupShare struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// DashboardStats is the read-side aggregate served to the dashboard.
type DashboardStats struct {
	TotalWorkouts       int64              `json:"totalWorkouts"`
	CompletedWorkouts   int64              `json:"completedWorkouts"`
	TotalExercises      int                `json:"totalExercises"`
	TotalDuration       int                `json:"totalDuration"`
	TotalCaloriesBurned int                `json:"totalCaloriesBurned"`
	FavoriteExercises   []domain.StatCount `json:"favoriteExercises"`
	WeeklyActivity      []DayActivity      `json:"weeklyActivity"`
	MuscleGroups        []MuscleGroupShare `json:"muscleGroups"`
}

// --- Service Interface ---
type ProgressService interface {
	// RecordWorkoutCreated counts a newly created workout template. Only
	// completion touches exercise and weekly-activity stats.
	RecordWorkoutCreated(ctx context.Context, userID primitive.ObjectID) error
	// RecordWorkoutCompleted folds one completed workout into the user's
	// progress record and returns the calories that were credited.
	RecordWorkoutCompleted(ctx context.Context, userID primitive.ObjectID, completion WorkoutCompletion) (int, error)
	// EstimateCalories resolves a calorie estimate from the user's profile.
	EstimateCalories(ctx context.Context, userID primitive.ObjectID, duration, exerciseCount int, level, goal string) int
	GetDashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error)
	// RepairStats recomputes the whole progress record from the primary
	// Workout/UserWorkout records and overwrites the cached aggregate.
	RepairStats(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error)
}

// progressService implements the ProgressService interface.
type progressService struct {
	progressRepo    repository.UserProgressRepository
	workoutRepo     repository.WorkoutRepository
	userWorkoutRepo repository.UserWorkoutRepository
	profileRepo     repository.UserProfileRepository
	now             func() time.Time
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	progressRepo repository.UserProgressRepository,
	workoutRepo repository.WorkoutRepository,
	userWorkoutRepo repository.UserWorkoutRepository,
	profileRepo repository.UserProfileRepository,
) ProgressService {
	return &progressService{
		progressRepo:    progressRepo,
		workoutRepo:     workoutRepo,
		userWorkoutRepo: userWorkoutRepo,
		profileRepo:     profileRepo,
		now:             time.Now,
	}
}

// RecordWorkoutCreated increments the created-workout counter, creating the
// progress record when absent.
func (s *progressService) RecordWorkoutCreated(ctx context.Context, userID primitive.ObjectID) error {
	return s.progressRepo.IncrementTotalWorkouts(ctx, userID, 1)
}

// RecordWorkoutCompleted applies the completion rollup. Counter fields reach
// the store as atomic increments; the recomputed list fields ride along in
// the same single-document update. Calling this twice for one physical
// completion double-counts, so callers must guard with the UserWorkout
// completed flag.
func (s *progressService) RecordWorkoutCompleted(ctx context.Context, userID primitive.ObjectID, completion WorkoutCompletion) (int, error) {
	progress, err := s.progressRepo.Ensure(ctx, userID)
	if err != nil {
		return 0, err
	}

	caloriesBurned := 0
	if completion.CaloriesBurned != nil {
		caloriesBurned = *completion.CaloriesBurned
		if caloriesBurned < 0 {
			caloriesBurned = 0
		}
	} else {
		caloriesBurned = s.EstimateCalories(ctx, userID, completion.Duration, len(completion.Exercises), completion.Level, completion.Goal)
	}

	now := s.now()
	progress.ApplyCompletion(domain.CompletionDelta{
		Duration:  completion.Duration,
		Calories:  caloriesBurned,
		Exercises: completion.Exercises,
		Now:       now,
	})

	update := repository.CompletionUpdate{
		CompletedWorkoutsInc: 1,
		DurationInc:          completion.Duration,
		CaloriesInc:          caloriesBurned,
		ExercisesInc:         len(completion.Exercises),
		LastWorkoutDate:      now,
		FavoriteExercises:    progress.ExerciseStats.FavoriteExercises,
		MuscleGroups:         progress.ExerciseStats.MuscleGroups,
		WeeklyActivity:       progress.WeeklyActivity,
	}
	if err := s.progressRepo.ApplyCompletion(ctx, userID, update); err != nil {
		log.Printf("ERROR: Failed to apply completion rollup for user %s: %v", userID.Hex(), err)
		return 0, err
	}
	return caloriesBurned, nil
}

// EstimateCalories estimates the burn from the user's profile. No profile or
// no body weight yields 0, which callers treat as "no data".
func (s *progressService) EstimateCalories(ctx context.Context, userID primitive.ObjectID, duration, exerciseCount int, level, goal string) int {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("WARN: Could not load profile for calorie estimate, user %s: %v", userID.Hex(), err)
		}
		return 0
	}

	return calories.CaloriesBurned(calories.Estimate{
		Duration:       duration,
		ExerciseCount:  exerciseCount,
		IntensityLevel: level,
		ExerciseType:   goal,
		Weight:         profile.Weight,
		Age:            profile.Age,
		Gender:         profile.Gender,
	})
}

// GetDashboard assembles the dashboard stats. Workout counts come straight
// from the primary records; cached counts that drifted are corrected in
// place.
func (s *progressService) GetDashboard(ctx context.Context, userID primitive.ObjectID) (*DashboardStats, error) {
	totalWorkouts, err := s.workoutRepo.CountByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedWorkouts, err := s.userWorkoutRepo.CountCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Reconcile cached counters against the direct counts.
	if int64(progress.WorkoutStats.TotalWorkouts) != totalWorkouts ||
		int64(progress.WorkoutStats.CompletedWorkouts) != completedWorkouts {
		log.Printf("WARN: Progress counters drifted for user %s (cached %d/%d, actual %d/%d), fixing",
			userID.Hex(),
			progress.WorkoutStats.TotalWorkouts, progress.WorkoutStats.CompletedWorkouts,
			totalWorkouts, completedWorkouts)
		progress.WorkoutStats.TotalWorkouts = int(totalWorkouts)
		progress.WorkoutStats.CompletedWorkouts = int(completedWorkouts)
		if err := s.progressRepo.Replace(ctx, progress); err != nil {
			log.Printf("ERROR: Failed to persist reconciled counters for user %s: %v", userID.Hex(), err)
		}
	}

	favorites := progress.ExerciseStats.FavoriteExercises
	if len(favorites) > dashboardFavoriteLimit {
		favorites = favorites[:dashboardFavoriteLimit]
	}

	return &DashboardStats{
		TotalWorkouts:       totalWorkouts,
		CompletedWorkouts:   completedWorkouts,
		TotalExercises:      progress.ExerciseStats.TotalExercises,
		TotalDuration:       progress.WorkoutStats.TotalDuration,
		TotalCaloriesBurned: progress.WorkoutStats.TotalCaloriesBurned,
		FavoriteExercises:   favorites,
		WeeklyActivity:      formatWeeklyActivity(progress.WeeklyActivity),
		MuscleGroups:        muscleGroupPercentages(progress.ExerciseStats.MuscleGroups),
	}, nil
}

// RepairStats rebuilds the aggregate from primary records. The result is a
// pure function of those records, so running it twice yields the same
// output.
func (s *progressService) RepairStats(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error) {
	totalWorkouts, err := s.workoutRepo.CountByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.userWorkoutRepo.GetCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Fold in completion order so histograms come out deterministic.
	sort.SliceStable(completed, func(i, j int) bool {
		return completedAtOf(&completed[i]).Before(completedAtOf(&completed[j]))
	})

	existing, err := s.progressRepo.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}

	rebuilt := domain.NewUserProgress(userID)
	rebuilt.ID = existing.ID
	rebuilt.CreatedAt = existing.CreatedAt

	templateMuscles := map[primitive.ObjectID]map[string][]string{}
	for i := range completed {
		uw := &completed[i]
		refs := make([]domain.CompletedExerciseRef, len(uw.Exercises))
		for j, ex := range uw.Exercises {
			refs[j] = domain.CompletedExerciseRef{
				Name:           ex.Name,
				PrimaryMuscles: s.lookupPrimaryMuscles(ctx, templateMuscles, uw.WorkoutID, ex.Name),
			}
		}
		rebuilt.ApplyCompletion(domain.CompletionDelta{
			Duration:  uw.Duration,
			Calories:  uw.CaloriesBurned,
			Exercises: refs,
			Now:       completedAtOf(uw),
		})
	}

	rebuilt.WorkoutStats.TotalWorkouts = int(totalWorkouts)
	rebuilt.WeeklyActivity = domain.PruneActivity(rebuilt.WeeklyActivity, s.now())

	if err := s.progressRepo.Replace(ctx, rebuilt); err != nil {
		return nil, err
	}
	return rebuilt, nil
}

// lookupPrimaryMuscles resolves an exercise's primary muscles from its
// source workout template, caching per-template lookups. The completion
// sub-records only carry names, so the template is the muscle source.
func (s *progressService) lookupPrimaryMuscles(ctx context.Context, cache map[primitive.ObjectID]map[string][]string, workoutID primitive.ObjectID, exerciseName string) []string {
	byName, ok := cache[workoutID]
	if !ok {
		byName = map[string][]string{}
		workout, err := s.workoutRepo.GetByID(ctx, workoutID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Printf("WARN: Could not load workout %s during repair: %v", workoutID.Hex(), err)
			}
		} else {
			for _, ex := range workout.Exercises {
				byName[ex.Name] = ex.PrimaryMuscles
			}
		}
		cache[workoutID] = byName
	}
	return byName[exerciseName]
}

func completedAtOf(uw *domain.UserWorkout) time.Time {
	if uw.CompletedAt != nil {
		return *uw.CompletedAt
	}
	return uw.Scheduled
}

// formatWeeklyActivity buckets the activity series into seven Sun..Sat
// entries, summing durations and calories per day of week. Entries without a
// usable date are skipped, not fatal.
func formatWeeklyActivity(series []domain.ActivityEntry) []DayActivity {
	buckets := make([]DayActivity, weekDays)
	for i := range buckets {
		buckets[i].Day = dayLabels[i]
	}

	for _, entry := range series {
		if entry.Date.IsZero() {
			log.Printf("WARN: Skipping weekly activity entry with no date")
			continue
		}
		dayOfWeek := int(entry.Date.Weekday())
		buckets[dayOfWeek].Minutes += entry.Duration
		buckets[dayOfWeek].Calories += entry.Calories
	}
	return buckets
}

// muscleGroupPercentages normalizes name/count pairs to whole percentages,
// sorted descending. Percentages are rounded independently and need not sum
// to exactly 100.
func muscleGroupPercentages(groups []domain.StatCount) []MuscleGroupShare {
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	if total == 0 {
		return []MuscleGroupShare{}
	}

	shares := make([]MuscleGroupShare, len(groups))
	for i, g := range groups {
		shares[i] = MuscleGroupShare{
			Name:       g.Name,
			Percentage: int(float64(g.Count)/float64(total)*100 + 0.5),
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percentage > shares[j].Percentage
	})
	return shares
}
