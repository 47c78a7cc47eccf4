package service

import (
	"context"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes mirroring the Mongo query semantics the services
// rely on.

// --- fakeExerciseRepo ---

type fakeExerciseRepo struct {
	exercises []domain.Exercise
}

func (f *fakeExerciseRepo) Find(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range f.exercises {
		if filter.Level != "" && ex.Level != filter.Level {
			continue
		}
		if len(filter.Equipment) > 0 && !containsString(filter.Equipment, ex.Equipment) {
			continue
		}
		if filter.Force != "" && ex.Force != filter.Force {
			continue
		}
		if filter.Mechanic != "" && ex.Mechanic != filter.Mechanic {
			continue
		}
		if len(filter.PrimaryMuscles) > 0 && !intersects(ex.PrimaryMuscles, filter.PrimaryMuscles) {
			continue
		}
		if filter.Muscle != "" &&
			!containsString(ex.PrimaryMuscles, filter.Muscle) &&
			!containsString(ex.SecondaryMuscles, filter.Muscle) {
			continue
		}
		out = append(out, ex)
		if filter.Limit > 0 && int64(len(out)) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	for i := range f.exercises {
		if f.exercises[i].ID == id {
			ex := f.exercises[i]
			return &ex, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range f.exercises {
		for _, id := range ids {
			if ex.ID == id {
				out = append(out, ex)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) DistinctEquipment(ctx context.Context) ([]string, error) {
	return distinct(f.exercises, func(ex domain.Exercise) []string { return []string{ex.Equipment} }), nil
}

func (f *fakeExerciseRepo) DistinctPrimaryMuscles(ctx context.Context) ([]string, error) {
	return distinct(f.exercises, func(ex domain.Exercise) []string { return ex.PrimaryMuscles }), nil
}

func distinct(exercises []domain.Exercise, pick func(domain.Exercise) []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, ex := range exercises {
		for _, v := range pick(ex) {
			if v != "" && !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if containsString(b, v) {
			return true
		}
	}
	return false
}

// --- fakeWorkoutRepo ---

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]*domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: map[primitive.ObjectID]*domain.Workout{}}
}

func (f *fakeWorkoutRepo) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = time.Now()
	workout.UpdatedAt = workout.CreatedAt
	stored := *workout
	f.workouts[workout.ID] = &stored
	return workout.ID, nil
}

func (f *fakeWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *w
	return &out, nil
}

func (f *fakeWorkoutRepo) Find(ctx context.Context, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range f.workouts {
		if filter.Level != "" && w.Level != filter.Level {
			continue
		}
		if filter.Goal != "" && w.Goal != filter.Goal {
			continue
		}
		if filter.Type != "" && w.Type != filter.Type {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	if _, ok := f.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *workout
	f.workouts[workout.ID] = &stored
	return nil
}

func (f *fakeWorkoutRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.workouts, id)
	return nil
}

func (f *fakeWorkoutRepo) CountByCreator(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, w := range f.workouts {
		if w.CreatedBy != nil && *w.CreatedBy == userID {
			n++
		}
	}
	return n, nil
}

// --- fakeUserWorkoutRepo ---

type fakeUserWorkoutRepo struct {
	userWorkouts map[primitive.ObjectID]*domain.UserWorkout
}

func newFakeUserWorkoutRepo() *fakeUserWorkoutRepo {
	return &fakeUserWorkoutRepo{userWorkouts: map[primitive.ObjectID]*domain.UserWorkout{}}
}

func (f *fakeUserWorkoutRepo) Create(ctx context.Context, uw *domain.UserWorkout) (primitive.ObjectID, error) {
	uw.ID = primitive.NewObjectID()
	uw.CreatedAt = time.Now()
	stored := *uw
	f.userWorkouts[uw.ID] = &stored
	return uw.ID, nil
}

func (f *fakeUserWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.UserWorkout, error) {
	uw, ok := f.userWorkouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *uw
	return &out, nil
}

func (f *fakeUserWorkoutRepo) GetUpcoming(ctx context.Context, userID primitive.ObjectID, after time.Time, limit int64) ([]domain.UserWorkout, error) {
	var out []domain.UserWorkout
	for _, uw := range f.userWorkouts {
		if uw.UserID == userID && !uw.Completed && !uw.Scheduled.Before(after) {
			out = append(out, *uw)
		}
	}
	return capList(out, limit), nil
}

func (f *fakeUserWorkoutRepo) GetPast(ctx context.Context, userID primitive.ObjectID, before time.Time, limit int64) ([]domain.UserWorkout, error) {
	var out []domain.UserWorkout
	for _, uw := range f.userWorkouts {
		if uw.UserID == userID && (uw.Completed || uw.Scheduled.Before(before)) {
			out = append(out, *uw)
		}
	}
	return capList(out, limit), nil
}

func (f *fakeUserWorkoutRepo) GetCompleted(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkout, error) {
	var out []domain.UserWorkout
	for _, uw := range f.userWorkouts {
		if uw.UserID == userID && uw.Completed {
			out = append(out, *uw)
		}
	}
	return out, nil
}

func (f *fakeUserWorkoutRepo) Update(ctx context.Context, uw *domain.UserWorkout) error {
	if _, ok := f.userWorkouts[uw.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *uw
	f.userWorkouts[uw.ID] = &stored
	return nil
}

func (f *fakeUserWorkoutRepo) CountCompleted(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, uw := range f.userWorkouts {
		if uw.UserID == userID && uw.Completed {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserWorkoutRepo) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	for id, uw := range f.userWorkouts {
		if uw.WorkoutID == workoutID {
			delete(f.userWorkouts, id)
		}
	}
	return nil
}

func capList(list []domain.UserWorkout, limit int64) []domain.UserWorkout {
	if limit > 0 && int64(len(list)) > limit {
		return list[:limit]
	}
	return list
}

// --- fakeProgressRepo ---

type fakeProgressRepo struct {
	records map[primitive.ObjectID]*domain.UserProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: map[primitive.ObjectID]*domain.UserProgress{}}
}

func (f *fakeProgressRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error) {
	p, ok := f.records[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeProgressRepo) Ensure(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error) {
	if p, ok := f.records[userID]; ok {
		out := *p
		return &out, nil
	}
	p := domain.NewUserProgress(userID)
	p.ID = primitive.NewObjectID()
	f.records[userID] = p
	out := *p
	return &out, nil
}

func (f *fakeProgressRepo) IncrementTotalWorkouts(ctx context.Context, userID primitive.ObjectID, n int) error {
	p, ok := f.records[userID]
	if !ok {
		p = domain.NewUserProgress(userID)
		p.ID = primitive.NewObjectID()
		f.records[userID] = p
	}
	p.WorkoutStats.TotalWorkouts += n
	return nil
}

func (f *fakeProgressRepo) ApplyCompletion(ctx context.Context, userID primitive.ObjectID, update repository.CompletionUpdate) error {
	p, ok := f.records[userID]
	if !ok {
		return repository.ErrUpdateFailed
	}
	p.WorkoutStats.CompletedWorkouts += update.CompletedWorkoutsInc
	p.WorkoutStats.TotalDuration += update.DurationInc
	p.WorkoutStats.TotalCaloriesBurned += update.CaloriesInc
	p.ExerciseStats.TotalExercises += update.ExercisesInc
	last := update.LastWorkoutDate
	p.WorkoutStats.LastWorkoutDate = &last
	p.ExerciseStats.FavoriteExercises = update.FavoriteExercises
	p.ExerciseStats.MuscleGroups = update.MuscleGroups
	p.WeeklyActivity = update.WeeklyActivity
	return nil
}

func (f *fakeProgressRepo) Replace(ctx context.Context, progress *domain.UserProgress) error {
	stored := *progress
	f.records[progress.UserID] = &stored
	return nil
}

// --- fakeProfileRepo ---

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[primitive.ObjectID]*domain.UserProfile{}}
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	stored := *profile
	f.profiles[profile.UserID] = &stored
	out := stored
	return &out, nil
}

// --- fakeActivityRepo ---

type fakeActivityRepo struct {
	entries []domain.UserActivity
}

func (f *fakeActivityRepo) Append(ctx context.Context, activity *domain.UserActivity) error {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()
	f.entries = append(f.entries, *activity)
	return nil
}

func (f *fakeActivityRepo) GetRecent(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.UserActivity, error) {
	var out []domain.UserActivity
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
			if limit > 0 && int64(len(out)) == limit {
				break
			}
		}
	}
	return out, nil
}
