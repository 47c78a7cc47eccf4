package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitgenie/fitness-api/internal/domain"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userWorkoutServiceFixture struct {
	svc          *userWorkoutService
	workouts     *fakeWorkoutRepo
	userWorkouts *fakeUserWorkoutRepo
	progress     *fakeProgressRepo
	profiles     *fakeProfileRepo
	activity     *fakeActivityRepo
}

func newUserWorkoutServiceFixture(now time.Time) *userWorkoutServiceFixture {
	f := &userWorkoutServiceFixture{
		workouts:     newFakeWorkoutRepo(),
		userWorkouts: newFakeUserWorkoutRepo(),
		progress:     newFakeProgressRepo(),
		profiles:     newFakeProfileRepo(),
		activity:     &fakeActivityRepo{},
	}
	progressSvc := &progressService{
		progressRepo:    f.progress,
		workoutRepo:     f.workouts,
		userWorkoutRepo: f.userWorkouts,
		profileRepo:     f.profiles,
		now:             func() time.Time { return now },
	}
	f.svc = &userWorkoutService{
		userWorkoutRepo: f.userWorkouts,
		workoutRepo:     f.workouts,
		progressService: progressSvc,
		activity:        NewActivityRecorder(f.activity),
		now:             func() time.Time { return now },
	}
	return f
}

func (f *userWorkoutServiceFixture) seedTemplate(t *testing.T, owner primitive.ObjectID) *domain.Workout {
	t.Helper()
	template := &domain.Workout{
		Name:        "Upper Body",
		Description: "Chest and back session",
		Goal:        domain.GoalStrength,
		Level:       domain.LevelIntermediate,
		Duration:    45,
		CreatedBy:   &owner,
		Exercises: []domain.PrescribedExercise{
			{ExerciseID: primitive.NewObjectID(), Name: "bench press", Sets: 4, Reps: "6-8", PrimaryMuscles: []string{"chest"}},
			{ExerciseID: primitive.NewObjectID(), Name: "lat pulldown", Sets: 3, Reps: "ten", PrimaryMuscles: []string{"lats"}},
		},
	}
	if _, err := f.workouts.Create(context.Background(), template); err != nil {
		t.Fatalf("Create template: %v", err)
	}
	return template
}

func TestScheduleWorkoutSnapshotsTemplate(t *testing.T) {
	now := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	f := newUserWorkoutServiceFixture(now)
	userID := primitive.NewObjectID()
	template := f.seedTemplate(t, userID)
	scheduled := now.AddDate(0, 0, 2)

	uw, err := f.svc.ScheduleWorkout(context.Background(), userID, template.ID, scheduled)
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}

	if uw.Name != template.Name || uw.Duration != template.Duration {
		t.Errorf("snapshot = %q/%d, want %q/%d", uw.Name, uw.Duration, template.Name, template.Duration)
	}
	if len(uw.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(uw.Exercises))
	}

	// Sets are prefilled from the prescription: the parseable "6-8" range
	// yields 6 reps per set, the unparseable one falls back to the default.
	bench := uw.Exercises[0]
	if len(bench.Sets) != 4 {
		t.Fatalf("bench sets = %d, want 4", len(bench.Sets))
	}
	for _, set := range bench.Sets {
		want := domain.SetEntry{Reps: 6}
		if diff := cmp.Diff(want, set); diff != "" {
			t.Errorf("bench set mismatch (-want +got):\n%s", diff)
		}
	}
	pulldown := uw.Exercises[1]
	if len(pulldown.Sets) != 3 || pulldown.Sets[0].Reps != defaultSetReps {
		t.Errorf("pulldown sets = %+v, want 3 sets of %d reps", pulldown.Sets, defaultSetReps)
	}

	if len(f.activity.entries) != 1 || f.activity.entries[0].Type != domain.ActivityScheduledWorkout {
		t.Fatalf("activity entries = %+v, want one scheduled entry", f.activity.entries)
	}
	if got, want := f.activity.entries[0].Title, "Scheduled workout: Upper Body for 2026-09-02"; got != want {
		t.Errorf("activity title = %q, want %q", got, want)
	}
}

func TestScheduleWorkoutUnknownTemplate(t *testing.T) {
	f := newUserWorkoutServiceFixture(time.Now())

	_, err := f.svc.ScheduleWorkout(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), time.Now())
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("err = %v, want ErrWorkoutNotFound", err)
	}
}

func TestCompleteWorkoutCreditsCalories(t *testing.T) {
	now := time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC)
	f := newUserWorkoutServiceFixture(now)
	userID := primitive.NewObjectID()
	template := f.seedTemplate(t, userID)

	uw, err := f.svc.ScheduleWorkout(context.Background(), userID, template.ID, now)
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}

	result, err := f.svc.CompleteWorkout(context.Background(), userID, uw.ID, nil, intPtr(320))
	if err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}
	if result.CaloriesBurned != 320 {
		t.Errorf("CaloriesBurned = %d, want 320", result.CaloriesBurned)
	}

	stored, err := f.userWorkouts.GetByID(context.Background(), uw.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.Completed || stored.CompletedAt == nil || !stored.CompletedAt.Equal(now) {
		t.Errorf("stored completion = %v/%v, want completed at %v", stored.Completed, stored.CompletedAt, now)
	}
	if stored.CaloriesBurned != 320 {
		t.Errorf("stored calories = %d, want 320", stored.CaloriesBurned)
	}

	// The same credit lands in the progress aggregate and muscle histogram.
	progress, err := f.progress.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if progress.WorkoutStats.TotalCaloriesBurned != 320 {
		t.Errorf("aggregate calories = %d, want 320", progress.WorkoutStats.TotalCaloriesBurned)
	}
	wantMuscles := []domain.StatCount{
		{Name: "chest", Count: 1},
		{Name: "lats", Count: 1},
	}
	if diff := cmp.Diff(wantMuscles, progress.ExerciseStats.MuscleGroups); diff != "" {
		t.Errorf("MuscleGroups mismatch (-want +got):\n%s", diff)
	}

	last := f.activity.entries[len(f.activity.entries)-1]
	if last.Type != domain.ActivityCompletedWorkout {
		t.Errorf("activity type = %q, want %q", last.Type, domain.ActivityCompletedWorkout)
	}
	if got, want := last.Title, "Completed workout: Upper Body (320 calories)"; got != want {
		t.Errorf("activity title = %q, want %q", got, want)
	}
}

func TestCompleteWorkoutEstimatesWhenNoCaloriesGiven(t *testing.T) {
	now := time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC)
	f := newUserWorkoutServiceFixture(now)
	userID := primitive.NewObjectID()
	template := f.seedTemplate(t, userID)
	if _, err := f.profiles.Upsert(context.Background(), &domain.UserProfile{
		UserID: userID,
		Weight: floatPtr(80),
	}); err != nil {
		t.Fatalf("Upsert profile: %v", err)
	}

	uw, err := f.svc.ScheduleWorkout(context.Background(), userID, template.ID, now)
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}

	result, err := f.svc.CompleteWorkout(context.Background(), userID, uw.ID, nil, nil)
	if err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}
	// 4.5 MET (intermediate strength) * 1.10 variety for 2 exercises * 80kg
	// * 0.75h = 297.
	if result.CaloriesBurned != 297 {
		t.Errorf("CaloriesBurned = %d, want 297", result.CaloriesBurned)
	}
	if result.UserWorkout.CaloriesBurned != 297 {
		t.Errorf("stored calories = %d, want 297", result.UserWorkout.CaloriesBurned)
	}
}

func TestCompleteWorkoutTwiceFails(t *testing.T) {
	now := time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC)
	f := newUserWorkoutServiceFixture(now)
	userID := primitive.NewObjectID()
	template := f.seedTemplate(t, userID)

	uw, err := f.svc.ScheduleWorkout(context.Background(), userID, template.ID, now)
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}
	if _, err := f.svc.CompleteWorkout(context.Background(), userID, uw.ID, nil, intPtr(100)); err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}

	if _, err := f.svc.CompleteWorkout(context.Background(), userID, uw.ID, nil, intPtr(100)); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second completion err = %v, want ErrAlreadyCompleted", err)
	}

	// The aggregate still reflects exactly one completion.
	progress, err := f.progress.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if progress.WorkoutStats.CompletedWorkouts != 1 {
		t.Errorf("CompletedWorkouts = %d, want 1", progress.WorkoutStats.CompletedWorkouts)
	}
}

func TestUserWorkoutOwnership(t *testing.T) {
	now := time.Now()
	f := newUserWorkoutServiceFixture(now)
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	template := f.seedTemplate(t, owner)

	uw, err := f.svc.ScheduleWorkout(context.Background(), owner, template.ID, now)
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}

	if _, err := f.svc.GetUserWorkout(context.Background(), intruder, uw.ID); !errors.Is(err, ErrUserWorkoutAccessDenied) {
		t.Errorf("GetUserWorkout err = %v, want ErrUserWorkoutAccessDenied", err)
	}
	if _, err := f.svc.CompleteWorkout(context.Background(), intruder, uw.ID, nil, nil); !errors.Is(err, ErrUserWorkoutAccessDenied) {
		t.Errorf("CompleteWorkout err = %v, want ErrUserWorkoutAccessDenied", err)
	}
	if _, err := f.svc.GetUserWorkout(context.Background(), owner, primitive.NewObjectID()); !errors.Is(err, ErrUserWorkoutNotFound) {
		t.Errorf("GetUserWorkout err = %v, want ErrUserWorkoutNotFound", err)
	}
}

func TestUpdateProgressReplacesExercises(t *testing.T) {
	now := time.Now()
	f := newUserWorkoutServiceFixture(now)
	userID := primitive.NewObjectID()
	template := f.seedTemplate(t, userID)

	uw, err := f.svc.ScheduleWorkout(context.Background(), userID, template.ID, now)
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}

	updated := []domain.CompletedExercise{
		{
			ExerciseID: template.Exercises[0].ExerciseID,
			Name:       "bench press",
			Sets: []domain.SetEntry{
				{Reps: 6, Weight: 80, Completed: true},
				{Reps: 5, Weight: 80, Completed: true},
			},
		},
	}
	got, err := f.svc.UpdateProgress(context.Background(), userID, uw.ID, updated)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if diff := cmp.Diff(updated, got.Exercises); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}

	stored, err := f.userWorkouts.GetByID(context.Background(), uw.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if diff := cmp.Diff(updated, stored.Exercises); diff != "" {
		t.Errorf("stored exercises mismatch (-want +got):\n%s", diff)
	}
	if stored.Completed {
		t.Error("progress update must not complete the workout")
	}
}

func TestGetUpcomingWorkoutsExcludesCompleted(t *testing.T) {
	now := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
	f := newUserWorkoutServiceFixture(now)
	userID := primitive.NewObjectID()
	template := f.seedTemplate(t, userID)

	future, err := f.svc.ScheduleWorkout(context.Background(), userID, template.ID, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}
	done, err := f.svc.ScheduleWorkout(context.Background(), userID, template.ID, now.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("ScheduleWorkout: %v", err)
	}
	if _, err := f.svc.CompleteWorkout(context.Background(), userID, done.ID, nil, intPtr(100)); err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}

	upcoming, err := f.svc.GetUpcomingWorkouts(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUpcomingWorkouts: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != future.ID {
		t.Errorf("upcoming = %+v, want only the uncompleted future workout", upcoming)
	}
}
