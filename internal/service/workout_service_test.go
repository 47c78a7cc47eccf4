package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"fitgenie/fitness-api/internal/domain"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// seededRand returns a rand factory with a fixed seed so generation is
// reproducible in tests.
func seededRand(seed uint64) randFactory {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed))
	}
}

type workoutServiceFixture struct {
	svc          *workoutService
	workouts     *fakeWorkoutRepo
	exercises    *fakeExerciseRepo
	userWorkouts *fakeUserWorkoutRepo
	progress     *fakeProgressRepo
	activity     *fakeActivityRepo
}

func newWorkoutServiceFixture(catalog []domain.Exercise) *workoutServiceFixture {
	workouts := newFakeWorkoutRepo()
	exercises := &fakeExerciseRepo{exercises: catalog}
	userWorkouts := newFakeUserWorkoutRepo()
	progressRepo := newFakeProgressRepo()
	activityRepo := &fakeActivityRepo{}

	progress := NewProgressService(progressRepo, workouts, userWorkouts, newFakeProfileRepo())

	svc := &workoutService{
		workoutRepo:     workouts,
		exerciseRepo:    exercises,
		userWorkoutRepo: userWorkouts,
		progressService: progress,
		activity:        NewActivityRecorder(activityRepo),
		newRand:         seededRand(1),
	}
	return &workoutServiceFixture{
		svc:          svc,
		workouts:     workouts,
		exercises:    exercises,
		userWorkouts: userWorkouts,
		progress:     progressRepo,
		activity:     activityRepo,
	}
}

// catalogExercise builds a catalog entry with sensible defaults for tests.
func catalogExercise(name, level, mechanic, force, equipment string, primaryMuscles ...string) domain.Exercise {
	return domain.Exercise{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Level:          level,
		Mechanic:       mechanic,
		Force:          force,
		Equipment:      equipment,
		PrimaryMuscles: primaryMuscles,
	}
}

// mixedCatalog builds a pool large enough that generation never has to relax
// constraints: n compound and n isolation exercises per force direction plus
// leg work, all at the given level and equipment.
func mixedCatalog(level, equipment string, n int) []domain.Exercise {
	var out []domain.Exercise
	for i := 0; i < n; i++ {
		out = append(out,
			catalogExercise(fmt.Sprintf("press %d", i), level, domain.MechanicCompound, domain.ForcePush, equipment, "chest"),
			catalogExercise(fmt.Sprintf("flye %d", i), level, domain.MechanicIsolation, domain.ForcePush, equipment, "chest"),
			catalogExercise(fmt.Sprintf("row %d", i), level, domain.MechanicCompound, domain.ForcePull, equipment, "middle back"),
			catalogExercise(fmt.Sprintf("curl %d", i), level, domain.MechanicIsolation, domain.ForcePull, equipment, "biceps"),
			catalogExercise(fmt.Sprintf("squat %d", i), level, domain.MechanicCompound, domain.ForcePush, equipment, "quadriceps"),
			catalogExercise(fmt.Sprintf("leg curl %d", i), level, domain.MechanicIsolation, domain.ForcePull, equipment, "hamstrings"),
		)
	}
	return out
}

func TestTargetExerciseCount(t *testing.T) {
	tests := []struct {
		duration int
		want     int
	}{
		{duration: 1, want: 3},
		{duration: 29, want: 3},
		{duration: 30, want: 3},
		{duration: 45, want: 4},
		{duration: 60, want: 6},
		{duration: 80, want: 8},
		{duration: 120, want: 8},
	}
	for _, tt := range tests {
		if got := targetExerciseCount(tt.duration); got != tt.want {
			t.Errorf("targetExerciseCount(%d) = %d, want %d", tt.duration, got, tt.want)
		}
	}
}

func TestPrescriptionFor(t *testing.T) {
	tests := []struct {
		goal     string
		mechanic string
		want     Prescription
	}{
		{domain.GoalStrength, domain.MechanicCompound, Prescription{Sets: 5, Reps: "3-5", RestSeconds: 180}},
		{domain.GoalStrength, domain.MechanicIsolation, Prescription{Sets: 3, Reps: "6-8", RestSeconds: 120}},
		{domain.GoalMuscleBuilding, domain.MechanicCompound, Prescription{Sets: 4, Reps: "8-12", RestSeconds: 90}},
		{domain.GoalMuscleBuilding, domain.MechanicIsolation, Prescription{Sets: 3, Reps: "8-12", RestSeconds: 60}},
		{domain.GoalHypertrophy, domain.MechanicCompound, Prescription{Sets: 4, Reps: "8-12", RestSeconds: 90}},
		{domain.GoalFatLoss, domain.MechanicCompound, Prescription{Sets: 3, Reps: "12-15", RestSeconds: 45}},
		{domain.GoalEndurance, domain.MechanicIsolation, Prescription{Sets: 3, Reps: "15-20", RestSeconds: 30}},
		{"general fitness", domain.MechanicCompound, Prescription{Sets: 3, Reps: "10-12", RestSeconds: 60}},
		{"", "", Prescription{Sets: 3, Reps: "10-12", RestSeconds: 60}},
	}
	for _, tt := range tests {
		got := prescriptionFor(tt.goal, tt.mechanic)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("prescriptionFor(%q, %q) mismatch (-want +got):\n%s", tt.goal, tt.mechanic, diff)
		}
	}
}

func TestGenerateWorkoutCountBounds(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		want     int
	}{
		{name: "short session clamps up to three", duration: 10, want: 3},
		{name: "hour gets six", duration: 60, want: 6},
		{name: "long session clamps down to eight", duration: 180, want: 8},
	}
	userID := primitive.NewObjectID()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkoutServiceFixture(mixedCatalog(domain.LevelIntermediate, "barbell", 5))
			workout, err := f.svc.GenerateWorkout(context.Background(), userID, GenerationParams{
				Goal:      domain.GoalStrength,
				Level:     domain.LevelIntermediate,
				Equipment: []string{"barbell"},
				Duration:  tt.duration,
				SplitType: "full_body",
			})
			if err != nil {
				t.Fatalf("GenerateWorkout: %v", err)
			}
			if len(workout.Exercises) != tt.want {
				t.Errorf("exercise count = %d, want %d", len(workout.Exercises), tt.want)
			}
		})
	}
}

func TestGenerateWorkoutPushDay(t *testing.T) {
	catalog := mixedCatalog(domain.LevelBeginner, "dumbbell", 5)
	f := newWorkoutServiceFixture(catalog)
	forceByName := map[string]string{}
	for _, ex := range catalog {
		forceByName[ex.Name] = ex.Force
	}

	workout, err := f.svc.GenerateWorkout(context.Background(), primitive.NewObjectID(), GenerationParams{
		Goal:      domain.GoalMuscleBuilding,
		Level:     domain.LevelBeginner,
		Duration:  45,
		SplitType: "ppl",
		Day:       "push",
	})
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}
	for _, ex := range workout.Exercises {
		if forceByName[ex.Name] != domain.ForcePush {
			t.Errorf("push day selected %q with force %q", ex.Name, forceByName[ex.Name])
		}
	}
	if workout.Name != "Push Day for Muscle building" {
		t.Errorf("workout name = %q", workout.Name)
	}
	if workout.Type != "push" {
		t.Errorf("workout type = %q, want push", workout.Type)
	}
}

func TestGenerateWorkoutLegsDay(t *testing.T) {
	f := newWorkoutServiceFixture(mixedCatalog(domain.LevelIntermediate, "barbell", 5))

	workout, err := f.svc.GenerateWorkout(context.Background(), primitive.NewObjectID(), GenerationParams{
		Goal:      domain.GoalStrength,
		Level:     domain.LevelIntermediate,
		Duration:  40,
		SplitType: "ppl",
		Day:       "legs",
	})
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}
	for _, ex := range workout.Exercises {
		legMuscle := false
		for _, m := range ex.PrimaryMuscles {
			if containsString(legMuscles, m) {
				legMuscle = true
			}
		}
		if !legMuscle {
			t.Errorf("legs day selected %q targeting %v", ex.Name, ex.PrimaryMuscles)
		}
	}
}

func TestGenerateWorkoutRelaxesEquipment(t *testing.T) {
	// Only two machine exercises exist; the rest of the pool uses a barbell.
	catalog := mixedCatalog(domain.LevelIntermediate, "barbell", 4)
	catalog = append(catalog,
		catalogExercise("leg press", domain.LevelIntermediate, domain.MechanicCompound, domain.ForcePush, "machine", "quadriceps"),
		catalogExercise("pec deck", domain.LevelIntermediate, domain.MechanicIsolation, domain.ForcePush, "machine", "chest"),
	)
	f := newWorkoutServiceFixture(catalog)

	workout, err := f.svc.GenerateWorkout(context.Background(), primitive.NewObjectID(), GenerationParams{
		Goal:      domain.GoalStrength,
		Level:     domain.LevelIntermediate,
		Equipment: []string{"machine"},
		Duration:  60,
		SplitType: "full_body",
	})
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}
	// Six exercises cannot come from a two-exercise machine pool, so the
	// equipment constraint must have been dropped.
	if len(workout.Exercises) != 6 {
		t.Fatalf("exercise count = %d, want 6", len(workout.Exercises))
	}
	relaxed := false
	for _, ex := range workout.Exercises {
		if ex.Equipment != "machine" {
			relaxed = true
		}
	}
	if !relaxed {
		t.Error("expected non-machine exercises after equipment relaxation")
	}
}

func TestGenerateWorkoutInsufficientExercises(t *testing.T) {
	f := newWorkoutServiceFixture(nil)

	_, err := f.svc.GenerateWorkout(context.Background(), primitive.NewObjectID(), GenerationParams{
		Goal:      domain.GoalStrength,
		Level:     domain.LevelExpert,
		Duration:  30,
		SplitType: "full_body",
	})
	if !errors.Is(err, ErrInsufficientExercises) {
		t.Fatalf("err = %v, want ErrInsufficientExercises", err)
	}
	if len(f.workouts.workouts) != 0 {
		t.Errorf("empty workout was persisted")
	}
}

func TestGenerateWorkoutValidation(t *testing.T) {
	f := newWorkoutServiceFixture(mixedCatalog(domain.LevelBeginner, "body only", 3))

	_, err := f.svc.GenerateWorkout(context.Background(), primitive.NewObjectID(), GenerationParams{
		Level:     domain.LevelBeginner,
		Duration:  30,
		SplitType: "full_body",
	})
	if !errors.Is(err, ErrGenerationInvalid) {
		t.Fatalf("err = %v, want ErrGenerationInvalid", err)
	}
}

func TestGenerateWorkoutDeterministicWithSeed(t *testing.T) {
	catalog := mixedCatalog(domain.LevelIntermediate, "barbell", 5)
	params := GenerationParams{
		Goal:      domain.GoalHypertrophy,
		Level:     domain.LevelIntermediate,
		Duration:  50,
		SplitType: "full_body",
	}

	names := func(seed uint64) []string {
		f := newWorkoutServiceFixture(catalog)
		f.svc.newRand = seededRand(seed)
		workout, err := f.svc.GenerateWorkout(context.Background(), primitive.NewObjectID(), params)
		if err != nil {
			t.Fatalf("GenerateWorkout: %v", err)
		}
		out := make([]string, len(workout.Exercises))
		for i, ex := range workout.Exercises {
			out[i] = ex.Name
		}
		return out
	}

	if diff := cmp.Diff(names(7), names(7)); diff != "" {
		t.Errorf("same seed produced different selections (-first +second):\n%s", diff)
	}
}

func TestGenerateWorkoutAppliesPrescriptions(t *testing.T) {
	f := newWorkoutServiceFixture(mixedCatalog(domain.LevelIntermediate, "barbell", 5))

	workout, err := f.svc.GenerateWorkout(context.Background(), primitive.NewObjectID(), GenerationParams{
		Goal:      domain.GoalStrength,
		Level:     domain.LevelIntermediate,
		Duration:  60,
		SplitType: "full_body",
	})
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}
	for _, ex := range workout.Exercises {
		want := Prescription{Sets: 3, Reps: "6-8", RestSeconds: 120}
		if mechanicOf(f.exercises.exercises, ex.Name) == domain.MechanicCompound {
			want = Prescription{Sets: 5, Reps: "3-5", RestSeconds: 180}
		}
		got := Prescription{Sets: ex.Sets, Reps: ex.Reps, RestSeconds: ex.RestSeconds}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("prescription for %q mismatch (-want +got):\n%s", ex.Name, diff)
		}
	}
}

func mechanicOf(catalog []domain.Exercise, name string) string {
	for _, ex := range catalog {
		if ex.Name == name {
			return ex.Mechanic
		}
	}
	return ""
}

func TestCreateWorkoutCountsTowardProgress(t *testing.T) {
	f := newWorkoutServiceFixture(nil)
	userID := primitive.NewObjectID()

	created, err := f.svc.CreateWorkout(context.Background(), userID, &domain.Workout{
		Name: "Morning Routine",
		Goal: domain.GoalEndurance,
	})
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}
	if created.CreatedBy == nil || *created.CreatedBy != userID {
		t.Errorf("CreatedBy = %v, want %s", created.CreatedBy, userID.Hex())
	}

	progress, err := f.progress.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if progress.WorkoutStats.TotalWorkouts != 1 {
		t.Errorf("TotalWorkouts = %d, want 1", progress.WorkoutStats.TotalWorkouts)
	}
	if len(f.activity.entries) != 1 || f.activity.entries[0].Type != domain.ActivityWorkout {
		t.Errorf("activity entries = %+v, want one workout entry", f.activity.entries)
	}
}

func TestUpdateWorkoutOwnership(t *testing.T) {
	f := newWorkoutServiceFixture(nil)
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()

	created, err := f.svc.CreateWorkout(context.Background(), owner, &domain.Workout{Name: "Leg Day"})
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}

	_, err = f.svc.UpdateWorkout(context.Background(), intruder, created.ID, &domain.Workout{Name: "Hijacked"})
	if !errors.Is(err, ErrWorkoutAccessDenied) {
		t.Fatalf("UpdateWorkout err = %v, want ErrWorkoutAccessDenied", err)
	}

	if err := f.svc.DeleteWorkout(context.Background(), intruder, created.ID); !errors.Is(err, ErrWorkoutAccessDenied) {
		t.Fatalf("DeleteWorkout err = %v, want ErrWorkoutAccessDenied", err)
	}

	if err := f.svc.DeleteWorkout(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("DeleteWorkout by owner: %v", err)
	}
	if _, err := f.svc.GetWorkoutByID(context.Background(), created.ID); !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("GetWorkoutByID after delete err = %v, want ErrWorkoutNotFound", err)
	}
}

func TestDeleteWorkoutRemovesScheduledInstances(t *testing.T) {
	f := newWorkoutServiceFixture(nil)
	owner := primitive.NewObjectID()

	created, err := f.svc.CreateWorkout(context.Background(), owner, &domain.Workout{Name: "Push Day"})
	if err != nil {
		t.Fatalf("CreateWorkout: %v", err)
	}
	if _, err := f.userWorkouts.Create(context.Background(), &domain.UserWorkout{
		UserID:    owner,
		WorkoutID: created.ID,
		Name:      created.Name,
	}); err != nil {
		t.Fatalf("Create user workout: %v", err)
	}

	if err := f.svc.DeleteWorkout(context.Background(), owner, created.ID); err != nil {
		t.Fatalf("DeleteWorkout: %v", err)
	}
	if len(f.userWorkouts.userWorkouts) != 0 {
		t.Errorf("scheduled instances remain after template delete")
	}
}

func TestWorkoutTitle(t *testing.T) {
	tests := []struct {
		name   string
		params GenerationParams
		want   string
	}{
		{
			name:   "ppl day title",
			params: GenerationParams{SplitType: "ppl", Day: "pull", Goal: domain.GoalStrength},
			want:   "Pull Day for Strength",
		},
		{
			name:   "split title",
			params: GenerationParams{SplitType: "full_body", Goal: domain.GoalFatLoss},
			want:   "Full_body Workout for Fat loss",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := workoutTitle(tt.params)
			if got != tt.want {
				t.Errorf("workoutTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
