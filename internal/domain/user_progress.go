package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite-exercise list is capped after every update.
const MaxFavoriteExercises = 10

// Weekly activity entries older than this are pruned on every update.
const ActivityRetentionDays = 30

// StatCount is a name→count pair used for favorite exercises and muscle
// group histograms.
type StatCount struct {
	Name  string `bson:"name" json:"name"`
	Count int    `bson:"count" json:"count"`
}

// ActivityEntry is one calendar-day bucket in the rolling activity series.
// Multiple completions on the same day merge additively into one entry.
type ActivityEntry struct {
	Date     time.Time `bson:"date" json:"date"`
	Duration int       `bson:"duration" json:"duration"` // minutes
	Calories int       `bson:"calories,omitempty" json:"calories,omitempty"`
}

// WorkoutStats are the cached workout-level aggregates. They must stay
// derivable from the user's primary Workout/UserWorkout records; the repair
// flow recomputes them from scratch.
type WorkoutStats struct {
	TotalWorkouts       int        `bson:"totalWorkouts" json:"totalWorkouts"`
	CompletedWorkouts   int        `bson:"completedWorkouts" json:"completedWorkouts"`
	TotalDuration       int        `bson:"totalDuration" json:"totalDuration"` // minutes
	TotalCaloriesBurned int        `bson:"totalCaloriesBurned" json:"totalCaloriesBurned"`
	LastWorkoutDate     *time.Time `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate,omitempty"`
}

// ExerciseStats are the cached exercise-level aggregates. TotalExercises
// counts exercise instances across completed workouts, not distinct names.
type ExerciseStats struct {
	TotalExercises    int         `bson:"totalExercises" json:"totalExercises"`
	FavoriteExercises []StatCount `bson:"favoriteExercises" json:"favoriteExercises"`
	MuscleGroups      []StatCount `bson:"muscleGroups" json:"muscleGroups"`
}

// UserProgress is the per-user aggregation target, one document per user.
type UserProgress struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutStats   WorkoutStats       `bson:"workoutStats" json:"workoutStats"`
	ExerciseStats  ExerciseStats      `bson:"exerciseStats" json:"exerciseStats"`
	WeeklyActivity []ActivityEntry    `bson:"weeklyActivity" json:"weeklyActivity"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewUserProgress returns the zero-valued record for a user. Every mutating
// path goes through this when no record exists yet (upsert semantics).
func NewUserProgress(userID primitive.ObjectID) *UserProgress {
	return &UserProgress{
		UserID: userID,
		ExerciseStats: ExerciseStats{
			FavoriteExercises: []StatCount{},
			MuscleGroups:      []StatCount{},
		},
		WeeklyActivity: []ActivityEntry{},
	}
}

// CompletedExerciseRef carries the fields of a completed exercise the rollup
// cares about.
type CompletedExerciseRef struct {
	Name           string
	PrimaryMuscles []string
}

// CompletionDelta describes one completed workout for the rollup.
type CompletionDelta struct {
	Duration  int // minutes
	Calories  int
	Exercises []CompletedExerciseRef
	Now       time.Time
}

// ApplyCompletion folds one completed workout into the record: counters,
// day-merged weekly activity, favorite and muscle histograms, top-10
// truncation and 30-day pruning. Calling it twice for the same physical
// completion double-counts; the caller guards with the UserWorkout completed
// flag.
func (p *UserProgress) ApplyCompletion(d CompletionDelta) {
	now := d.Now
	p.WorkoutStats.CompletedWorkouts++
	p.WorkoutStats.TotalDuration += d.Duration
	p.WorkoutStats.TotalCaloriesBurned += d.Calories
	p.WorkoutStats.LastWorkoutDate = &now

	p.WeeklyActivity = mergeDailyActivity(p.WeeklyActivity, ActivityEntry{
		Date:     StartOfDay(now),
		Duration: d.Duration,
		Calories: d.Calories,
	})

	p.ExerciseStats.TotalExercises += len(d.Exercises)
	for _, ex := range d.Exercises {
		p.ExerciseStats.FavoriteExercises = incrementCount(p.ExerciseStats.FavoriteExercises, ex.Name)
		for _, muscle := range ex.PrimaryMuscles {
			p.ExerciseStats.MuscleGroups = incrementCount(p.ExerciseStats.MuscleGroups, muscle)
		}
	}

	p.ExerciseStats.FavoriteExercises = RankFavorites(p.ExerciseStats.FavoriteExercises)
	p.WeeklyActivity = PruneActivity(p.WeeklyActivity, now)
}

// StartOfDay truncates t to local midnight, the calendar-day granularity of
// the weekly activity series.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// mergeDailyActivity adds entry into the series, folding it into an existing
// same-day bucket instead of appending a duplicate.
func mergeDailyActivity(series []ActivityEntry, entry ActivityEntry) []ActivityEntry {
	for i := range series {
		if sameDay(series[i].Date, entry.Date) {
			series[i].Duration += entry.Duration
			series[i].Calories += entry.Calories
			return series
		}
	}
	return append(series, entry)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// incrementCount bumps the named counter or inserts it at 1. Name match is
// case-sensitive and exact.
func incrementCount(counts []StatCount, name string) []StatCount {
	for i := range counts {
		if counts[i].Name == name {
			counts[i].Count++
			return counts
		}
	}
	return append(counts, StatCount{Name: name, Count: 1})
}

// RankFavorites sorts descending by count and truncates to the top 10. The
// sort is stable so equal counts keep insertion order.
func RankFavorites(favorites []StatCount) []StatCount {
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].Count > favorites[j].Count
	})
	if len(favorites) > MaxFavoriteExercises {
		favorites = favorites[:MaxFavoriteExercises]
	}
	return favorites
}

// PruneActivity drops entries older than the 30-day retention window
// measured from now.
func PruneActivity(series []ActivityEntry, now time.Time) []ActivityEntry {
	cutoff := now.AddDate(0, 0, -ActivityRetentionDays)
	kept := series[:0]
	for _, entry := range series {
		if !entry.Date.Before(cutoff) {
			kept = append(kept, entry)
		}
	}
	return kept
}
