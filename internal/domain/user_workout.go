package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetEntry records one performed set of an exercise during a session.
type SetEntry struct {
	Reps      int     `bson:"reps" json:"reps"`
	Weight    float64 `bson:"weight" json:"weight"`
	Completed bool    `bson:"completed" json:"completed"`
}

// CompletedExercise is the per-exercise completion sub-record inside a
// UserWorkout.
type CompletedExercise struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Name       string             `bson:"name" json:"name"`
	Sets       []SetEntry         `bson:"sets" json:"sets"`
}

// UserWorkout is a scheduled-or-completed instantiation of a Workout for one
// user. Name, description and duration are snapshots of the template at
// scheduling time. Only its owner mutates it.
type UserWorkout struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	WorkoutID      primitive.ObjectID  `bson:"workoutId" json:"workoutId"`
	Name           string              `bson:"name" json:"name"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Scheduled      time.Time           `bson:"scheduled" json:"scheduled"`
	Completed      bool                `bson:"completed" json:"completed"`
	CompletedAt    *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Duration       int                 `bson:"duration" json:"duration"` // minutes
	CaloriesBurned int                 `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	Exercises      []CompletedExercise `bson:"exercises" json:"exercises"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}
