package domain

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Training goals recognized by the generator and the prescription table.
// Goal is a free-form label; anything else falls through to the default
// prescription row.
const (
	GoalStrength       = "strength"
	GoalMuscleBuilding = "muscle building"
	GoalHypertrophy    = "hypertrophy"
	GoalFatLoss        = "fat loss"
	GoalEndurance      = "endurance"
)

// PrescribedExercise is an exercise embedded in a Workout. Name, equipment,
// muscles and instructions are copied from the catalog at generation time so
// the workout stays stable even if the catalog entry changes later.
type PrescribedExercise struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Name       string             `bson:"name" json:"name"`
	Sets       int                `bson:"sets" json:"sets"`
	// Reps is a display range such as "8-12". Numeric consumers parse the
	// lower bound via RepsLowerBound.
	Reps             string   `bson:"reps" json:"reps"`
	RestSeconds      int      `bson:"restSeconds" json:"rest_seconds"`
	Equipment        string   `bson:"equipment" json:"equipment"`
	PrimaryMuscles   []string `bson:"primaryMuscles" json:"primaryMuscles"`
	SecondaryMuscles []string `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	Instructions     []string `bson:"instructions" json:"instructions"`
	Images           []string `bson:"images,omitempty" json:"images,omitempty"`
}

// RepsLowerBound parses the lower bound of a reps range string. "8-12"
// yields 8, a bare "10" yields 10. Unparseable input yields the fallback.
func RepsLowerBound(reps string, fallback int) int {
	low, _, _ := strings.Cut(reps, "-")
	n, err := strconv.Atoi(strings.TrimSpace(low))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Workout is a template: either generated or authored by a user. Completion
// instantiates it as a UserWorkout; the template itself is never mutated by
// the completion flow.
type Workout struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	Goal        string              `bson:"goal" json:"goal"`
	Level       string              `bson:"level" json:"level"`
	Type        string              `bson:"type" json:"type"`
	Duration    int                 `bson:"duration" json:"duration"` // target minutes
	Exercises   []PrescribedExercise `bson:"exercises" json:"exercises"`
	CreatedBy   *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
