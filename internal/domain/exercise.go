package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels used across exercises, workouts and profiles.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelExpert       = "expert"
)

// Mechanic values for an exercise.
const (
	MechanicCompound  = "compound"
	MechanicIsolation = "isolation"
)

// Force values for an exercise.
const (
	ForcePush   = "push"
	ForcePull   = "pull"
	ForceStatic = "static"
)

// Exercise is a catalog entry seeded externally. The core treats it as
// read-only input; workouts copy the fields they need at generation time.
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Force            string             `bson:"force,omitempty" json:"force,omitempty"`
	Level            string             `bson:"level" json:"level"`
	Mechanic         string             `bson:"mechanic,omitempty" json:"mechanic,omitempty"`
	Equipment        string             `bson:"equipment" json:"equipment"`
	PrimaryMuscles   []string           `bson:"primaryMuscles" json:"primaryMuscles"`
	SecondaryMuscles []string           `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	Instructions     []string           `bson:"instructions" json:"instructions"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"`
	// Images holds object keys in the media bucket, not URLs. Handlers
	// resolve them to presigned URLs on the way out.
	Images []string `bson:"images,omitempty" json:"images,omitempty"`
}

// IsCompound reports whether the exercise is a multi-joint movement.
func (e *Exercise) IsCompound() bool {
	return e.Mechanic == MechanicCompound
}
