package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile holds optional biometrics feeding the calorie estimator.
// Weight, age and gender are pointers: absence means "unknown", which the
// estimator treats differently from zero.
type UserProfile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Height       *float64           `bson:"height,omitempty" json:"height,omitempty"` // cm
	Age          *int               `bson:"age,omitempty" json:"age,omitempty"`
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	FitnessLevel string             `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`
	Goals        []string           `bson:"goals,omitempty" json:"goals,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
