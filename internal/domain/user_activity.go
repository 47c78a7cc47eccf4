package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType tags an audit-trail entry.
type ActivityType string

const (
	ActivityWorkout          ActivityType = "workout"
	ActivityCompletedWorkout ActivityType = "completed_workout"
	ActivityScheduledWorkout ActivityType = "scheduled_workout"
	ActivityAICoach          ActivityType = "ai_coach"
)

// UserActivity is an append-only audit entry. The core only writes these;
// the dashboard reads the most recent few back for display.
type UserActivity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Type        ActivityType       `bson:"type" json:"type"`
	Title       string             `bson:"title" json:"title"`
	ReferenceID string             `bson:"referenceId" json:"referenceId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
