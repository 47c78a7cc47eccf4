package service

import (
	"context"
	"log"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityRecorder appends audit-trail entries. The trail is best-effort:
// failures are logged and swallowed so they never block or roll back the
// operation being recorded.
type ActivityRecorder struct {
	activityRepo repository.UserActivityRepository
}

// NewActivityRecorder creates a new ActivityRecorder.
func NewActivityRecorder(activityRepo repository.UserActivityRepository) *ActivityRecorder {
	return &ActivityRecorder{activityRepo: activityRepo}
}

// Record appends one entry.
func (r *ActivityRecorder) Record(ctx context.Context, userID primitive.ObjectID, activityType domain.ActivityType, title, referenceID string) {
	activity := &domain.UserActivity{
		UserID:      userID,
		Type:        activityType,
		Title:       title,
		ReferenceID: referenceID,
	}
	if err := r.activityRepo.Append(ctx, activity); err != nil {
		log.Printf("ERROR: Failed to record %s activity for user %s: %v", activityType, userID.Hex(), err)
	}
}

// Recent returns the user's latest entries, newest first.
func (r *ActivityRecorder) Recent(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.UserActivity, error) {
	return r.activityRepo.GetRecent(ctx, userID, limit)
}
