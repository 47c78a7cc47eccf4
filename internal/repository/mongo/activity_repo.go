package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollectionName = "user_activities"

// mongoUserActivityRepository implements repository.UserActivityRepository
type mongoUserActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoUserActivityRepository creates a new UserActivity repository backed by MongoDB.
func NewMongoUserActivityRepository(db *mongo.Database) repository.UserActivityRepository {
	return &mongoUserActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Append inserts a new audit entry.
func (r *mongoUserActivityRepository) Append(ctx context.Context, activity *domain.UserActivity) error {
	if activity.UserID == primitive.NilObjectID || activity.Type == "" {
		return errors.New("user ID and activity type are required")
	}

	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

// GetRecent retrieves the user's latest entries, newest first.
func (r *mongoUserActivityRepository) GetRecent(ctx context.Context, userID primitive.ObjectID, limit int64) ([]domain.UserActivity, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []domain.UserActivity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// EnsureUserActivityIndexes creates necessary indexes for the user_activities collection.
func EnsureUserActivityIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
