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

const progressCollectionName = "user_progress"

// mongoUserProgressRepository implements repository.UserProgressRepository
type mongoUserProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoUserProgressRepository creates a new UserProgress repository backed by MongoDB.
func NewMongoUserProgressRepository(db *mongo.Database) repository.UserProgressRepository {
	return &mongoUserProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// GetByUserID retrieves the user's progress record.
func (r *mongoUserProgressRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error) {
	var progress domain.UserProgress
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&progress)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// Ensure returns the user's record, creating a zero-valued one when absent.
// $setOnInsert keeps concurrent ensures from clobbering an existing record.
func (r *mongoUserProgressRepository) Ensure(ctx context.Context, userID primitive.ObjectID) (*domain.UserProgress, error) {
	now := time.Now().UTC()
	zero := domain.NewUserProgress(userID)

	filter := bson.M{"userId": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"userId":         userID,
			"workoutStats":   zero.WorkoutStats,
			"exerciseStats":  zero.ExerciseStats,
			"weeklyActivity": zero.WeeklyActivity,
			"createdAt":      now,
			"updatedAt":      now,
		},
	}
	findOptions := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var progress domain.UserProgress
	err := r.collection.FindOneAndUpdate(ctx, filter, update, findOptions).Decode(&progress)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// IncrementTotalWorkouts bumps the created-workout counter atomically,
// upserting the record if absent.
func (r *mongoUserProgressRepository) IncrementTotalWorkouts(ctx context.Context, userID primitive.ObjectID, n int) error {
	now := time.Now().UTC()
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$inc": bson.M{"workoutStats.totalWorkouts": n},
		"$set": bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"userId":         userID,
			"exerciseStats":  domain.ExerciseStats{FavoriteExercises: []domain.StatCount{}, MuscleGroups: []domain.StatCount{}},
			"weeklyActivity": []domain.ActivityEntry{},
			"createdAt":      now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// ApplyCompletion folds one completed workout into the document. The counter
// fields use $inc so concurrent completions never lose an increment; the
// recomputed list fields ride along as $set in the same single-document
// update, which MongoDB applies atomically.
func (r *mongoUserProgressRepository) ApplyCompletion(ctx context.Context, userID primitive.ObjectID, update repository.CompletionUpdate) error {
	filter := bson.M{"userId": userID}
	ops := bson.M{
		"$inc": bson.M{
			"workoutStats.completedWorkouts":   update.CompletedWorkoutsInc,
			"workoutStats.totalDuration":       update.DurationInc,
			"workoutStats.totalCaloriesBurned": update.CaloriesInc,
			"exerciseStats.totalExercises":     update.ExercisesInc,
		},
		"$set": bson.M{
			"workoutStats.lastWorkoutDate":    update.LastWorkoutDate,
			"exerciseStats.favoriteExercises": update.FavoriteExercises,
			"exerciseStats.muscleGroups":      update.MuscleGroups,
			"weeklyActivity":                  update.WeeklyActivity,
			"updatedAt":                       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, ops)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// Replace overwrites the whole record, used by the repair flow.
func (r *mongoUserProgressRepository) Replace(ctx context.Context, progress *domain.UserProgress) error {
	if progress.UserID == primitive.NilObjectID {
		return errors.New("user ID is required for replace")
	}

	progress.UpdatedAt = time.Now().UTC()
	filter := bson.M{"userId": progress.UserID}

	_, err := r.collection.ReplaceOne(ctx, filter, progress, options.Replace().SetUpsert(true))
	return err
}

// EnsureUserProgressIndexes creates necessary indexes for the user_progress collection.
func EnsureUserProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
