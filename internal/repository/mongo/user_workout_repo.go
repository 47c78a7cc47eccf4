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

const userWorkoutCollectionName = "user_workouts"

// mongoUserWorkoutRepository implements repository.UserWorkoutRepository
type mongoUserWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoUserWorkoutRepository creates a new UserWorkout repository backed by MongoDB.
func NewMongoUserWorkoutRepository(db *mongo.Database) repository.UserWorkoutRepository {
	return &mongoUserWorkoutRepository{
		collection: db.Collection(userWorkoutCollectionName),
	}
}

// Create inserts a new user workout instance.
func (r *mongoUserWorkoutRepository) Create(ctx context.Context, userWorkout *domain.UserWorkout) (primitive.ObjectID, error) {
	if userWorkout.UserID == primitive.NilObjectID || userWorkout.WorkoutID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("user ID and workout ID are required")
	}

	userWorkout.ID = primitive.NewObjectID()
	userWorkout.CreatedAt = time.Now().UTC()
	if userWorkout.Exercises == nil {
		userWorkout.Exercises = []domain.CompletedExercise{}
	}

	result, err := r.collection.InsertOne(ctx, userWorkout)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a user workout by its ID.
func (r *mongoUserWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.UserWorkout, error) {
	var userWorkout domain.UserWorkout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&userWorkout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &userWorkout, nil
}

// GetUpcoming retrieves not-yet-completed workouts scheduled at or after the
// given time, earliest first.
func (r *mongoUserWorkoutRepository) GetUpcoming(ctx context.Context, userID primitive.ObjectID, after time.Time, limit int64) ([]domain.UserWorkout, error) {
	filter := bson.M{
		"userId":    userID,
		"scheduled": bson.M{"$gte": after},
		"completed": false,
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "scheduled", Value: 1}}).
		SetLimit(limit)

	return r.findMany(ctx, filter, findOptions)
}

// GetPast retrieves workouts that are completed or whose scheduled time has
// passed, most recent first.
func (r *mongoUserWorkoutRepository) GetPast(ctx context.Context, userID primitive.ObjectID, before time.Time, limit int64) ([]domain.UserWorkout, error) {
	filter := bson.M{
		"userId": userID,
		"$or": bson.A{
			bson.M{"completed": true},
			bson.M{"scheduled": bson.M{"$lt": before}},
		},
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "scheduled", Value: -1}}).
		SetLimit(limit)

	return r.findMany(ctx, filter, findOptions)
}

// GetCompleted retrieves every completed workout for the user. The repair
// flow folds these primary records back into the progress aggregate.
func (r *mongoUserWorkoutRepository) GetCompleted(ctx context.Context, userID primitive.ObjectID) ([]domain.UserWorkout, error) {
	filter := bson.M{"userId": userID, "completed": true}
	return r.findMany(ctx, filter, options.Find())
}

func (r *mongoUserWorkoutRepository) findMany(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.UserWorkout, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var userWorkouts []domain.UserWorkout
	if err = cursor.All(ctx, &userWorkouts); err != nil {
		return nil, err
	}
	return userWorkouts, nil
}

// Update replaces the mutable session fields of a user workout.
func (r *mongoUserWorkoutRepository) Update(ctx context.Context, userWorkout *domain.UserWorkout) error {
	if userWorkout.ID == primitive.NilObjectID {
		return errors.New("user workout ID is required for update")
	}

	filter := bson.M{"_id": userWorkout.ID}
	// Owner and template references are immutable after creation.
	update := bson.M{
		"$set": bson.M{
			"scheduled":      userWorkout.Scheduled,
			"completed":      userWorkout.Completed,
			"completedAt":    userWorkout.CompletedAt,
			"caloriesBurned": userWorkout.CaloriesBurned,
			"exercises":      userWorkout.Exercises,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountCompleted counts the user's completed workouts directly from primary
// records.
func (r *mongoUserWorkoutRepository) CountCompleted(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "completed": true})
}

// DeleteByWorkoutID removes every instance of a deleted workout template.
func (r *mongoUserWorkoutRepository) DeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID})
	return err
}

// EnsureUserWorkoutIndexes creates necessary indexes for the user_workouts collection.
func EnsureUserWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scheduled", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completed", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
