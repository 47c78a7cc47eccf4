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

const profileCollectionName = "user_profiles"

// mongoUserProfileRepository implements repository.UserProfileRepository
type mongoUserProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoUserProfileRepository creates a new UserProfile repository backed by MongoDB.
func NewMongoUserProfileRepository(db *mongo.Database) repository.UserProfileRepository {
	return &mongoUserProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// GetByUserID retrieves the user's profile.
func (r *mongoUserProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or replaces the user's profile and returns the stored
// document.
func (r *mongoUserProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if profile.UserID == primitive.NilObjectID {
		return nil, errors.New("user ID is required for profile upsert")
	}

	now := time.Now().UTC()
	filter := bson.M{"userId": profile.UserID}
	update := bson.M{
		"$set": bson.M{
			"weight":       profile.Weight,
			"height":       profile.Height,
			"age":          profile.Age,
			"gender":       profile.Gender,
			"fitnessLevel": profile.FitnessLevel,
			"goals":        profile.Goals,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"userId":    profile.UserID,
			"createdAt": now,
		},
	}
	findOptions := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored domain.UserProfile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, findOptions).Decode(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// EnsureUserProfileIndexes creates necessary indexes for the user_profiles collection.
func EnsureUserProfileIndexes(ctx context.Context, collection *mongo.Collection) {
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
