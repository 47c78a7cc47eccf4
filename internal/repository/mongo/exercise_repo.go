package mongo

import (
	"context"
	"errors"
	"log"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

const defaultExerciseLimit = 50

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Find retrieves catalog exercises matching the filter. Slice fields become
// $in clauses; the Muscle field matches primary or secondary muscles.
func (r *mongoExerciseRepository) Find(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	query := bson.M{}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if len(filter.Equipment) > 0 {
		query["equipment"] = bson.M{"$in": filter.Equipment}
	}
	if filter.Force != "" {
		query["force"] = filter.Force
	}
	if filter.Mechanic != "" {
		query["mechanic"] = filter.Mechanic
	}
	if len(filter.PrimaryMuscles) > 0 {
		query["primaryMuscles"] = bson.M{"$in": filter.PrimaryMuscles}
	}
	if filter.Muscle != "" {
		query["$or"] = bson.A{
			bson.M{"primaryMuscles": filter.Muscle},
			bson.M{"secondaryMuscles": filter.Muscle},
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultExerciseLimit
	}
	findOptions := options.Find().SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetByIDs retrieves the exercises whose ids appear in the list. Missing ids
// are simply absent from the result.
func (r *mongoExerciseRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	if len(ids) == 0 {
		return []domain.Exercise{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// DistinctEquipment lists the distinct equipment values in the catalog.
func (r *mongoExerciseRepository) DistinctEquipment(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "equipment")
}

// DistinctPrimaryMuscles lists the distinct primary muscle values in the catalog.
func (r *mongoExerciseRepository) DistinctPrimaryMuscles(ctx context.Context) ([]string, error) {
	return r.distinctStrings(ctx, "primaryMuscles")
}

func (r *mongoExerciseRepository) distinctStrings(ctx context.Context, field string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result, nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "level", Value: 1}, {Key: "equipment", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "primaryMuscles", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}},
			Options: options.Index().SetName("exercise_text_search"),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
