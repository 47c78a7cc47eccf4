package service

import (
	"context"
	"errors"
	"log"
	"time"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"
	"fitgenie/fitness-api/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var ErrExerciseNotFound = errors.New("exercise not found")

const imageURLExpiry = time.Hour * 1

// --- Service Interface ---
type ExerciseService interface {
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListEquipment(ctx context.Context) ([]string, error)
	ListMuscleGroups(ctx context.Context) ([]string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// ListExercises returns catalog exercises matching the filter, with image
// object keys resolved to presigned URLs.
func (s *exerciseService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		exercises[i].Images = s.resolveImageURLs(ctx, exercises[i].Images)
	}
	return exercises, nil
}

func (s *exerciseService) GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	exercise.Images = s.resolveImageURLs(ctx, exercise.Images)
	return exercise, nil
}

func (s *exerciseService) ListEquipment(ctx context.Context) ([]string, error) {
	return s.exerciseRepo.DistinctEquipment(ctx)
}

func (s *exerciseService) ListMuscleGroups(ctx context.Context) ([]string, error) {
	return s.exerciseRepo.DistinctPrimaryMuscles(ctx)
}

// resolveImageURLs swaps stored object keys for presigned download URLs. A key
// that fails to presign is dropped rather than failing the whole request.
func (s *exerciseService) resolveImageURLs(ctx context.Context, keys []string) []string {
	if s.fileStorage == nil || len(keys) == 0 {
		return keys
	}
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, imageURLExpiry)
		if err != nil {
			log.Printf("WARN: failed to presign exercise image %q: %v", key, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
