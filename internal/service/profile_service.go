package service

import (
	"context"
	"errors"

	"fitgenie/fitness-api/internal/domain"
	"fitgenie/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var ErrProfileNotFound = errors.New("user profile not found")

// --- Service Interface ---
type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, userID primitive.ObjectID, profile *domain.UserProfile) (*domain.UserProfile, error)
}

type profileService struct {
	profileRepo repository.UserProfileRepository
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.UserProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// SaveProfile creates or updates the profile for the given user. The stored
// userId always comes from the authenticated caller, never the payload.
func (s *profileService) SaveProfile(ctx context.Context, userID primitive.ObjectID, profile *domain.UserProfile) (*domain.UserProfile, error) {
	profile.UserID = userID
	return s.profileRepo.Upsert(ctx, profile)
}
