// Package service implements the business logic layer on top of the repositories.
package service

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type ListProfilesInput struct {
	FirstName string
	LastName  string
	Bio       string
	Limit     int
	Offset    int
}

type CreateProfileInput struct {
	UserID    uint
	FirstName string
	LastName  string
	Bio       string
	ImageURL  string
}

type UpdateProfileInput struct {
	UserID    uint
	ProfileID uint
	FirstName *string
	LastName  *string
	Bio       *string
	ImageURL  *string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// CreateProfile creates the caller's profile. Registration normally does
// this implicitly; the explicit operation exists so an account whose
// profile was deleted can start over. An account gets one profile at most.
func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	existing, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
			return nil, err
		}
	}
	if existing != nil {
		return nil, models.NewValidationError("Profile already exists for this account")
	}

	const maxNameLen = 50
	if len(in.FirstName) > maxNameLen || len(in.LastName) > maxNameLen {
		return nil, models.NewValidationError("Name too long (max 50 characters)")
	}

	profile := &models.Profile{
		UserID:    in.UserID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		ImageURL:  in.ImageURL,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

func (s *ProfileService) GetProfileByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) ListProfiles(ctx context.Context, in ListProfilesInput) ([]*models.Profile, error) {
	const maxFilterLen = 100
	if len(in.FirstName) > maxFilterLen || len(in.LastName) > maxFilterLen || len(in.Bio) > maxFilterLen {
		return nil, models.NewValidationError("Filter value too long (max 100 characters)")
	}
	return s.profileRepo.List(ctx, repository.ProfileFilter{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
	}, in.Limit, in.Offset)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}

	if profile.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own profile")
	}

	const maxNameLen = 50
	if in.FirstName != nil {
		if len(*in.FirstName) > maxNameLen {
			return nil, models.NewValidationError("First name too long (max 50 characters)")
		}
		profile.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		if len(*in.LastName) > maxNameLen {
			return nil, models.NewValidationError("Last name too long (max 50 characters)")
		}
		profile.LastName = *in.LastName
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.ImageURL != nil {
		profile.ImageURL = *in.ImageURL
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, userID, profileID uint) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.UserID != userID {
		return models.NewForbiddenError("You can only delete your own profile")
	}
	return s.profileRepo.Delete(ctx, profileID)
}

// Follow creates the directed edge actor -> target. Following yourself is
// rejected; following someone you already follow is a no-op.
func (s *ProfileService) Follow(ctx context.Context, userID, targetProfileID uint) error {
	actor, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if actor.ID == targetProfileID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.profileRepo.GetByID(ctx, targetProfileID); err != nil {
		return err
	}
	return s.profileRepo.Follow(ctx, actor.ID, targetProfileID)
}

// Unfollow removes the directed edge actor -> target. Unfollowing a profile
// that was never followed is a no-op.
func (s *ProfileService) Unfollow(ctx context.Context, userID, targetProfileID uint) error {
	actor, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.profileRepo.GetByID(ctx, targetProfileID); err != nil {
		return err
	}
	return s.profileRepo.Unfollow(ctx, actor.ID, targetProfileID)
}

func (s *ProfileService) GetFollowing(ctx context.Context, profileID uint) ([]*models.Profile, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetFollowing(ctx, profileID)
}

func (s *ProfileService) GetFollowers(ctx context.Context, profileID uint) ([]*models.Profile, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetFollowers(ctx, profileID)
}
