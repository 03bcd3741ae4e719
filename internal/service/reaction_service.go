package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
	profileRepo  repository.ProfileRepository
}

type ReactInput struct {
	UserID uint
	PostID uint
	Type   models.ReactionType
}

type UpdateReactionInput struct {
	UserID     uint
	ReactionID uint
	Type       models.ReactionType
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		profileRepo:  profileRepo,
	}
}

// React records the actor's reaction on a post. A second reaction on the
// same post overwrites the first; created reports which of the two
// happened so the handler can choose the status code.
func (s *ReactionService) React(ctx context.Context, in ReactInput) (reaction *models.Reaction, created bool, err error) {
	if !in.Type.Valid() {
		return nil, false, models.NewValidationError("Reaction type must be LIKE or DISLIKE")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, false, err
	}

	actor, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, false, err
	}

	reaction = &models.Reaction{
		ProfileID: actor.ID,
		PostID:    in.PostID,
		Type:      in.Type,
	}
	created, err = s.reactionRepo.Upsert(ctx, reaction)
	if err != nil {
		return nil, false, err
	}
	return reaction, created, nil
}

// GetReaction returns one of the actor's own reactions. Another profile's
// reaction is reported as not found rather than forbidden, so reaction IDs
// never leak across profiles.
func (s *ReactionService) GetReaction(ctx context.Context, userID, reactionID uint) (*models.Reaction, error) {
	actor, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	reaction, err := s.reactionRepo.GetByID(ctx, reactionID)
	if err != nil {
		return nil, err
	}
	if reaction.ProfileID != actor.ID {
		return nil, models.NewNotFoundError("Reaction", reactionID)
	}
	return reaction, nil
}

func (s *ReactionService) ListReactions(ctx context.Context, userID uint, limit, offset int) ([]*models.Reaction, error) {
	actor, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.reactionRepo.GetByProfileID(ctx, actor.ID, limit, offset)
}

func (s *ReactionService) UpdateReaction(ctx context.Context, in UpdateReactionInput) (*models.Reaction, error) {
	if !in.Type.Valid() {
		return nil, models.NewValidationError("Reaction type must be LIKE or DISLIKE")
	}

	reaction, err := s.GetReaction(ctx, in.UserID, in.ReactionID)
	if err != nil {
		return nil, err
	}

	reaction.Type = in.Type
	if _, err := s.reactionRepo.Upsert(ctx, reaction); err != nil {
		return nil, err
	}
	return reaction, nil
}

func (s *ReactionService) DeleteReaction(ctx context.Context, userID, reactionID uint) error {
	if _, err := s.GetReaction(ctx, userID, reactionID); err != nil {
		return err
	}
	return s.reactionRepo.Delete(ctx, reactionID)
}
