package repository

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Upsert(ctx context.Context, reaction *models.Reaction) (created bool, err error)
	GetByID(ctx context.Context, id uint) (*models.Reaction, error)
	GetByProfileAndPost(ctx context.Context, profileID, postID uint) (*models.Reaction, error)
	GetByProfileID(ctx context.Context, profileID uint, limit, offset int) ([]*models.Reaction, error)
	Delete(ctx context.Context, id uint) error
}

// reactionRepository implements ReactionRepository
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Upsert writes the reaction for (profile, post). The write itself is a
// single INSERT ... ON CONFLICT DO UPDATE, so two concurrent upserts can
// never produce two rows. The created flag comes from a pre-read and is
// only a status report; under a race it may say created for an update,
// the stored row is unaffected.
func (r *reactionRepository) Upsert(ctx context.Context, reaction *models.Reaction) (bool, error) {
	defer observability.TrackQuery("upsert", "reactions")()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("profile_id = ? AND post_id = ?", reaction.ProfileID, reaction.PostID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	created := count == 0

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
		}).
		Create(reaction).Error; err != nil {
		return false, models.NewInternalError(err)
	}

	// Re-read so the caller gets the row ID and timestamps of the stored
	// row rather than the transient insert struct.
	var stored models.Reaction
	if err := r.db.WithContext(ctx).
		Where("profile_id = ? AND post_id = ?", reaction.ProfileID, reaction.PostID).
		First(&stored).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	*reaction = stored

	if created {
		observability.ReactionUpserts.WithLabelValues("created").Inc()
	} else {
		observability.ReactionUpserts.WithLabelValues("updated").Inc()
	}
	return created, nil
}

func (r *reactionRepository) GetByID(ctx context.Context, id uint) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := r.db.WithContext(ctx).First(&reaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reaction", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *reactionRepository) GetByProfileAndPost(ctx context.Context, profileID, postID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := r.db.WithContext(ctx).
		Where("profile_id = ? AND post_id = ?", profileID, postID).
		First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reaction", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *reactionRepository) GetByProfileID(ctx context.Context, profileID uint, limit, offset int) ([]*models.Reaction, error) {
	var reactions []*models.Reaction
	if err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reactions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

func (r *reactionRepository) Delete(ctx context.Context, id uint) error {
	// Hard delete so the (profile, post) unique index is immediately
	// reusable for a fresh reaction.
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Reaction{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
