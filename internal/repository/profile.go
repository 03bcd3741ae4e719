package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileFilter narrows the profile listing. All fields are optional
// case-insensitive substring matches.
type ProfileFilter struct {
	FirstName string
	LastName  string
	Bio       string
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context, filter ProfileFilter, limit, offset int) ([]*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id uint) error
	Follow(ctx context.Context, followerID, followeeID uint) error
	Unfollow(ctx context.Context, followerID, followeeID uint) error
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	GetFollowing(ctx context.Context, profileID uint) ([]*models.Profile, error)
	GetFollowers(ctx context.Context, profileID uint) ([]*models.Profile, error)
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("create", "profiles")()

	// A soft-deleted row for the same account still occupies the unique
	// user_id index, so recreate by reviving it instead of inserting.
	var prior models.Profile
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ?", profile.UserID).
		First(&prior).Error
	if err == nil {
		profile.ID = prior.ID
		profile.CreatedAt = prior.CreatedAt
		if err := r.db.WithContext(ctx).Unscoped().Save(profile).Error; err != nil {
			return models.NewInternalError(err)
		}
		cache.InvalidateProfile(ctx, profile.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(id), &profile, cache.ProfileTTL, func() error {
		return r.db.WithContext(ctx).First(&profile, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter, limit, offset int) ([]*models.Profile, error) {
	defer observability.TrackQuery("list", "profiles")()
	var profiles []*models.Profile

	// LOWER(..) LIKE LOWER(..) keeps the filter case-insensitive on both
	// PostgreSQL and the SQLite driver used by tests.
	q := r.db.WithContext(ctx).Model(&models.Profile{})
	if filter.FirstName != "" {
		q = q.Where("LOWER(first_name) LIKE LOWER(?)", "%"+filter.FirstName+"%")
	}
	if filter.LastName != "" {
		q = q.Where("LOWER(last_name) LIKE LOWER(?)", "%"+filter.LastName+"%")
	}
	if filter.Bio != "" {
		q = q.Where("LOWER(bio) LIKE LOWER(?)", "%"+filter.Bio+"%")
	}

	if err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.ID)
	return nil
}

// Delete removes a profile together with everything it authored. Follow
// rows disappear in both directions; posts and comments are soft deleted,
// reactions hard deleted (no tombstones on the unique pair index).
func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followee_id = ?", id, id).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("profile_id = ?", id).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).
			Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Profile{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, id)
	return nil
}

func (r *profileRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	// ON CONFLICT DO NOTHING makes a repeated follow a no-op instead of a
	// duplicate key error.
	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowGraph(ctx, followerID, followeeID)
	return nil
}

func (r *profileRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowGraph(ctx, followerID, followeeID)
	return nil
}

func (r *profileRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// GetFollowing returns the profiles this profile follows. The list is
// cached; Follow and Unfollow invalidate it through InvalidateFollowGraph.
func (r *profileRepository) GetFollowing(ctx context.Context, profileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := cache.Aside(ctx, cache.FollowingKey(profileID), &profiles, cache.FollowTTL, func() error {
		return r.db.WithContext(ctx).
			Table("profiles").
			Joins("JOIN profile_follows f ON profiles.id = f.followee_id").
			Where("f.follower_id = ? AND profiles.deleted_at IS NULL", profileID).
			Order("profiles.id ASC").
			Find(&profiles).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// GetFollowers returns the profiles following this profile, cached the same
// way as GetFollowing.
func (r *profileRepository) GetFollowers(ctx context.Context, profileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := cache.Aside(ctx, cache.FollowersKey(profileID), &profiles, cache.FollowTTL, func() error {
		return r.db.WithContext(ctx).
			Table("profiles").
			Joins("JOIN profile_follows f ON profiles.id = f.follower_id").
			Where("f.followee_id = ? AND profiles.deleted_at IS NULL", profileID).
			Order("profiles.id ASC").
			Find(&profiles).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}
