package service

import (
	"context"
	"testing"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	createFn       func(context.Context, *models.Profile) error
	getByIDFn      func(context.Context, uint) (*models.Profile, error)
	getByUserIDFn  func(context.Context, uint) (*models.Profile, error)
	listFn         func(context.Context, repository.ProfileFilter, int, int) ([]*models.Profile, error)
	updateFn       func(context.Context, *models.Profile) error
	deleteFn       func(context.Context, uint) error
	followFn       func(context.Context, uint, uint) error
	unfollowFn     func(context.Context, uint, uint) error
	isFollowingFn  func(context.Context, uint, uint) (bool, error)
	getFollowingFn func(context.Context, uint) ([]*models.Profile, error)
	getFollowersFn func(context.Context, uint) ([]*models.Profile, error)
}

func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) List(ctx context.Context, f repository.ProfileFilter, limit, offset int) ([]*models.Profile, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *profileRepoStub) Follow(ctx context.Context, followerID, followeeID uint) error {
	return s.followFn(ctx, followerID, followeeID)
}
func (s *profileRepoStub) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	return s.unfollowFn(ctx, followerID, followeeID)
}
func (s *profileRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *profileRepoStub) GetFollowing(ctx context.Context, id uint) ([]*models.Profile, error) {
	return s.getFollowingFn(ctx, id)
}
func (s *profileRepoStub) GetFollowers(ctx context.Context, id uint) ([]*models.Profile, error) {
	return s.getFollowersFn(ctx, id)
}

// noopProfileRepo returns a stub where every user has profile ID equal to
// their user ID, and every lookup succeeds.
func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn: func(_ context.Context, _ *models.Profile) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{ID: id, UserID: id}, nil
		},
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: userID, UserID: userID}, nil
		},
		listFn: func(_ context.Context, _ repository.ProfileFilter, _, _ int) ([]*models.Profile, error) {
			return nil, nil
		},
		updateFn:       func(_ context.Context, _ *models.Profile) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		followFn:       func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:     func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:  func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getFollowingFn: func(_ context.Context, _ uint) ([]*models.Profile, error) { return nil, nil },
		getFollowersFn: func(_ context.Context, _ uint) ([]*models.Profile, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	feedFn          func(context.Context, uint, string, int, int) ([]*models.Post, error)
	getByAuthorIDFn func(context.Context, uint, int, int) ([]*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
	ensureTagsFn    func(context.Context, []string) ([]models.Tag, error)
	replaceTagsFn   func(context.Context, *models.Post, []models.Tag) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Feed(ctx context.Context, profileID uint, tag string, limit, offset int) ([]*models.Post, error) {
	return s.feedFn(ctx, profileID, tag, limit, offset)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.getByAuthorIDFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }
func (s *postRepoStub) EnsureTags(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.ensureTagsFn(ctx, names)
}
func (s *postRepoStub) ReplaceTags(ctx context.Context, p *models.Post, tags []models.Tag) error {
	return s.replaceTagsFn(ctx, p, tags)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		},
		feedFn: func(_ context.Context, _ uint, _ string, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		getByAuthorIDFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		ensureTagsFn:  func(_ context.Context, _ []string) ([]models.Tag, error) { return nil, nil },
		replaceTagsFn: func(_ context.Context, _ *models.Post, _ []models.Tag) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	getByPostIDFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	listFn        func(context.Context, int, int) ([]*models.Comment, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetByPostID(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.getByPostIDFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 1, PostID: 1}, nil
		},
		getByPostIDFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		listFn: func(_ context.Context, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	upsertFn             func(context.Context, *models.Reaction) (bool, error)
	getByIDFn            func(context.Context, uint) (*models.Reaction, error)
	getByProfileAndPost  func(context.Context, uint, uint) (*models.Reaction, error)
	getByProfileIDFn     func(context.Context, uint, int, int) ([]*models.Reaction, error)
	deleteFn             func(context.Context, uint) error
}

func (s *reactionRepoStub) Upsert(ctx context.Context, r *models.Reaction) (bool, error) {
	return s.upsertFn(ctx, r)
}
func (s *reactionRepoStub) GetByID(ctx context.Context, id uint) (*models.Reaction, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reactionRepoStub) GetByProfileAndPost(ctx context.Context, profileID, postID uint) (*models.Reaction, error) {
	return s.getByProfileAndPost(ctx, profileID, postID)
}
func (s *reactionRepoStub) GetByProfileID(ctx context.Context, profileID uint, limit, offset int) ([]*models.Reaction, error) {
	return s.getByProfileIDFn(ctx, profileID, limit, offset)
}
func (s *reactionRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		upsertFn: func(_ context.Context, r *models.Reaction) (bool, error) {
			r.ID = 1
			return true, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Reaction, error) {
			return &models.Reaction{ID: id, ProfileID: 1, PostID: 1, Type: models.ReactionLike}, nil
		},
		getByProfileAndPost: func(_ context.Context, profileID, postID uint) (*models.Reaction, error) {
			return &models.Reaction{ID: 1, ProfileID: profileID, PostID: postID, Type: models.ReactionLike}, nil
		},
		getByProfileIDFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Reaction, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}
