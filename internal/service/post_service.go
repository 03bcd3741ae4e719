package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

type PostService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
}

type CreatePostInput struct {
	UserID      uint
	Title       string
	Description string
	ImageURL    string
	Tags        []string
}

type FeedInput struct {
	UserID uint
	Tag    string
	Limit  int
	Offset int
}

type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Title       *string
	Description *string
	ImageURL    *string
	Tags        []string
}

func NewPostService(postRepo repository.PostRepository, profileRepo repository.ProfileRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
	}
}

const (
	maxTitleLen       = 300
	maxDescriptionLen = 50000
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	author, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 50000 characters)")
	}

	tags, err := s.postRepo.EnsureTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		AuthorID:    author.ID,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Tags:        tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// Feed returns the actor's own posts and posts by profiles they follow,
// newest first, optionally narrowed to posts carrying a matching tag.
func (s *PostService) Feed(ctx context.Context, in FeedInput) ([]*models.Post, error) {
	actor, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	return s.postRepo.Feed(ctx, actor.ID, in.Tag, in.Limit, in.Offset)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) GetPostsByProfile(ctx context.Context, profileID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByAuthorID(ctx, profileID, limit, offset)
}

// UpdatePost changes the writable fields of a post. The author and the
// publication date never change, regardless of the payload.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	actor, err := s.profileRepo.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = *in.Title
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, models.NewValidationError("Description is required")
		}
		if len(*in.Description) > maxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 50000 characters)")
		}
		post.Description = *in.Description
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}

	if in.Tags != nil {
		tags, err := s.postRepo.EnsureTags(ctx, in.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	// Save only the writable columns; CreatedAt stays the original
	// publication date and loaded associations stay out of the write.
	post.Tags = nil
	post.Comments = nil
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	actor, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
