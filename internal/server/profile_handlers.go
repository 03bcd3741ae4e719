package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfiles handles GET /api/v1/profiles
// Supports case-insensitive substring filters on first_name, last_name, and bio.
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	profiles, err := s.profileService.ListProfiles(c.Context(), service.ListProfilesInput{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Bio:       c.Query("bio"),
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewProfileListResponse(profiles))
}

// CreateProfile handles POST /api/v1/profiles
// Registration creates a profile implicitly; this exists so an account
// whose profile was deleted can create a new one. 400 on a second profile.
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
		ImageURL  string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.CreateProfile(c.Context(), service.CreateProfileInput{
		UserID:    currentUserID(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(NewProfileResponse(profile))
}

// GetProfile handles GET /api/v1/profiles/:id
// The detail view expands the follow graph in both directions.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	following, err := s.profileService.GetFollowing(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	followers, err := s.profileService.GetFollowers(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewProfileDetailResponse(profile, following, followers))
}

// UpdateProfile handles PATCH /api/v1/profiles/:id
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Bio       *string `json:"bio"`
		ImageURL  *string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    currentUserID(c),
		ProfileID: id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewProfileResponse(profile))
}

// DeleteProfile handles DELETE /api/v1/profiles/:id
func (s *Server) DeleteProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.profileService.DeleteProfile(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// FollowProfile handles POST /api/v1/profiles/:id/follow
func (s *Server) FollowProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.profileService.Follow(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UnfollowProfile handles DELETE /api/v1/profiles/:id/follow
func (s *Server) UnfollowProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.profileService.Unfollow(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowing handles GET /api/v1/profiles/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profiles, err := s.profileService.GetFollowing(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewProfileSummaryListResponse(profiles))
}

// GetFollowers handles GET /api/v1/profiles/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profiles, err := s.profileService.GetFollowers(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewProfileSummaryListResponse(profiles))
}

// GetProfilePosts handles GET /api/v1/profiles/:id/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.GetPostsByProfile(c.Context(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewPostListResponse(posts))
}
