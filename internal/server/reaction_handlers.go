package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetReactions handles GET /api/v1/reactions
// The listing only ever contains the caller's own reactions.
func (s *Server) GetReactions(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	reactions, err := s.reactionService.ListReactions(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewReactionListResponse(reactions))
}

// CreateReaction handles POST /api/v1/reactions
// Reacting to a post the caller already reacted to overwrites the previous
// reaction; the status code reports which happened (201 created, 200 updated).
func (s *Server) CreateReaction(c *fiber.Ctx) error {
	var req struct {
		PostID uint                `json:"post"`
		Type   models.ReactionType `json:"reaction_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post is required"))
	}

	reaction, created, err := s.reactionService.React(c.Context(), service.ReactInput{
		UserID: currentUserID(c),
		PostID: req.PostID,
		Type:   req.Type,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(NewReactionResponse(reaction))
}

// GetReaction handles GET /api/v1/reactions/:id
func (s *Server) GetReaction(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reaction, err := s.reactionService.GetReaction(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewReactionResponse(reaction))
}

// UpdateReaction handles PATCH /api/v1/reactions/:id
func (s *Server) UpdateReaction(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type models.ReactionType `json:"reaction_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reaction, err := s.reactionService.UpdateReaction(c.Context(), service.UpdateReactionInput{
		UserID:     currentUserID(c),
		ReactionID: id,
		Type:       req.Type,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(NewReactionResponse(reaction))
}

// DeleteReaction handles DELETE /api/v1/reactions/:id
func (s *Server) DeleteReaction(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reactionService.DeleteReaction(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
