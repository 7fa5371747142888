package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type toggleFunc func(ctx context.Context, userID, boardID uint) (bool, error)

// toggle runs a like/recommend toggle for the caller and reports the new state under key.
func (s *Server) toggle(c *fiber.Ctx, key string, fn toggleFunc) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	on, err := fn(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{key: on})
}

// ToggleRecommend handles POST /api/recommend/:id
// @Summary Toggle recommend on a free board
// @Tags reactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Success 200 {object} object{recommend=bool}
// @Router /recommend/{id} [post]
func (s *Server) ToggleRecommend(c *fiber.Ctx) error {
	return s.toggle(c, "recommend", s.reactionService.ToggleRecommend)
}

// ToggleFreeBoardLike handles POST /api/like/free-boards/:id
func (s *Server) ToggleFreeBoardLike(c *fiber.Ctx) error {
	return s.toggle(c, "like", s.reactionService.ToggleLike)
}

// ToggleRecruitBoardLike handles POST /api/like/recruit-boards/:id
func (s *Server) ToggleRecruitBoardLike(c *fiber.Ctx) error {
	return s.toggle(c, "like", s.reactionService.ToggleRecruitLike)
}
