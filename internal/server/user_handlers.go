package server

import (
	"sideeffect/internal/dto"
	"sideeffect/internal/models"
	"sideeffect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Join handles POST /api/user/join
// @Summary Sign up
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.JoinInput true "New account"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /user/join [post]
func (s *Server) Join(c *fiber.Ctx) error {
	var req service.JoinInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Join(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.User(user))
}

// DupleEmail handles GET /api/user/duple/email?email=
func (s *Server) DupleEmail(c *fiber.Ctx) error {
	taken, err := s.userService.IsEmailTaken(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"duplicate": taken})
}

// DupleNickname handles GET /api/user/duple/nickname?nickname=
func (s *Server) DupleNickname(c *fiber.Ctx) error {
	taken, err := s.userService.IsNicknameTaken(c.UserContext(), c.Query("nickname"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"duplicate": taken})
}

// MyPage handles GET /api/user/mypage/:id
// @Summary Public profile with the user's boards
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.MyPageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /user/mypage/{id} [get]
func (s *Server) MyPage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.MyPage(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.MyPage(user))
}

// Me handles GET /api/user/me
func (s *Server) Me(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := s.userService.GetUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.User(user))
}

// UpdateUser handles PATCH /api/user
// @Summary Update own profile
// @Description Only the fields present in the body are changed
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UserPatch true "Profile patch"
// @Success 200 {object} dto.UserResponse
// @Router /user [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	user, err := s.userService.Update(c.UserContext(), userID, patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.User(user))
}

// DeleteUser handles DELETE /api/user
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := s.userService.Delete(c.UserContext(), userID); err != nil {
		return err
	}
	if token := c.Cookies(refreshCookieName); token != "" {
		_ = s.refresh.Revoke(c.UserContext(), token)
	}
	s.clearRefreshCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}
