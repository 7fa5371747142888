package server

import (
	"sideeffect/internal/dto"
	"sideeffect/internal/models"
	"sideeffect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ScrollRecruitBoards handles GET /api/recruit-boards/scroll
// @Summary Recruit board search
// @Description Cursor paging, newest first. stackTypes may repeat or be comma separated; a board matches when it has any of them.
// @Tags recruit-boards
// @Produce json
// @Param lastId query int false "Cursor from the previous page"
// @Param size query int false "Page size (1-50, default 10)"
// @Param keyword query string false "Matches title or content"
// @Param stackTypes query []string false "Stack filter" collectionFormat(multi)
// @Success 200 {object} dto.ScrollResponse[dto.RecruitBoardResponse]
// @Failure 400 {object} models.ErrorResponse
// @Router /recruit-boards/scroll [get]
func (s *Server) ScrollRecruitBoards(c *fiber.Ctx) error {
	lastID, err := parseLastID(c)
	if err != nil {
		return err
	}
	page, err := s.recruitBoardService.Search(c.UserContext(), service.RecruitSearchInput{
		LastID:     lastID,
		Keyword:    c.Query("keyword"),
		StackTypes: queryList(c, "stackTypes"),
		Size:       c.QueryInt("size", service.DefaultPageSize),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetRecruitBoard handles GET /api/recruit-boards/:id
func (s *Server) GetRecruitBoard(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	board, err := s.recruitBoardService.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.RecruitBoard(board))
}

// CreateRecruitBoard handles POST /api/recruit-boards
// @Summary Create a recruit board
// @Tags recruit-boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateRecruitBoardInput true "Board"
// @Success 201 {object} dto.RecruitBoardResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /recruit-boards [post]
func (s *Server) CreateRecruitBoard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req service.CreateRecruitBoardInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = userID

	board, err := s.recruitBoardService.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RecruitBoard(board))
}

// UpdateRecruitBoard handles PATCH /api/recruit-boards/:id
func (s *Server) UpdateRecruitBoard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var patch models.RecruitBoardPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	board, err := s.recruitBoardService.Update(c.UserContext(), userID, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.RecruitBoard(board))
}

// DeleteRecruitBoard handles DELETE /api/recruit-boards/:id
func (s *Server) DeleteRecruitBoard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.recruitBoardService.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
