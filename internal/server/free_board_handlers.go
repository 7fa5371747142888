package server

import (
	"io"

	"sideeffect/internal/dto"
	"sideeffect/internal/models"
	"sideeffect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ScrollFreeBoards handles GET /api/free-boards/scroll
// @Summary Free board infinite scroll
// @Description Newest first. Pass the previous page's lastId to continue; keyword filters by title or content.
// @Tags free-boards
// @Produce json
// @Param lastId query int false "Cursor from the previous page"
// @Param size query int false "Page size (1-50, default 10)"
// @Param keyword query string false "Search keyword"
// @Success 200 {object} dto.ScrollResponse[dto.FreeBoardResponse]
// @Router /free-boards/scroll [get]
func (s *Server) ScrollFreeBoards(c *fiber.Ctx) error {
	lastID, err := parseLastID(c)
	if err != nil {
		return err
	}
	page, err := s.freeBoardService.Scroll(c.UserContext(), service.ScrollInput{
		LastID:  lastID,
		Size:    c.QueryInt("size", service.DefaultPageSize),
		Keyword: c.Query("keyword"),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// RankFreeBoards handles GET /api/free-boards/rank
// @Summary Most recommended free boards
// @Tags free-boards
// @Produce json
// @Param size query int false "Number of boards (1-50, default 10)"
// @Success 200 {array} dto.FreeBoardResponse
// @Router /free-boards/rank [get]
func (s *Server) RankFreeBoards(c *fiber.Ctx) error {
	boards, err := s.freeBoardService.Rank(c.UserContext(), c.QueryInt("size", service.DefaultPageSize))
	if err != nil {
		return err
	}
	return c.JSON(boards)
}

// GetFreeBoard handles GET /api/free-boards/:id
// @Summary Free board detail
// @Description Increments the view count. liked/recommended reflect the caller when authenticated.
// @Tags free-boards
// @Produce json
// @Param id path int true "Board ID"
// @Success 200 {object} dto.FreeBoardDetailResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /free-boards/{id} [get]
func (s *Server) GetFreeBoard(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.freeBoardService.Detail(c.UserContext(), id, viewerID(c))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// CreateFreeBoard handles POST /api/free-boards
// @Summary Create a free board
// @Tags free-boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateFreeBoardInput true "Board"
// @Success 201 {object} dto.FreeBoardResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /free-boards [post]
func (s *Server) CreateFreeBoard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req service.CreateFreeBoardInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = userID

	board, err := s.freeBoardService.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FreeBoard(board))
}

// UpdateFreeBoard handles PATCH /api/free-boards/:id
func (s *Server) UpdateFreeBoard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var patch models.FreeBoardPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	board, err := s.freeBoardService.Update(c.UserContext(), userID, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.FreeBoard(board))
}

// DeleteFreeBoard handles DELETE /api/free-boards/:id
func (s *Server) DeleteFreeBoard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.freeBoardService.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadFreeBoardImage handles POST /api/free-boards/:id/image
// @Summary Replace the board's header image
// @Description The image is resized and stored as WebP.
// @Tags free-boards
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Param file formData file true "Image"
// @Success 200 {object} dto.FreeBoardResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /free-boards/{id}/image [post]
func (s *Server) UploadFreeBoardImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("No file uploaded"))
	}
	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}

	board, err := s.freeBoardService.UploadImage(c.UserContext(), userID, id, service.UploadImageInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FreeBoard(board))
}

// DeleteFreeBoardImage handles DELETE /api/free-boards/:id/image
func (s *Server) DeleteFreeBoardImage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.freeBoardService.DeleteImage(c.UserContext(), userID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
