package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"sideeffect/internal/cache"
	"sideeffect/internal/dto"
	"sideeffect/internal/middleware"
	"sideeffect/internal/models"
	"sideeffect/internal/observability"
	"sideeffect/internal/repository"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	maxTitleLen     = 100
	maxContentLen   = 20000
)

type FreeBoardService struct {
	boardRepo    repository.FreeBoardRepository
	reactionRepo repository.ReactionRepository
	images       *ImageService
}

type CreateFreeBoardInput struct {
	UserID      uint
	Title       string `json:"title"`
	SubTitle    string `json:"subTitle"`
	ProjectName string `json:"projectName"`
	ProjectURL  string `json:"projectUrl"`
	Content     string `json:"content"`
}

type ScrollInput struct {
	LastID  *uint
	Size    int
	Keyword string
}

func NewFreeBoardService(
	boardRepo repository.FreeBoardRepository,
	reactionRepo repository.ReactionRepository,
	images *ImageService,
) *FreeBoardService {
	return &FreeBoardService{
		boardRepo:    boardRepo,
		reactionRepo: reactionRepo,
		images:       images,
	}
}

// clampPageSize maps non-positive sizes to the default and caps the rest.
func clampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return min(size, MaxPageSize)
}

func (s *FreeBoardService) Create(ctx context.Context, in CreateFreeBoardInput) (*models.FreeBoard, error) {
	if err := validateBoardText(in.Title, in.Content); err != nil {
		return nil, err
	}
	board := &models.FreeBoard{
		Title:       strings.TrimSpace(in.Title),
		SubTitle:    in.SubTitle,
		ProjectName: in.ProjectName,
		Content:     in.Content,
		UserID:      in.UserID,
	}
	if projectURL := strings.TrimSpace(in.ProjectURL); projectURL != "" {
		if err := s.checkProjectURL(ctx, projectURL, 0); err != nil {
			return nil, err
		}
		board.ProjectURL = &projectURL
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Project URL already registered")
		}
		return nil, err
	}
	cache.InvalidateFreeBoardRank(ctx)
	return s.boardRepo.GetByID(ctx, board.ID)
}

// Detail loads a live board, counts the view and reports the viewer's reactions.
func (s *FreeBoardService) Detail(ctx context.Context, id, viewerID uint) (dto.FreeBoardDetailResponse, error) {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		return dto.FreeBoardDetailResponse{}, err
	}
	if err := s.boardRepo.IncreaseViews(ctx, id); err != nil {
		return dto.FreeBoardDetailResponse{}, err
	}
	board.IncreaseViews()

	var liked, recommended bool
	if viewerID != 0 {
		liked, recommended, err = s.reactionRepo.FreeBoardState(ctx, viewerID, id)
		if err != nil {
			return dto.FreeBoardDetailResponse{}, err
		}
	}
	return dto.FreeBoardDetail(board, liked, recommended), nil
}

// Scroll returns one newest-first page, filtered by keyword when it is not blank.
func (s *FreeBoardService) Scroll(ctx context.Context, in ScrollInput) (dto.ScrollResponse[dto.FreeBoardResponse], error) {
	size := clampPageSize(in.Size)
	keyword := in.Keyword
	hasKeyword := strings.TrimSpace(keyword) != ""

	var (
		boards []*models.FreeBoard
		err    error
	)
	switch {
	case !hasKeyword && in.LastID == nil:
		boards, err = s.boardRepo.FindStartScroll(ctx, size+1)
	case !hasKeyword:
		boards, err = s.boardRepo.FindScroll(ctx, *in.LastID, size+1)
	case in.LastID == nil:
		boards, err = s.boardRepo.FindStartScrollWithKeyword(ctx, keyword, size+1)
	default:
		boards, err = s.boardRepo.FindScrollWithKeyword(ctx, keyword, *in.LastID, size+1)
	}
	if err != nil {
		return dto.ScrollResponse[dto.FreeBoardResponse]{}, err
	}

	mode := "scroll"
	if hasKeyword {
		mode = "keyword"
	}
	observability.BoardSearches.WithLabelValues("free", mode).Inc()

	return dto.Scroll(boards, size, func(b *models.FreeBoard) uint { return b.ID }, dto.FreeBoards), nil
}

// Rank returns the most recommended live boards. Pages are cached for a minute.
func (s *FreeBoardService) Rank(ctx context.Context, size int) ([]dto.FreeBoardResponse, error) {
	size = clampPageSize(size)
	observability.BoardSearches.WithLabelValues("free", "rank").Inc()

	var out []dto.FreeBoardResponse
	err := cache.CacheAside(ctx, "free_board_rank", cache.FreeBoardRankKey(size), &out, cache.FreeBoardRankTTL, func() error {
		boards, err := s.boardRepo.FindRank(ctx, size)
		if err != nil {
			return err
		}
		out = dto.FreeBoards(boards)
		return nil
	})
	return out, err
}

// Update applies patch to a board the user owns.
func (s *FreeBoardService) Update(ctx context.Context, userID, boardID uint, patch models.FreeBoardPatch) (*models.FreeBoard, error) {
	board, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}

	if err := validateBoardText(deref(patch.Title, board.Title), deref(patch.Content, board.Content)); err != nil {
		return nil, err
	}
	clearURL := false
	if patch.ProjectURL != nil {
		projectURL := strings.TrimSpace(*patch.ProjectURL)
		if projectURL == "" {
			clearURL = true
		} else if err := s.checkProjectURL(ctx, projectURL, board.ID); err != nil {
			return nil, err
		}
		patch.ProjectURL = &projectURL
	}

	patch.Apply(board)
	if clearURL {
		board.ProjectURL = nil
	}
	if err := s.boardRepo.UpdateColumns(ctx, board, patch.Columns()...); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Project URL already registered")
		}
		return nil, err
	}
	cache.InvalidateFreeBoardRank(ctx)
	return board, nil
}

// Delete soft-deletes a board the user owns and drops its comments and reactions.
func (s *FreeBoardService) Delete(ctx context.Context, userID, boardID uint) error {
	board, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if err := s.boardRepo.SoftDelete(ctx, board.ID); err != nil {
		return err
	}
	s.dropImage(ctx, board.ImgURL)
	cache.InvalidateFreeBoardRank(ctx)
	return nil
}

// UploadImage replaces the board's header image.
func (s *FreeBoardService) UploadImage(ctx context.Context, userID, boardID uint, in UploadImageInput) (*models.FreeBoard, error) {
	board, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	imgURL, err := s.images.Upload(ctx, in)
	if err != nil {
		return nil, err
	}
	previous := board.ImgURL
	board.ChangeImageURL(imgURL)
	if err := s.boardRepo.UpdateColumns(ctx, board, "img_url"); err != nil {
		s.dropImage(ctx, imgURL)
		return nil, err
	}
	s.dropImage(ctx, previous)
	cache.InvalidateFreeBoardRank(ctx)
	return board, nil
}

// DeleteImage clears the board's header image.
func (s *FreeBoardService) DeleteImage(ctx context.Context, userID, boardID uint) error {
	board, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if board.ImgURL == "" {
		return nil
	}
	previous := board.ImgURL
	board.DeleteImageURL()
	if err := s.boardRepo.UpdateColumns(ctx, board, "img_url"); err != nil {
		return err
	}
	s.dropImage(ctx, previous)
	cache.InvalidateFreeBoardRank(ctx)
	return nil
}

func (s *FreeBoardService) ownedBoard(ctx context.Context, userID, boardID uint) (*models.FreeBoard, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsOwnedBy(userID) {
		return nil, models.NewForbiddenError("Not the author of this board")
	}
	return board, nil
}

func (s *FreeBoardService) checkProjectURL(ctx context.Context, projectURL string, excludeID uint) error {
	if u, err := url.ParseRequestURI(projectURL); err != nil || u.Host == "" {
		return models.NewValidationError("projectUrl must be a valid URL")
	}
	taken, err := s.boardRepo.ExistsByProjectURL(ctx, projectURL, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewConflictError("Project URL already registered")
	}
	return nil
}

func (s *FreeBoardService) dropImage(ctx context.Context, imgURL string) {
	if s.images == nil || imgURL == "" {
		return
	}
	if err := s.images.Delete(ctx, imgURL); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to delete board image", "url", imgURL, "error", err)
	}
}

func validateBoardText(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > maxTitleLen {
		return models.NewValidationError("Title too long (max 100 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 20000 characters)")
	}
	return nil
}

func deref[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
