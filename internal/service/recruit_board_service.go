package service

import (
	"context"
	"strings"

	"sideeffect/internal/dto"
	"sideeffect/internal/models"
	"sideeffect/internal/observability"
	"sideeffect/internal/repository"
)

type RecruitBoardService struct {
	boardRepo repository.RecruitBoardRepository
}

type PositionInput struct {
	PositionType string `json:"positionType"`
	TargetNumber int    `json:"targetNumber"`
}

type CreateRecruitBoardInput struct {
	UserID      uint
	Title       string          `json:"title"`
	ProjectName string          `json:"projectName"`
	Content     string          `json:"content"`
	ImgSrc      string          `json:"imgSrc"`
	Positions   []PositionInput `json:"positions"`
	Tags        []string        `json:"tags"`
}

type RecruitSearchInput struct {
	LastID     *uint
	Keyword    string
	StackTypes []string
	Size       int
}

func NewRecruitBoardService(boardRepo repository.RecruitBoardRepository) *RecruitBoardService {
	return &RecruitBoardService{boardRepo: boardRepo}
}

func (s *RecruitBoardService) Create(ctx context.Context, in CreateRecruitBoardInput) (*models.RecruitBoard, error) {
	if err := validateBoardText(in.Title, in.Content); err != nil {
		return nil, err
	}
	stacks, err := parseStackTypes(in.Tags)
	if err != nil {
		return nil, err
	}

	board := &models.RecruitBoard{
		UserID:      in.UserID,
		Title:       strings.TrimSpace(in.Title),
		ProjectName: in.ProjectName,
		Contents:    in.Content,
		ImgSrc:      in.ImgSrc,
	}
	board.SetStacks(stacks)
	for _, p := range in.Positions {
		positionType, err := models.ParsePositionType(p.PositionType)
		if err != nil {
			return nil, err
		}
		if p.TargetNumber < 1 {
			return nil, models.NewValidationError("targetNumber must be at least 1")
		}
		board.AddPosition(positionType, p.TargetNumber)
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}
	return s.boardRepo.GetByID(ctx, board.ID)
}

// Detail loads the board and counts the view.
func (s *RecruitBoardService) Detail(ctx context.Context, id uint) (*models.RecruitBoard, error) {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.boardRepo.IncreaseViews(ctx, id); err != nil {
		return nil, err
	}
	board.IncreaseViews()
	return board, nil
}

// Search validates the filters and returns one newest-first page.
func (s *RecruitBoardService) Search(ctx context.Context, in RecruitSearchInput) (dto.ScrollResponse[dto.RecruitBoardResponse], error) {
	stacks, err := parseStackTypes(in.StackTypes)
	if err != nil {
		return dto.ScrollResponse[dto.RecruitBoardResponse]{}, err
	}
	size := clampPageSize(in.Size)
	hasKeyword := strings.TrimSpace(in.Keyword) != ""

	boards, err := s.boardRepo.FindWithSearchConditions(ctx, in.LastID, in.Keyword, stacks, size+1)
	if err != nil {
		return dto.ScrollResponse[dto.RecruitBoardResponse]{}, err
	}

	mode := "scroll"
	switch {
	case hasKeyword && len(stacks) > 0:
		mode = "keyword_tags"
	case hasKeyword:
		mode = "keyword"
	case len(stacks) > 0:
		mode = "tags"
	}
	observability.BoardSearches.WithLabelValues("recruit", mode).Inc()

	return dto.Scroll(boards, size, func(b *models.RecruitBoard) uint { return b.ID }, dto.RecruitBoards), nil
}

// Update applies patch to a board the user owns. Tags, when present, replace the stored stacks.
func (s *RecruitBoardService) Update(ctx context.Context, userID, boardID uint, patch models.RecruitBoardPatch) (*models.RecruitBoard, error) {
	board, err := s.ownedBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if err := validateBoardText(deref(patch.Title, board.Title), deref(patch.Contents, board.Contents)); err != nil {
		return nil, err
	}
	if patch.Tags != nil {
		raw := make([]string, 0, len(*patch.Tags))
		for _, t := range *patch.Tags {
			raw = append(raw, string(t))
		}
		stacks, err := parseStackTypes(raw)
		if err != nil {
			return nil, err
		}
		patch.Tags = &stacks
	}

	patch.Apply(board)
	if err := s.boardRepo.Update(ctx, board, patch.Tags != nil); err != nil {
		return nil, err
	}
	return s.boardRepo.GetByID(ctx, board.ID)
}

func (s *RecruitBoardService) Delete(ctx context.Context, userID, boardID uint) error {
	if _, err := s.ownedBoard(ctx, userID, boardID); err != nil {
		return err
	}
	return s.boardRepo.Delete(ctx, boardID)
}

func (s *RecruitBoardService) ownedBoard(ctx context.Context, userID, boardID uint) (*models.RecruitBoard, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsOwnedBy(userID) {
		return nil, models.NewForbiddenError("Not the author of this board")
	}
	return board, nil
}

// parseStackTypes normalizes tags, skipping blanks and duplicates.
func parseStackTypes(raw []string) ([]models.StackType, error) {
	out := make([]models.StackType, 0, len(raw))
	seen := make(map[models.StackType]struct{}, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		t, err := models.ParseStackType(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
