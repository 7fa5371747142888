package service

import (
	"context"

	"sideeffect/internal/cache"
	"sideeffect/internal/repository"
)

// ReactionService toggles likes and recommends. Each call flips the user's state on the board.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	freeRepo     repository.FreeBoardRepository
	recruitRepo  repository.RecruitBoardRepository
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	freeRepo repository.FreeBoardRepository,
	recruitRepo repository.RecruitBoardRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		freeRepo:     freeRepo,
		recruitRepo:  recruitRepo,
	}
}

// ToggleLike reports whether the user likes the free board after the call.
func (s *ReactionService) ToggleLike(ctx context.Context, userID, boardID uint) (bool, error) {
	if _, err := s.freeRepo.GetByID(ctx, boardID); err != nil {
		return false, err
	}
	return s.reactionRepo.ToggleLike(ctx, userID, boardID)
}

// ToggleRecommend reports whether the user recommends the free board after the call.
func (s *ReactionService) ToggleRecommend(ctx context.Context, userID, boardID uint) (bool, error) {
	if _, err := s.freeRepo.GetByID(ctx, boardID); err != nil {
		return false, err
	}
	on, err := s.reactionRepo.ToggleRecommend(ctx, userID, boardID)
	if err != nil {
		return false, err
	}
	cache.InvalidateFreeBoardRank(ctx)
	return on, nil
}

func (s *ReactionService) ToggleRecruitLike(ctx context.Context, userID, boardID uint) (bool, error) {
	if _, err := s.recruitRepo.GetByID(ctx, boardID); err != nil {
		return false, err
	}
	return s.reactionRepo.ToggleRecruitLike(ctx, userID, boardID)
}
