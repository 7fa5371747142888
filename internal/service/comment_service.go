package service

import (
	"context"
	"strings"

	"sideeffect/internal/cache"
	"sideeffect/internal/models"
	"sideeffect/internal/repository"
)

const maxCommentLen = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	boardRepo   repository.FreeBoardRepository
}

type CreateCommentInput struct {
	UserID  uint
	BoardID uint   `json:"boardId"`
	Content string `json:"content"`
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string `json:"content"`
}

func NewCommentService(commentRepo repository.CommentRepository, boardRepo repository.FreeBoardRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		boardRepo:   boardRepo,
	}
}

// CreateComment attaches a comment to a live free board.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateComment(in.Content); err != nil {
		return nil, err
	}
	if _, err := s.boardRepo.GetByID(ctx, in.BoardID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:     in.Content,
		UserID:      in.UserID,
		FreeBoardID: in.BoardID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	cache.InvalidateFreeBoardRank(ctx)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validateComment(in.Content); err != nil {
		return nil, err
	}
	comment, err := s.ownedComment(ctx, in.UserID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(ctx, comment.ID, in.Content); err != nil {
		return nil, err
	}
	comment.Content = in.Content
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	if _, err := s.ownedComment(ctx, userID, commentID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	cache.InvalidateFreeBoardRank(ctx)
	return nil
}

func (s *CommentService) ownedComment(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewForbiddenError("Not the author of this comment")
	}
	return comment, nil
}

func validateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len([]rune(content)) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 1000 characters)")
	}
	return nil
}
