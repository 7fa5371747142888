package repository

import (
	"context"

	"sideeffect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository toggles likes and recommends. A user holds at most one of each per board.
type ReactionRepository interface {
	ToggleLike(ctx context.Context, userID, freeBoardID uint) (bool, error)
	ToggleRecommend(ctx context.Context, userID, freeBoardID uint) (bool, error)
	ToggleRecruitLike(ctx context.Context, userID, recruitBoardID uint) (bool, error)
	FreeBoardState(ctx context.Context, userID, freeBoardID uint) (liked, recommended bool, err error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// toggle removes the user's row if present, otherwise inserts row. It reports whether the reaction is now on.
func (r *reactionRepository) toggle(ctx context.Context, model any, column string, userID, boardID uint, row any) (bool, error) {
	var on bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND "+column+" = ?", userID, boardID).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			on = false
			return nil
		}
		on = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	})
	return on, err
}

func (r *reactionRepository) ToggleLike(ctx context.Context, userID, freeBoardID uint) (bool, error) {
	return r.toggle(ctx, &models.Like{}, "free_board_id", userID, freeBoardID,
		&models.Like{UserID: userID, FreeBoardID: freeBoardID})
}

func (r *reactionRepository) ToggleRecommend(ctx context.Context, userID, freeBoardID uint) (bool, error) {
	return r.toggle(ctx, &models.Recommend{}, "free_board_id", userID, freeBoardID,
		&models.Recommend{UserID: userID, FreeBoardID: freeBoardID})
}

func (r *reactionRepository) ToggleRecruitLike(ctx context.Context, userID, recruitBoardID uint) (bool, error) {
	return r.toggle(ctx, &models.RecruitLike{}, "recruit_board_id", userID, recruitBoardID,
		&models.RecruitLike{UserID: userID, RecruitBoardID: recruitBoardID})
}

func (r *reactionRepository) FreeBoardState(ctx context.Context, userID, freeBoardID uint) (liked, recommended bool, err error) {
	if userID == 0 {
		return false, false, nil
	}
	db := readDB(r.db).WithContext(ctx)
	var n int64
	if err = db.Model(&models.Like{}).Where("user_id = ? AND free_board_id = ?", userID, freeBoardID).Count(&n).Error; err != nil {
		return false, false, err
	}
	liked = n > 0
	if err = db.Model(&models.Recommend{}).Where("user_id = ? AND free_board_id = ?", userID, freeBoardID).Count(&n).Error; err != nil {
		return false, false, err
	}
	return liked, n > 0, nil
}
