package repository

import (
	"context"

	"sideeffect/internal/models"
	"sideeffect/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecruitBoardRepository defines recruit board persistence.
type RecruitBoardRepository interface {
	Create(ctx context.Context, board *models.RecruitBoard) error
	GetByID(ctx context.Context, id uint) (*models.RecruitBoard, error)
	FindWithSearchConditions(ctx context.Context, lastID *uint, keyword string, stackTypes []models.StackType, pageSize int) ([]*models.RecruitBoard, error)
	Update(ctx context.Context, board *models.RecruitBoard, replaceStacks bool) error
	IncreaseViews(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type recruitBoardRepository struct {
	db *gorm.DB
}

// NewRecruitBoardRepository creates a new recruit board repository
func NewRecruitBoardRepository(db *gorm.DB) RecruitBoardRepository {
	return &recruitBoardRepository{db: db}
}

func withRecruitDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Stacks", func(db *gorm.DB) *gorm.DB { return db.Order("board_stacks.id") }).
		Preload("Positions", func(db *gorm.DB) *gorm.DB { return db.Order("board_positions.id") }).
		Preload("Likes")
}

// Create inserts the board together with its positions and stacks.
func (r *recruitBoardRepository) Create(ctx context.Context, board *models.RecruitBoard) error {
	return r.db.WithContext(ctx).Omit("User", "Likes").Create(board).Error
}

func (r *recruitBoardRepository) GetByID(ctx context.Context, id uint) (*models.RecruitBoard, error) {
	var board models.RecruitBoard
	if err := readDB(r.db).WithContext(ctx).Scopes(withRecruitDetails).First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindWithSearchConditions returns one page of boards, newest first, below lastID when given.
// Keyword and stack filters apply only when non-empty; a board matching several stacks appears once.
func (r *recruitBoardRepository) FindWithSearchConditions(ctx context.Context, lastID *uint, keyword string, stackTypes []models.StackType, pageSize int) (boards []*models.RecruitBoard, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "FindWithSearchConditions", "recruit_boards")
	defer func() { observability.EndSpan(span, err) }()

	q := buildRecruitQuery(RecruitSearch{
		LastID:     lastID,
		Keyword:    keyword,
		StackTypes: stackTypes,
		PageSize:   pageSize,
	})
	err = q.apply(readDB(r.db).WithContext(ctx)).
		Scopes(withRecruitDetails).
		Find(&boards).Error
	return boards, err
}

// Update writes the board's scalar columns. With replaceStacks the stored stacks are replaced by board.Stacks.
func (r *recruitBoardRepository) Update(ctx context.Context, board *models.RecruitBoard, replaceStacks bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(board).
			Select("title", "project_name", "contents", "img_src").
			Omit(clause.Associations).
			Updates(board).Error
		if err != nil {
			return err
		}
		if !replaceStacks {
			return nil
		}
		if err := tx.Where("recruit_board_id = ?", board.ID).Delete(&models.BoardStack{}).Error; err != nil {
			return err
		}
		if len(board.Stacks) == 0 {
			return nil
		}
		for i := range board.Stacks {
			board.Stacks[i].ID = 0
			board.Stacks[i].RecruitBoardID = board.ID
		}
		return tx.Create(&board.Stacks).Error
	})
}

func (r *recruitBoardRepository) IncreaseViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.RecruitBoard{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *recruitBoardRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRecruitBoards(tx, []uint{id})
	})
}

func deleteRecruitBoards(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, child := range []any{&models.BoardStack{}, &models.BoardPosition{}, &models.RecruitLike{}} {
		if err := tx.Where("recruit_board_id IN ?", ids).Delete(child).Error; err != nil {
			return err
		}
	}
	res := tx.Where("id IN ?", ids).Delete(&models.RecruitBoard{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
