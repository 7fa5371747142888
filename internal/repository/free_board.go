package repository

import (
	"context"

	"sideeffect/internal/models"
	"sideeffect/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FreeBoardRepository defines free board persistence. Soft-deleted boards are invisible to every read.
type FreeBoardRepository interface {
	Create(ctx context.Context, board *models.FreeBoard) error
	GetByID(ctx context.Context, id uint) (*models.FreeBoard, error)
	ExistsByProjectURL(ctx context.Context, url string, excludeID uint) (bool, error)
	FindStartScroll(ctx context.Context, size int) ([]*models.FreeBoard, error)
	FindScroll(ctx context.Context, lastID uint, size int) ([]*models.FreeBoard, error)
	FindStartScrollWithKeyword(ctx context.Context, keyword string, size int) ([]*models.FreeBoard, error)
	FindScrollWithKeyword(ctx context.Context, keyword string, lastID uint, size int) ([]*models.FreeBoard, error)
	FindRank(ctx context.Context, size int) ([]*models.FreeBoard, error)
	UpdateColumns(ctx context.Context, board *models.FreeBoard, columns ...string) error
	IncreaseViews(ctx context.Context, id uint) error
	SoftDelete(ctx context.Context, id uint) error
}

type freeBoardRepository struct {
	db *gorm.DB
}

// NewFreeBoardRepository creates a new free board repository
func NewFreeBoardRepository(db *gorm.DB) FreeBoardRepository {
	return &freeBoardRepository{db: db}
}

const freeBoardSelect = "free_boards.*, " +
	"(SELECT COUNT(*) FROM recommends WHERE recommends.free_board_id = free_boards.id) AS recommend_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.free_board_id = free_boards.id) AS comment_count, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.free_board_id = free_boards.id) AS like_count"

// listing is the shared base of every list query: live boards with counts and author.
func (r *freeBoardRepository) listing(ctx context.Context) *gorm.DB {
	return readDB(r.db).WithContext(ctx).
		Model(&models.FreeBoard{}).
		Scopes(notDeleted).
		Select(freeBoardSelect).
		Preload("User")
}

func keywordFilter(keyword string) func(*gorm.DB) *gorm.DB {
	like := "%" + keyword + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(free_boards.title LIKE ? OR free_boards.content LIKE ?)", like, like)
	}
}

func (r *freeBoardRepository) Create(ctx context.Context, board *models.FreeBoard) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(board).Error
}

func (r *freeBoardRepository) GetByID(ctx context.Context, id uint) (*models.FreeBoard, error) {
	var board models.FreeBoard
	err := r.listing(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.id DESC") }).
		Preload("Comments.User").
		Where("free_boards.id = ?", id).
		First(&board).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// ExistsByProjectURL reports whether a live board other than excludeID uses url.
func (r *freeBoardRepository) ExistsByProjectURL(ctx context.Context, url string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.FreeBoard{}).
		Scopes(notDeleted).
		Where("project_url = ?", url)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *freeBoardRepository) FindStartScroll(ctx context.Context, size int) ([]*models.FreeBoard, error) {
	var boards []*models.FreeBoard
	err := r.listing(ctx).
		Order("free_boards.id DESC").
		Limit(size).
		Find(&boards).Error
	return boards, err
}

func (r *freeBoardRepository) FindScroll(ctx context.Context, lastID uint, size int) ([]*models.FreeBoard, error) {
	var boards []*models.FreeBoard
	err := r.listing(ctx).
		Where("free_boards.id < ?", lastID).
		Order("free_boards.id DESC").
		Limit(size).
		Find(&boards).Error
	return boards, err
}

func (r *freeBoardRepository) FindStartScrollWithKeyword(ctx context.Context, keyword string, size int) ([]*models.FreeBoard, error) {
	var boards []*models.FreeBoard
	err := r.listing(ctx).
		Scopes(keywordFilter(keyword)).
		Order("free_boards.id DESC").
		Limit(size).
		Find(&boards).Error
	return boards, err
}

func (r *freeBoardRepository) FindScrollWithKeyword(ctx context.Context, keyword string, lastID uint, size int) ([]*models.FreeBoard, error) {
	var boards []*models.FreeBoard
	err := r.listing(ctx).
		Scopes(keywordFilter(keyword)).
		Where("free_boards.id < ?", lastID).
		Order("free_boards.id DESC").
		Limit(size).
		Find(&boards).Error
	return boards, err
}

// FindRank orders live boards by recommend count. Equal counts fall back to newest first.
func (r *freeBoardRepository) FindRank(ctx context.Context, size int) (boards []*models.FreeBoard, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "FindRank", "free_boards")
	defer func() { observability.EndSpan(span, err) }()

	err = r.listing(ctx).
		Order("recommend_count DESC").
		Order("free_boards.id DESC").
		Limit(size).
		Find(&boards).Error
	return boards, err
}

func (r *freeBoardRepository) UpdateColumns(ctx context.Context, board *models.FreeBoard, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(board).Select(columns).Omit(clause.Associations).Updates(board).Error
}

func (r *freeBoardRepository) IncreaseViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.FreeBoard{}).
		Where("id = ? AND deleted = ?", id, false).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// SoftDelete flags the board deleted and removes its comments, likes and recommends.
func (r *freeBoardRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FreeBoard{}).
			Where("id = ? AND deleted = ?", id, false).
			UpdateColumn("deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("free_board_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("free_board_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("free_board_id = ?", id).Delete(&models.Recommend{}).Error
	})
}
