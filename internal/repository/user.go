package repository

import (
	"context"
	"errors"

	"sideeffect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBySocial(ctx context.Context, provider, socialID string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	GetMyPage(ctx context.Context, id uint) (*models.User, error)
	UpdateColumns(ctx context.Context, user *models.User, columns ...string) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetBySocial(ctx context.Context, provider, socialID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("provider = ? AND social_id = ?", provider, socialID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var found models.User
	err := readDB(r.db).WithContext(ctx).Select("id").Where(column+" = ?", value).Take(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *userRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, "nickname", nickname)
}

// GetMyPage loads the user with their live free boards and recruit boards, newest first.
func (r *userRepository) GetMyPage(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := readDB(r.db).WithContext(ctx).
		Preload("FreeBoards", func(db *gorm.DB) *gorm.DB {
			return db.Scopes(notDeleted).Select(freeBoardSelect).Order("free_boards.id DESC")
		}).
		Preload("RecruitBoards", func(db *gorm.DB) *gorm.DB {
			return db.Order("recruit_boards.id DESC")
		}).
		Preload("RecruitBoards.Stacks").
		Preload("RecruitBoards.Positions").
		Preload("RecruitBoards.Likes").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateColumns(ctx context.Context, user *models.User, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(user).Select(columns).Omit(clause.Associations).Updates(user).Error
}

// Delete removes the user with everything they own or reacted with.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var freeIDs []uint
		if err := tx.Model(&models.FreeBoard{}).Where("user_id = ?", id).Pluck("id", &freeIDs).Error; err != nil {
			return err
		}
		var recruitIDs []uint
		if err := tx.Model(&models.RecruitBoard{}).Where("user_id = ?", id).Pluck("id", &recruitIDs).Error; err != nil {
			return err
		}

		for _, child := range []any{&models.Comment{}, &models.Like{}, &models.Recommend{}} {
			q := tx.Where("user_id = ?", id)
			if len(freeIDs) > 0 {
				q = tx.Where("user_id = ? OR free_board_id IN ?", id, freeIDs)
			}
			if err := q.Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RecruitLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.FreeBoard{}).Error; err != nil {
			return err
		}
		if err := deleteRecruitBoards(tx, recruitIDs); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
