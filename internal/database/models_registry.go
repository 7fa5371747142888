package database

import "sideeffect/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []any {
	return []any{
		&models.User{},
		&models.FreeBoard{},
		&models.Comment{},
		&models.Like{},
		&models.Recommend{},
		&models.RecruitBoard{},
		&models.BoardStack{},
		&models.BoardPosition{},
		&models.RecruitLike{},
		&models.RefreshToken{},
	}
}
