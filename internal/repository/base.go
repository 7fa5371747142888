// Package repository provides data access layer implementations for the application.
package repository

import (
	"sideeffect/internal/database"

	"gorm.io/gorm"
)

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// notDeleted hides soft-deleted free boards. Every free board read path applies it.
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("free_boards.deleted = ?", false)
}
