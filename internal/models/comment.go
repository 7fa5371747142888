package models

import "time"

// Comment belongs to exactly one free board and is removed with it.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	FreeBoardID uint      `gorm:"not null;index" json:"free_board_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func sameComment(a, b *Comment) bool { return a.ID != 0 && a.ID == b.ID }
