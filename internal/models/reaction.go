package models

import "time"

// Like is a user's like on a free board. One per (user, board).
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_likes_user_board" json:"user_id"`
	FreeBoardID uint      `gorm:"not null;uniqueIndex:idx_likes_user_board;index" json:"free_board_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Recommend is a user's recommendation of a free board; the rank query counts these.
type Recommend struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_recommends_user_board" json:"user_id"`
	FreeBoardID uint      `gorm:"not null;uniqueIndex:idx_recommends_user_board;index" json:"free_board_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecruitLike is a user's like on a recruit board.
type RecruitLike struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_recruit_likes_user_board" json:"user_id"`
	RecruitBoardID uint      `gorm:"not null;uniqueIndex:idx_recruit_likes_user_board;index" json:"recruit_board_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func sameLike(a, b *Like) bool           { return a.ID != 0 && a.ID == b.ID }
func sameRecommend(a, b *Recommend) bool { return a.ID != 0 && a.ID == b.ID }
