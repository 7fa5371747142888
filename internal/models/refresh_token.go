package models

import "time"

// RefreshToken stores the digest of an issued refresh token when Redis is unavailable.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	Digest    string    `gorm:"type:char(64);uniqueIndex;not null"`
	UserID    uint      `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
