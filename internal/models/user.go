// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Role is the authority granted to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts "USER", "ROLE_USER" and lower-case variants.
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// ProviderLocal marks accounts created through email sign-up.
const ProviderLocal = "local"

// User is a member of the board. Social accounts are keyed by (Provider, SocialID).
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Password     string    `json:"-"`
	Nickname     string    `gorm:"uniqueIndex;not null" json:"nickname"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	Provider     string    `gorm:"type:varchar(32);not null;default:'local';uniqueIndex:idx_users_provider_social" json:"provider"`
	SocialID     *string   `gorm:"uniqueIndex:idx_users_provider_social" json:"-"`
	Introduction string    `gorm:"type:text" json:"introduction"`
	ImgURL       string    `json:"img_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	FreeBoards    []*FreeBoard    `gorm:"foreignKey:UserID" json:"-"`
	RecruitBoards []*RecruitBoard `gorm:"foreignKey:UserID" json:"-"`
	Comments      []*Comment      `gorm:"foreignKey:UserID" json:"-"`
	Likes         []*Like         `gorm:"foreignKey:UserID" json:"-"`
	Recommends    []*Recommend    `gorm:"foreignKey:UserID" json:"-"`
}

// HasRole reports whether the user holds any of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Nickname     *string `json:"nickname"`
	Introduction *string `json:"introduction"`
	ImgURL       *string `json:"imgUrl"`
}

// Apply copies every non-nil field of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Nickname != nil {
		u.Nickname = *p.Nickname
	}
	if p.Introduction != nil {
		u.Introduction = *p.Introduction
	}
	if p.ImgURL != nil {
		u.ImgURL = *p.ImgURL
	}
}

// Columns lists the database columns p touches.
func (p UserPatch) Columns() []string {
	var cols []string
	if p.Nickname != nil {
		cols = append(cols, "nickname")
	}
	if p.Introduction != nil {
		cols = append(cols, "introduction")
	}
	if p.ImgURL != nil {
		cols = append(cols, "img_url")
	}
	return cols
}

func removeByIdentity[T any](items []*T, target *T, sameID func(a, b *T) bool) []*T {
	out := items[:0]
	for _, it := range items {
		if it == target || sameID(it, target) {
			continue
		}
		out = append(out, it)
	}
	return out
}
