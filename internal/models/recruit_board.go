package models

import "time"

// RecruitBoard is a post looking for teammates, tagged by stacks and open positions.
type RecruitBoard struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	ProjectName string    `json:"project_name"`
	Contents    string    `gorm:"type:text;not null" json:"contents"`
	ImgSrc      string    `json:"img_src"`
	Views       int       `gorm:"not null;default:0" json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User      *User           `gorm:"foreignKey:UserID" json:"-"`
	Likes     []*RecruitLike  `gorm:"foreignKey:RecruitBoardID" json:"-"`
	Positions []BoardPosition `gorm:"foreignKey:RecruitBoardID" json:"positions"`
	Stacks    []BoardStack    `gorm:"foreignKey:RecruitBoardID" json:"stacks"`
}

// IncreaseViews bumps the in-memory counter by one.
func (b *RecruitBoard) IncreaseViews() {
	b.Views++
}

// IsOwnedBy reports whether userID wrote the board.
func (b *RecruitBoard) IsOwnedBy(userID uint) bool {
	return b.UserID == userID
}

// AssociateUser moves the board to owner, detaching it from any previous owner's collection.
func (b *RecruitBoard) AssociateUser(owner *User) {
	if b.User != nil {
		b.User.RecruitBoards = removeByIdentity(b.User.RecruitBoards, b, sameRecruitBoard)
	}
	b.User = owner
	b.UserID = owner.ID
	owner.RecruitBoards = append(owner.RecruitBoards, b)
}

// SetStacks replaces the stack tags, dropping duplicates.
func (b *RecruitBoard) SetStacks(types []StackType) {
	seen := make(map[StackType]struct{}, len(types))
	b.Stacks = b.Stacks[:0]
	for _, t := range types {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		b.Stacks = append(b.Stacks, BoardStack{RecruitBoardID: b.ID, StackType: t})
	}
}

// HasAnyStack reports whether the board carries at least one of types.
func (b *RecruitBoard) HasAnyStack(types ...StackType) bool {
	for _, s := range b.Stacks {
		for _, t := range types {
			if s.StackType == t {
				return true
			}
		}
	}
	return false
}

// AddPosition opens a position on the board.
func (b *RecruitBoard) AddPosition(t PositionType, target int) {
	b.Positions = append(b.Positions, BoardPosition{RecruitBoardID: b.ID, PositionType: t, TargetNumber: target})
}

// AddLike links l to the board. It returns false when userID already likes it.
func (b *RecruitBoard) AddLike(userID uint, l *RecruitLike) bool {
	for _, existing := range b.Likes {
		if existing.UserID == userID {
			return false
		}
	}
	l.RecruitBoardID = b.ID
	l.UserID = userID
	b.Likes = append(b.Likes, l)
	return true
}

// DeleteLike removes userID's like and returns it, or nil if there was none.
func (b *RecruitBoard) DeleteLike(userID uint) *RecruitLike {
	for i, existing := range b.Likes {
		if existing.UserID == userID {
			b.Likes = append(b.Likes[:i], b.Likes[i+1:]...)
			return existing
		}
	}
	return nil
}

func sameRecruitBoard(a, b *RecruitBoard) bool { return a.ID != 0 && a.ID == b.ID }

// RecruitBoardPatch is a partial update; nil fields keep their current value.
type RecruitBoardPatch struct {
	Title       *string      `json:"title"`
	ProjectName *string      `json:"projectName"`
	Contents    *string      `json:"content"`
	ImgSrc      *string      `json:"imgSrc"`
	Tags        *[]StackType `json:"tags"`
}

// Apply copies every non-nil field of p onto b.
func (p RecruitBoardPatch) Apply(b *RecruitBoard) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ProjectName != nil {
		b.ProjectName = *p.ProjectName
	}
	if p.Contents != nil {
		b.Contents = *p.Contents
	}
	if p.ImgSrc != nil {
		b.ImgSrc = *p.ImgSrc
	}
	if p.Tags != nil {
		b.SetStacks(*p.Tags)
	}
}
