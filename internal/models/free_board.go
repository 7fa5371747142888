package models

import "time"

// FreeBoard is a project showcase post. Deleted rows are tombstoned and filtered from every read.
type FreeBoard struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Views       int       `gorm:"not null;default:0" json:"views"`
	Title       string    `gorm:"not null" json:"title"`
	SubTitle    string    `json:"sub_title"`
	ProjectName string    `json:"project_name"`
	ProjectURL  *string   `gorm:"uniqueIndex:idx_free_boards_project_url,where:deleted = false" json:"project_url,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ImgURL      string    `json:"img_url"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Deleted     bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User       *User        `gorm:"foreignKey:UserID" json:"-"`
	Comments   []*Comment   `gorm:"foreignKey:FreeBoardID" json:"-"`
	Likes      []*Like      `gorm:"foreignKey:FreeBoardID" json:"-"`
	Recommends []*Recommend `gorm:"foreignKey:FreeBoardID" json:"-"`

	// Computed by list queries; not persisted.
	RecommendCount int `gorm:"->;-:migration" json:"-"`
	CommentCount   int `gorm:"->;-:migration" json:"-"`
	LikeCount      int `gorm:"->;-:migration" json:"-"`
}

// IncreaseViews bumps the in-memory counter by one.
func (b *FreeBoard) IncreaseViews() {
	b.Views++
}

// ChangeImageURL replaces the header image.
func (b *FreeBoard) ChangeImageURL(url string) {
	b.ImgURL = url
}

// DeleteImageURL clears the header image.
func (b *FreeBoard) DeleteImageURL() {
	b.ImgURL = ""
}

// IsOwnedBy reports whether userID wrote the board.
func (b *FreeBoard) IsOwnedBy(userID uint) bool {
	return b.UserID == userID
}

// AssociateUser moves the board to owner, detaching it from any previous owner's collection.
func (b *FreeBoard) AssociateUser(owner *User) {
	if b.User != nil {
		b.User.FreeBoards = removeByIdentity(b.User.FreeBoards, b, sameFreeBoard)
	}
	b.User = owner
	b.UserID = owner.ID
	owner.FreeBoards = append(owner.FreeBoards, b)
}

// AddComment links c to the board and to its author. Comments stay newest first.
func (b *FreeBoard) AddComment(author *User, c *Comment) {
	c.FreeBoardID = b.ID
	c.UserID = author.ID
	b.Comments = append([]*Comment{c}, b.Comments...)
	author.Comments = append(author.Comments, c)
}

// DeleteComment unlinks c from the board and from its author.
func (b *FreeBoard) DeleteComment(author *User, c *Comment) {
	b.Comments = removeByIdentity(b.Comments, c, sameComment)
	if author != nil {
		author.Comments = removeByIdentity(author.Comments, c, sameComment)
	}
}

// AddLike links l on both sides. It returns false when user already likes the board.
func (b *FreeBoard) AddLike(user *User, l *Like) bool {
	for _, existing := range b.Likes {
		if existing.UserID == user.ID {
			return false
		}
	}
	l.FreeBoardID = b.ID
	l.UserID = user.ID
	b.Likes = append(b.Likes, l)
	user.Likes = append(user.Likes, l)
	return true
}

// DeleteLike removes user's like from both sides and returns it, or nil if there was none.
func (b *FreeBoard) DeleteLike(user *User) *Like {
	for _, existing := range b.Likes {
		if existing.UserID == user.ID {
			b.Likes = removeByIdentity(b.Likes, existing, sameLike)
			user.Likes = removeByIdentity(user.Likes, existing, sameLike)
			return existing
		}
	}
	return nil
}

// AddRecommend links r on both sides. It returns false when user already recommends the board.
func (b *FreeBoard) AddRecommend(user *User, r *Recommend) bool {
	for _, existing := range b.Recommends {
		if existing.UserID == user.ID {
			return false
		}
	}
	r.FreeBoardID = b.ID
	r.UserID = user.ID
	b.Recommends = append(b.Recommends, r)
	user.Recommends = append(user.Recommends, r)
	return true
}

// DeleteRecommend removes user's recommend from both sides and returns it, or nil if there was none.
func (b *FreeBoard) DeleteRecommend(user *User) *Recommend {
	for _, existing := range b.Recommends {
		if existing.UserID == user.ID {
			b.Recommends = removeByIdentity(b.Recommends, existing, sameRecommend)
			user.Recommends = removeByIdentity(user.Recommends, existing, sameRecommend)
			return existing
		}
	}
	return nil
}

func sameFreeBoard(a, b *FreeBoard) bool { return a.ID != 0 && a.ID == b.ID }

// FreeBoardPatch is a partial update; nil fields keep their current value.
type FreeBoardPatch struct {
	Title       *string `json:"title"`
	SubTitle    *string `json:"subTitle"`
	ProjectName *string `json:"projectName"`
	ProjectURL  *string `json:"projectUrl"`
	Content     *string `json:"content"`
}

// Apply copies every non-nil field of p onto b.
func (p FreeBoardPatch) Apply(b *FreeBoard) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.SubTitle != nil {
		b.SubTitle = *p.SubTitle
	}
	if p.ProjectName != nil {
		b.ProjectName = *p.ProjectName
	}
	if p.ProjectURL != nil {
		url := *p.ProjectURL
		b.ProjectURL = &url
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
}

// Columns lists the database columns p touches.
func (p FreeBoardPatch) Columns() []string {
	var cols []string
	if p.Title != nil {
		cols = append(cols, "title")
	}
	if p.SubTitle != nil {
		cols = append(cols, "sub_title")
	}
	if p.ProjectName != nil {
		cols = append(cols, "project_name")
	}
	if p.ProjectURL != nil {
		cols = append(cols, "project_url")
	}
	if p.Content != nil {
		cols = append(cols, "content")
	}
	return cols
}
