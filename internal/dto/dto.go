// Package dto maps domain models onto the JSON documents the API returns.
package dto

import (
	"sync/atomic"
	"time"
	_ "time/tzdata" // zone data for hosts without a system database

	"sideeffect/internal/models"
)

const (
	freeBoardDateLayout    = "2006.01.02"
	recruitBoardDateLayout = "2006-01-02"
	defaultZone            = "Asia/Seoul"
)

var zone atomic.Pointer[time.Location]

func init() {
	if err := SetTimezone(defaultZone); err != nil {
		zone.Store(time.FixedZone("KST", 9*60*60))
	}
}

// SetTimezone selects the zone response dates are rendered in.
func SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	zone.Store(loc)
	return nil
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(zone.Load()).Format(layout)
}

type FreeBoardResponse struct {
	ID              uint   `json:"id"`
	Views           int    `json:"views"`
	UserID          uint   `json:"userId"`
	UserNickname    string `json:"userNickname"`
	Title           string `json:"title"`
	SubTitle        string `json:"subTitle"`
	ProjectName     string `json:"projectName"`
	Content         string `json:"content"`
	ProjectURL      string `json:"projectUrl"`
	HeaderImage     string `json:"headerImage"`
	Recommendations int    `json:"recommendations"`
	CommentNumber   int    `json:"commentNumber"`
	Likes           int    `json:"likeNumber"`
	Recommend       bool   `json:"recommend"`
	Like            bool   `json:"like"`
	CreateAt        string `json:"createAt"`
}

// FreeBoard maps b. Counts come from the aggregated columns when loaded, else from the collections.
func FreeBoard(b *models.FreeBoard) FreeBoardResponse {
	resp := FreeBoardResponse{
		ID:              b.ID,
		Views:           b.Views,
		UserID:          b.UserID,
		Title:           b.Title,
		SubTitle:        b.SubTitle,
		ProjectName:     b.ProjectName,
		Content:         b.Content,
		HeaderImage:     b.ImgURL,
		Recommendations: max(b.RecommendCount, len(b.Recommends)),
		CommentNumber:   max(b.CommentCount, len(b.Comments)),
		Likes:           max(b.LikeCount, len(b.Likes)),
		CreateAt:        formatDate(b.CreatedAt, freeBoardDateLayout),
	}
	if b.User != nil {
		resp.UserNickname = b.User.Nickname
	}
	if b.ProjectURL != nil {
		resp.ProjectURL = *b.ProjectURL
	}
	return resp
}

func FreeBoards(boards []*models.FreeBoard) []FreeBoardResponse {
	out := make([]FreeBoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, FreeBoard(b))
	}
	return out
}

type CommentResponse struct {
	ID        uint   `json:"commentId"`
	BoardID   uint   `json:"boardId"`
	UserID    uint   `json:"userId"`
	Nickname  string `json:"writer"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

func Comment(c *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		BoardID:   c.FreeBoardID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: formatDate(c.CreatedAt, freeBoardDateLayout),
	}
	if c.User != nil {
		resp.Nickname = c.User.Nickname
	}
	return resp
}

// FreeBoardDetailResponse is a board with its comments, newest first.
type FreeBoardDetailResponse struct {
	FreeBoardResponse
	Comments []CommentResponse `json:"comments"`
}

func FreeBoardDetail(b *models.FreeBoard, liked, recommended bool) FreeBoardDetailResponse {
	resp := FreeBoardDetailResponse{FreeBoardResponse: FreeBoard(b)}
	resp.Like = liked
	resp.Recommend = recommended
	resp.Comments = make([]CommentResponse, 0, len(b.Comments))
	for _, c := range b.Comments {
		resp.Comments = append(resp.Comments, Comment(c))
	}
	return resp
}

type PositionResponse struct {
	PositionType  models.PositionType `json:"positionType"`
	TargetNumber  int                 `json:"targetNumber"`
	CurrentNumber int                 `json:"currentNumber"`
}

type StackResponse struct {
	StackType models.StackType `json:"stackType"`
}

type RecruitBoardResponse struct {
	ID          uint               `json:"id"`
	UserID      uint               `json:"userId"`
	Title       string             `json:"title"`
	ProjectName string             `json:"projectName"`
	Content     string             `json:"content"`
	ImgSrc      string             `json:"imgSrc"`
	Views       int                `json:"views"`
	LikeNum     int                `json:"likeNum"`
	CreatedAt   string             `json:"createdAt"`
	Positions   []PositionResponse `json:"positions"`
	Tags        []StackResponse    `json:"tags"`
}

func RecruitBoard(b *models.RecruitBoard) RecruitBoardResponse {
	resp := RecruitBoardResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Title:       b.Title,
		ProjectName: b.ProjectName,
		Content:     b.Contents,
		ImgSrc:      b.ImgSrc,
		Views:       b.Views,
		LikeNum:     len(b.Likes),
		CreatedAt:   formatDate(b.CreatedAt, recruitBoardDateLayout),
		Positions:   make([]PositionResponse, 0, len(b.Positions)),
		Tags:        make([]StackResponse, 0, len(b.Stacks)),
	}
	for _, p := range b.Positions {
		resp.Positions = append(resp.Positions, PositionResponse{
			PositionType:  p.PositionType,
			TargetNumber:  p.TargetNumber,
			CurrentNumber: p.CurrentNumber,
		})
	}
	for _, s := range b.Stacks {
		resp.Tags = append(resp.Tags, StackResponse{StackType: s.StackType})
	}
	return resp
}

func RecruitBoards(boards []*models.RecruitBoard) []RecruitBoardResponse {
	out := make([]RecruitBoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, RecruitBoard(b))
	}
	return out
}

// ScrollResponse is one cursor page. LastID is the cursor for the next request.
type ScrollResponse[T any] struct {
	Boards  []T   `json:"boards"`
	LastID  *uint `json:"lastId"`
	HasNext bool  `json:"hasNext"`
}

// Scroll wraps a page fetched with size+1 rows: the extra row only signals another page.
func Scroll[B any, T any](rows []B, size int, id func(B) uint, mapper func([]B) []T) ScrollResponse[T] {
	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}
	resp := ScrollResponse[T]{Boards: mapper(rows), HasNext: hasNext}
	if len(rows) > 0 {
		last := id(rows[len(rows)-1])
		resp.LastID = &last
	}
	return resp
}

type UserResponse struct {
	ID           uint        `json:"id"`
	Email        string      `json:"email,omitempty"`
	Nickname     string      `json:"nickname"`
	Role         models.Role `json:"role"`
	Provider     string      `json:"provider"`
	Introduction string      `json:"introduction"`
	ImgURL       string      `json:"imgUrl"`
}

func User(u *models.User) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Nickname:     u.Nickname,
		Role:         u.Role,
		Provider:     u.Provider,
		Introduction: u.Introduction,
		ImgURL:       u.ImgURL,
	}
	if u.Email != nil {
		resp.Email = *u.Email
	}
	return resp
}

type MyPageResponse struct {
	UserResponse
	FreeBoards    []FreeBoardResponse    `json:"boards"`
	RecruitBoards []RecruitBoardResponse `json:"recruitBoards"`
}

func MyPage(u *models.User) MyPageResponse {
	for _, b := range u.FreeBoards {
		if b.User == nil {
			b.User = u
		}
	}
	return MyPageResponse{
		UserResponse:  User(u),
		FreeBoards:    FreeBoards(u.FreeBoards),
		RecruitBoards: RecruitBoards(u.RecruitBoards),
	}
}

// TokenResponse is returned by every successful login and token refresh.
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        UserResponse `json:"user"`
}
