package dto

import (
	"encoding/json"
	"testing"
	"time"

	"sideeffect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeBoard_DateInSeoul(t *testing.T) {
	url := "https://github.com/side/effect"
	b := &models.FreeBoard{
		ID:             3,
		Title:          "title",
		ProjectURL:     &url,
		ImgURL:         "/uploads/a.webp",
		User:           &models.User{Nickname: "kim"},
		RecommendCount: 4,
		Comments:       []*models.Comment{{ID: 1}, {ID: 2}},
		// 16:30 UTC is already the next day in Seoul.
		CreatedAt: time.Date(2023, 1, 31, 16, 30, 0, 0, time.UTC),
	}

	resp := FreeBoard(b)
	assert.Equal(t, "2023.02.01", resp.CreateAt)
	assert.Equal(t, "kim", resp.UserNickname)
	assert.Equal(t, url, resp.ProjectURL)
	assert.Equal(t, "/uploads/a.webp", resp.HeaderImage)
	assert.Equal(t, 4, resp.Recommendations)
	assert.Equal(t, 2, resp.CommentNumber)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"createAt":"2023.02.01"`)
	assert.Contains(t, string(raw), `"headerImage":"/uploads/a.webp"`)
}

func TestRecruitBoard_Mapping(t *testing.T) {
	b := &models.RecruitBoard{
		ID:        9,
		UserID:    2,
		Title:     "team",
		Contents:  "contents",
		Likes:     []*models.RecruitLike{{ID: 1}},
		CreatedAt: time.Date(2023, 3, 4, 1, 0, 0, 0, time.UTC),
	}
	b.SetStacks([]models.StackType{models.StackGo, models.StackReact})
	b.AddPosition(models.PositionBackend, 2)

	resp := RecruitBoard(b)
	assert.Equal(t, "2023-03-04", resp.CreatedAt)
	assert.Equal(t, "contents", resp.Content)
	assert.Equal(t, 1, resp.LikeNum)
	assert.Equal(t, []StackResponse{{models.StackGo}, {models.StackReact}}, resp.Tags)
	assert.Equal(t, []PositionResponse{{models.PositionBackend, 2, 0}}, resp.Positions)
}

func TestScroll(t *testing.T) {
	boards := []*models.FreeBoard{{ID: 9}, {ID: 8}, {ID: 7}}
	id := func(b *models.FreeBoard) uint { return b.ID }

	page := Scroll(boards, 2, id, FreeBoards)
	assert.True(t, page.HasNext)
	require.Len(t, page.Boards, 2)
	require.NotNil(t, page.LastID)
	assert.Equal(t, uint(8), *page.LastID)

	last := Scroll(boards, 5, id, FreeBoards)
	assert.False(t, last.HasNext)
	assert.Equal(t, uint(7), *last.LastID)

	empty := Scroll([]*models.FreeBoard{}, 5, id, FreeBoards)
	assert.Nil(t, empty.LastID)
	assert.NotNil(t, empty.Boards)
}

func TestSetTimezone(t *testing.T) {
	t.Cleanup(func() { _ = SetTimezone(defaultZone) })
	require.NoError(t, SetTimezone("UTC"))
	assert.Equal(t, "2023.01.31", formatDate(time.Date(2023, 1, 31, 16, 30, 0, 0, time.UTC), freeBoardDateLayout))
	assert.Error(t, SetTimezone("Mars/Olympus"))
	assert.Empty(t, formatDate(time.Time{}, freeBoardDateLayout))
}

func TestMyPage_FillsOwner(t *testing.T) {
	u := &models.User{ID: 1, Nickname: "kim", FreeBoards: []*models.FreeBoard{{ID: 2}}}
	resp := MyPage(u)
	require.Len(t, resp.FreeBoards, 1)
	assert.Equal(t, "kim", resp.FreeBoards[0].UserNickname)
	assert.Empty(t, resp.RecruitBoards)
}
