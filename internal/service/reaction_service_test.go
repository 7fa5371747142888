package service

import (
	"context"
	"testing"

	"sideeffect/internal/cache"
	"sideeffect/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReactionService_Toggles(t *testing.T) {
	ctx := context.Background()
	state := map[string]bool{}
	flip := func(kind string) func(context.Context, uint, uint) (bool, error) {
		return func(context.Context, uint, uint) (bool, error) {
			state[kind] = !state[kind]
			return state[kind], nil
		}
	}
	svc := NewReactionService(
		&reactionRepoStub{
			toggleLikeFn:        flip("like"),
			toggleRecommendFn:   flip("recommend"),
			toggleRecruitLikeFn: flip("recruit"),
		},
		&freeBoardRepoStub{getByIDFn: func(context.Context, uint) (*models.FreeBoard, error) { return &models.FreeBoard{ID: 1}, nil }},
		&recruitRepoStub{getByIDFn: func(context.Context, uint) (*models.RecruitBoard, error) { return &models.RecruitBoard{ID: 1}, nil }},
	)

	on, err := svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = svc.ToggleRecruitLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestReactionService_RecommendInvalidatesRank(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(cache.Close)
	require.NoError(t, mr.Set(cache.FreeBoardRankKey(10), "[]"))
	require.NoError(t, mr.Set("unrelated", "1"))

	svc := NewReactionService(
		&reactionRepoStub{toggleRecommendFn: func(context.Context, uint, uint) (bool, error) { return true, nil }},
		&freeBoardRepoStub{getByIDFn: func(context.Context, uint) (*models.FreeBoard, error) { return &models.FreeBoard{ID: 1}, nil }},
		&recruitRepoStub{},
	)
	on, err := svc.ToggleRecommend(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.True(t, on)
	assert.False(t, mr.Exists(cache.FreeBoardRankKey(10)))
	assert.True(t, mr.Exists("unrelated"))
}

func TestReactionService_MissingBoard(t *testing.T) {
	svc := NewReactionService(&reactionRepoStub{}, &freeBoardRepoStub{}, &recruitRepoStub{})
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, 2, 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = svc.ToggleRecommend(ctx, 2, 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = svc.ToggleRecruitLike(ctx, 2, 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
