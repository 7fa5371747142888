package repository

import (
	"context"
	"regexp"
	"testing"

	"sideeffect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	local := &models.User{Email: strPtr("kim@example.com"), Password: "hash", Nickname: "kim", Role: models.RoleUser, Provider: models.ProviderLocal}
	require.NoError(t, repo.Create(ctx, local))
	social := &models.User{Nickname: "lee", Role: models.RoleUser, Provider: "github", SocialID: strPtr("42")}
	require.NoError(t, repo.Create(ctx, social))

	got, err := repo.GetByEmail(ctx, "kim@example.com")
	require.NoError(t, err)
	assert.Equal(t, local.ID, got.ID)

	got, err = repo.GetBySocial(ctx, "github", "42")
	require.NoError(t, err)
	assert.Equal(t, social.ID, got.ID)

	_, err = repo.GetBySocial(ctx, "google", "42")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ExistsByEmail(ctx, "kim@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByNickname(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &models.User{Nickname: "kim", Role: models.RoleUser, Provider: models.ProviderLocal}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)
}

func TestUserRepository_MyPageAndUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	boards := NewFreeBoardRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	kept := createFreeBoard(t, db, owner, "kept", "c")
	gone := createFreeBoard(t, db, owner, "gone", "c")
	require.NoError(t, boards.SoftDelete(ctx, gone.ID))
	createRecruitBoard(t, db, owner, "team", "contents", models.StackGo)

	intro := "hello"
	patch := models.UserPatch{Introduction: &intro}
	patch.Apply(owner)
	require.NoError(t, repo.UpdateColumns(ctx, owner, "introduction"))

	page, err := repo.GetMyPage(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", page.Introduction)
	assert.Equal(t, []uint{kept.ID}, freeIDs(page.FreeBoards))
	require.Len(t, page.RecruitBoards, 1)
	assert.Len(t, page.RecruitBoards[0].Stacks, 1)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	reactions := NewReactionRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	ownBoard := createFreeBoard(t, db, owner, "mine", "c")
	otherBoard := createFreeBoard(t, db, other, "theirs", "c")
	createRecruitBoard(t, db, owner, "team", "contents", models.StackGo)

	require.NoError(t, db.Create(&models.Comment{Content: "on mine", FreeBoardID: ownBoard.ID, UserID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Content: "on theirs", FreeBoardID: otherBoard.ID, UserID: owner.ID}).Error)
	_, err := reactions.ToggleRecommend(ctx, owner.ID, otherBoard.ID)
	require.NoError(t, err)
	_, err = reactions.ToggleLike(ctx, other.ID, ownBoard.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, owner.ID))
	assert.ErrorIs(t, repo.Delete(ctx, owner.ID), gorm.ErrRecordNotFound)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&models.FreeBoard{}))
	assert.Zero(t, count(&models.Comment{}))
	assert.Zero(t, count(&models.Like{}))
	assert.Zero(t, count(&models.Recommend{}))
	assert.Zero(t, count(&models.RecruitBoard{}))
	assert.Zero(t, count(&models.BoardStack{}))
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nickname", "role"}).AddRow(1, "kim", "USER"))

	user, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "kim", user.Nickname)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
