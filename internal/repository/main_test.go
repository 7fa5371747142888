package repository

import (
	"fmt"
	"testing"

	"sideeffect/internal/database"
	"sideeffect/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a migrated in-memory SQLite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every new connection to :memory: is a fresh database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	u := &models.User{Nickname: nickname, Role: models.RoleUser, Provider: models.ProviderLocal}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createFreeBoard(t *testing.T, db *gorm.DB, owner *models.User, title, content string) *models.FreeBoard {
	t.Helper()
	b := &models.FreeBoard{Title: title, Content: content, UserID: owner.ID}
	require.NoError(t, NewFreeBoardRepository(db).Create(t.Context(), b))
	return b
}

func createUsers(t *testing.T, db *gorm.DB, prefix string, n int) []*models.User {
	t.Helper()
	users := make([]*models.User, n)
	for i := range n {
		users[i] = createUser(t, db, fmt.Sprintf("%s-%d", prefix, i))
	}
	return users
}

func freeIDs(boards []*models.FreeBoard) []uint {
	ids := make([]uint, len(boards))
	for i, b := range boards {
		ids[i] = b.ID
	}
	return ids
}

func recruitIDs(boards []*models.RecruitBoard) []uint {
	ids := make([]uint, len(boards))
	for i, b := range boards {
		ids[i] = b.ID
	}
	return ids
}
