package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"sideeffect/internal/models"

	"gorm.io/gorm"
)

// userRepoStub is a stub for repository.UserRepository. Unset functions return zero values.
type userRepoStub struct {
	createFn           func(context.Context, *models.User) error
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	getBySocialFn      func(context.Context, string, string) (*models.User, error)
	existsByEmailFn    func(context.Context, string) (bool, error)
	existsByNicknameFn func(context.Context, string) (bool, error)
	getMyPageFn        func(context.Context, uint) (*models.User, error)
	updateColumnsFn    func(context.Context, *models.User, ...string) error
	deleteFn           func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetBySocial(ctx context.Context, provider, socialID string) (*models.User, error) {
	if s.getBySocialFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getBySocialFn(ctx, provider, socialID)
}
func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if s.existsByEmailFn == nil {
		return false, nil
	}
	return s.existsByEmailFn(ctx, email)
}
func (s *userRepoStub) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	if s.existsByNicknameFn == nil {
		return false, nil
	}
	return s.existsByNicknameFn(ctx, nickname)
}
func (s *userRepoStub) GetMyPage(ctx context.Context, id uint) (*models.User, error) {
	if s.getMyPageFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getMyPageFn(ctx, id)
}
func (s *userRepoStub) UpdateColumns(ctx context.Context, u *models.User, columns ...string) error {
	if s.updateColumnsFn == nil {
		return nil
	}
	return s.updateColumnsFn(ctx, u, columns...)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

// freeBoardRepoStub is a stub for repository.FreeBoardRepository.
type freeBoardRepoStub struct {
	createFn                     func(context.Context, *models.FreeBoard) error
	getByIDFn                    func(context.Context, uint) (*models.FreeBoard, error)
	existsByProjectURLFn         func(context.Context, string, uint) (bool, error)
	findStartScrollFn            func(context.Context, int) ([]*models.FreeBoard, error)
	findScrollFn                 func(context.Context, uint, int) ([]*models.FreeBoard, error)
	findStartScrollWithKeywordFn func(context.Context, string, int) ([]*models.FreeBoard, error)
	findScrollWithKeywordFn      func(context.Context, string, uint, int) ([]*models.FreeBoard, error)
	findRankFn                   func(context.Context, int) ([]*models.FreeBoard, error)
	updateColumnsFn              func(context.Context, *models.FreeBoard, ...string) error
	increaseViewsFn              func(context.Context, uint) error
	softDeleteFn                 func(context.Context, uint) error
}

func (s *freeBoardRepoStub) Create(ctx context.Context, b *models.FreeBoard) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, b)
}
func (s *freeBoardRepoStub) GetByID(ctx context.Context, id uint) (*models.FreeBoard, error) {
	if s.getByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getByIDFn(ctx, id)
}
func (s *freeBoardRepoStub) ExistsByProjectURL(ctx context.Context, url string, excludeID uint) (bool, error) {
	if s.existsByProjectURLFn == nil {
		return false, nil
	}
	return s.existsByProjectURLFn(ctx, url, excludeID)
}
func (s *freeBoardRepoStub) FindStartScroll(ctx context.Context, size int) ([]*models.FreeBoard, error) {
	return s.findStartScrollFn(ctx, size)
}
func (s *freeBoardRepoStub) FindScroll(ctx context.Context, lastID uint, size int) ([]*models.FreeBoard, error) {
	return s.findScrollFn(ctx, lastID, size)
}
func (s *freeBoardRepoStub) FindStartScrollWithKeyword(ctx context.Context, keyword string, size int) ([]*models.FreeBoard, error) {
	return s.findStartScrollWithKeywordFn(ctx, keyword, size)
}
func (s *freeBoardRepoStub) FindScrollWithKeyword(ctx context.Context, keyword string, lastID uint, size int) ([]*models.FreeBoard, error) {
	return s.findScrollWithKeywordFn(ctx, keyword, lastID, size)
}
func (s *freeBoardRepoStub) FindRank(ctx context.Context, size int) ([]*models.FreeBoard, error) {
	return s.findRankFn(ctx, size)
}
func (s *freeBoardRepoStub) UpdateColumns(ctx context.Context, b *models.FreeBoard, columns ...string) error {
	if s.updateColumnsFn == nil {
		return nil
	}
	return s.updateColumnsFn(ctx, b, columns...)
}
func (s *freeBoardRepoStub) IncreaseViews(ctx context.Context, id uint) error {
	if s.increaseViewsFn == nil {
		return nil
	}
	return s.increaseViewsFn(ctx, id)
}
func (s *freeBoardRepoStub) SoftDelete(ctx context.Context, id uint) error {
	if s.softDeleteFn == nil {
		return nil
	}
	return s.softDeleteFn(ctx, id)
}

// recruitRepoStub is a stub for repository.RecruitBoardRepository.
type recruitRepoStub struct {
	createFn        func(context.Context, *models.RecruitBoard) error
	getByIDFn       func(context.Context, uint) (*models.RecruitBoard, error)
	searchFn        func(context.Context, *uint, string, []models.StackType, int) ([]*models.RecruitBoard, error)
	updateFn        func(context.Context, *models.RecruitBoard, bool) error
	increaseViewsFn func(context.Context, uint) error
	deleteFn        func(context.Context, uint) error
}

func (s *recruitRepoStub) Create(ctx context.Context, b *models.RecruitBoard) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, b)
}
func (s *recruitRepoStub) GetByID(ctx context.Context, id uint) (*models.RecruitBoard, error) {
	if s.getByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getByIDFn(ctx, id)
}
func (s *recruitRepoStub) FindWithSearchConditions(ctx context.Context, lastID *uint, keyword string, stackTypes []models.StackType, pageSize int) ([]*models.RecruitBoard, error) {
	return s.searchFn(ctx, lastID, keyword, stackTypes, pageSize)
}
func (s *recruitRepoStub) Update(ctx context.Context, b *models.RecruitBoard, replaceStacks bool) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, b, replaceStacks)
}
func (s *recruitRepoStub) IncreaseViews(ctx context.Context, id uint) error {
	if s.increaseViewsFn == nil {
		return nil
	}
	return s.increaseViewsFn(ctx, id)
}
func (s *recruitRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	updateContentFn func(context.Context, uint, string) error
	deleteFn        func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, id uint, content string) error {
	if s.updateContentFn == nil {
		return nil
	}
	return s.updateContentFn(ctx, id, content)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	toggleLikeFn        func(context.Context, uint, uint) (bool, error)
	toggleRecommendFn   func(context.Context, uint, uint) (bool, error)
	toggleRecruitLikeFn func(context.Context, uint, uint) (bool, error)
	freeBoardStateFn    func(context.Context, uint, uint) (bool, bool, error)
}

func (s *reactionRepoStub) ToggleLike(ctx context.Context, userID, boardID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, boardID)
}
func (s *reactionRepoStub) ToggleRecommend(ctx context.Context, userID, boardID uint) (bool, error) {
	return s.toggleRecommendFn(ctx, userID, boardID)
}
func (s *reactionRepoStub) ToggleRecruitLike(ctx context.Context, userID, boardID uint) (bool, error) {
	return s.toggleRecruitLikeFn(ctx, userID, boardID)
}
func (s *reactionRepoStub) FreeBoardState(ctx context.Context, userID, boardID uint) (bool, bool, error) {
	if s.freeBoardStateFn == nil {
		return false, false, nil
	}
	return s.freeBoardStateFn(ctx, userID, boardID)
}

// memoryStore is an in-memory storage.ObjectStore.
type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) Put(_ context.Context, name, contentType string, r io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + name
	m.objects[url] = b
	m.types[url] = contentType
	return url, nil
}

func (m *memoryStore) Delete(_ context.Context, url string) error {
	delete(m.objects, url)
	m.deleted = append(m.deleted, url)
	return nil
}

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x += 7 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func ptr[T any](v T) *T { return &v }

func appCode(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
