// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"time"

	"sideeffect/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded local account signs in with.
const DefaultPassword = "password123"

var (
	seedStacks = []models.StackType{
		models.StackJava, models.StackSpring, models.StackKotlin, models.StackJavaScript,
		models.StackTypeScript, models.StackReact, models.StackVue, models.StackNode,
		models.StackGo, models.StackPython, models.StackDjango, models.StackSwift,
		models.StackFlutter, models.StackAWS, models.StackDocker, models.StackFigma,
	}
	seedPositions = []models.PositionType{
		models.PositionFrontend, models.PositionBackend, models.PositionDesigner,
		models.PositionDevOps, models.PositionMarketer, models.PositionPM, models.PositionAppMobile,
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	maxDays int
	// hashed once; bcrypt per user makes large seeds crawl
	passwordHash string
}

// NewFactory creates a Factory. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64, maxDays int) (*Factory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash default password: %w", err)
	}
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		db:           db,
		faker:        gofakeit.New(seed),
		maxDays:      maxDays,
		passwordHash: string(hash),
	}, nil
}

// createdAt spreads timestamps over the last maxDays days.
func (f *Factory) createdAt() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// CreateUser persists a local account. Overrides run before the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	email := fmt.Sprintf("%s.%d@%s", f.faker.Username(), f.faker.Number(100, 99999), f.faker.DomainName())
	user := &models.User{
		Email:        &email,
		Password:     f.passwordHash,
		Nickname:     fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(100, 99999)),
		Role:         models.RoleUser,
		Provider:     models.ProviderLocal,
		Introduction: f.faker.Sentence(10),
		ImgURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildFreeBoard constructs an unsaved free board written by owner.
func (f *Factory) BuildFreeBoard(owner *models.User) *models.FreeBoard {
	project := f.faker.AppName()
	board := &models.FreeBoard{
		Title:       f.faker.Sentence(5),
		SubTitle:    f.faker.Sentence(8),
		ProjectName: project,
		Content:     f.faker.Paragraph(2, 4, 12, "\n"),
		ImgURL:      fmt.Sprintf("https://picsum.photos/seed/%s/1280/640", f.faker.UUID()),
		CreatedAt:   f.createdAt(),
	}
	if f.faker.Bool() {
		// uuid keeps the unique project URL index happy
		url := fmt.Sprintf("https://%s/%s", f.faker.DomainName(), f.faker.UUID())
		board.ProjectURL = &url
	}
	board.AssociateUser(owner)
	return board
}

// CreateFreeBoard persists a free board written by owner.
func (f *Factory) CreateFreeBoard(owner *models.User) (*models.FreeBoard, error) {
	board := f.BuildFreeBoard(owner)
	if err := f.db.Omit("User").Create(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}

// Comment adds a comment by author on board.
func (f *Factory) Comment(board *models.FreeBoard, author *models.User) (*models.Comment, error) {
	c := &models.Comment{
		Content:     f.faker.Sentence(12),
		FreeBoardID: board.ID,
		UserID:      author.ID,
		CreatedAt:   f.createdAt(),
	}
	if err := f.db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// Recommend records user's recommendation of board.
func (f *Factory) Recommend(board *models.FreeBoard, user *models.User) error {
	return f.db.Create(&models.Recommend{UserID: user.ID, FreeBoardID: board.ID}).Error
}

// Like records user's like on board.
func (f *Factory) Like(board *models.FreeBoard, user *models.User) error {
	return f.db.Create(&models.Like{UserID: user.ID, FreeBoardID: board.ID}).Error
}

// CreateRecruitBoard persists a recruit board with one to four stacks and one to three positions.
func (f *Factory) CreateRecruitBoard(owner *models.User) (*models.RecruitBoard, error) {
	board := &models.RecruitBoard{
		Title:       f.faker.Sentence(6),
		ProjectName: f.faker.AppName(),
		Contents:    f.faker.Paragraph(2, 3, 12, "\n"),
		ImgSrc:      fmt.Sprintf("https://picsum.photos/seed/%s/800/400", f.faker.UUID()),
		CreatedAt:   f.createdAt(),
	}
	board.AssociateUser(owner)

	stacks := make([]models.StackType, f.faker.Number(1, 4))
	for i := range stacks {
		stacks[i] = seedStacks[f.faker.Number(0, len(seedStacks)-1)]
	}
	board.SetStacks(stacks)

	used := make(map[models.PositionType]bool)
	for range f.faker.Number(1, 3) {
		p := seedPositions[f.faker.Number(0, len(seedPositions)-1)]
		if used[p] {
			continue
		}
		used[p] = true
		board.AddPosition(p, f.faker.Number(1, 4))
	}

	if err := f.db.Omit("User").Create(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}
