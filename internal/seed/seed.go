package seed

import (
	"fmt"
	"log"

	"sideeffect/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers         int
	NumFreeBoards    int
	NumRecruitBoards int
	// Upper bound of comments and recommends per free board.
	MaxReactions int
	Seed         int64
	MaxDays      int
}

// Result counts what a run created.
type Result struct {
	Users         int
	FreeBoards    int
	RecruitBoards int
	Comments      int
	Recommends    int
}

// Seeder fills the database with demo data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new Seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll removes every seeded row, children first.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	tables := []any{
		&models.RefreshToken{},
		&models.RecruitLike{},
		&models.BoardPosition{},
		&models.BoardStack{},
		&models.RecruitBoard{},
		&models.Like{},
		&models.Recommend{},
		&models.Comment{},
		&models.FreeBoard{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// Run creates users first, then boards spread across them, then reactions from random users.
func (s *Seeder) Run(opts Options) (Result, error) {
	var res Result
	if opts.NumUsers <= 0 {
		return res, fmt.Errorf("at least one user is required")
	}

	f, err := NewFactory(s.db, opts.Seed, opts.MaxDays)
	if err != nil {
		return res, err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for range opts.NumUsers {
		u, err := f.CreateUser()
		if err != nil {
			return res, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)
	pick := func() *models.User { return users[f.faker.Number(0, len(users)-1)] }

	for range opts.NumFreeBoards {
		board, err := f.CreateFreeBoard(pick())
		if err != nil {
			return res, fmt.Errorf("create free board: %w", err)
		}
		res.FreeBoards++

		if opts.MaxReactions <= 0 {
			continue
		}
		for range f.faker.Number(0, opts.MaxReactions) {
			if _, err := f.Comment(board, pick()); err != nil {
				return res, fmt.Errorf("create comment: %w", err)
			}
			res.Comments++
		}
		// each user recommends a board at most once
		recommended := make(map[uint]bool)
		for range f.faker.Number(0, opts.MaxReactions) {
			u := pick()
			if recommended[u.ID] {
				continue
			}
			recommended[u.ID] = true
			if err := f.Recommend(board, u); err != nil {
				return res, fmt.Errorf("create recommend: %w", err)
			}
			res.Recommends++
		}
	}

	for range opts.NumRecruitBoards {
		if _, err := f.CreateRecruitBoard(pick()); err != nil {
			return res, fmt.Errorf("create recruit board: %w", err)
		}
		res.RecruitBoards++
	}

	log.Printf("Seeded %d users, %d free boards (%d comments, %d recommends), %d recruit boards",
		res.Users, res.FreeBoards, res.Comments, res.Recommends, res.RecruitBoards)
	return res, nil
}
