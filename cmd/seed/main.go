// Command seed fills the database with demo users and boards.
package main

import (
	"flag"
	"log"

	"sideeffect/internal/config"
	"sideeffect/internal/database"
	"sideeffect/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	numFree := flag.Int("free-boards", 120, "Number of free boards to create")
	numRecruit := flag.Int("recruit-boards", 60, "Number of recruit boards to create")
	maxReactions := flag.Int("reactions", 5, "Maximum comments and recommends per free board")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := s.Run(seed.Options{
		NumUsers:         *numUsers,
		NumFreeBoards:    *numFree,
		NumRecruitBoards: *numRecruit,
		MaxReactions:     *maxReactions,
		Seed:             *seedValue,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeding complete. Every account signs in with %q.", seed.DefaultPassword)
}
