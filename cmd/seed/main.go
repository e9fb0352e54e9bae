package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"libroflow/internal/config"
	"libroflow/internal/db"
	"libroflow/internal/model"
	"libroflow/internal/repository"
	"libroflow/internal/seed"
)

func main() {
	log.Println("Starting catalog seed...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.Book{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	bookRepo := repository.NewBookRepository(gormDB)

	ctx := context.Background()
	before, err := bookRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count books: %v", err)
	}

	if err := seed.Apply(ctx, bookRepo); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	after, err := bookRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count books: %v", err)
	}

	if before == after {
		log.Printf("Catalog already complete (%d books), nothing to do", after)
	} else {
		log.Printf("Catalog seeded: %d books (was %d)", after, before)
	}
}
