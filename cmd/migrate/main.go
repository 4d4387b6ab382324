package main

import (
	"context"
	"log"
	"os"

	"ai-companion-be/internal/entity"
	"ai-companion-be/internal/mapper"
	"ai-companion-be/internal/model"
	"ai-companion-be/pkg/affect"
	"ai-companion-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions AutoMigrate doesn't handle
	log.Println("Step 1: Setting up Extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.UserHistory{},
		&model.ChatSession{},
		&model.Message{},
		&model.AffectConfiguration{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Seed the affect keyword lists from the built-in defaults.
	// Existing rows win so operator tuning survives re-runs.
	log.Println("Step 3: Seeding affect configuration...")
	seedAffectConfiguration(db)

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}

func seedAffectConfiguration(db *gorm.DB) {
	cfg := affect.DefaultConfig()
	lists := map[string][]string{
		affect.ConfigKeyHappyWords:    cfg.HappyWords,
		affect.ConfigKeySadWords:      cfg.SadWords,
		affect.ConfigKeyThinkingWords: cfg.ThinkingWords,
		affect.ConfigKeyCrisisWords:   cfg.CrisisWords,
	}

	m := mapper.NewAffectConfigMapper()
	ctx := context.Background()
	for key, words := range lists {
		row, err := m.ToModel(&entity.AffectConfiguration{
			Id:       uuid.New(),
			Key:      key,
			Words:    words,
			IsActive: true,
		})
		if err != nil {
			log.Printf("Warn: Failed to encode %s: %v", key, err)
			continue
		}
		err = db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoNothing: true,
			}).
			Create(row).Error
		if err != nil {
			log.Printf("Warn: Failed to seed %s: %v", key, err)
			continue
		}
		log.Printf("Seeded affect list: %s (%d words)", key, len(words))
	}
}
