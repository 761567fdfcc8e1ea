package main

import (
	"log"
	"os"

	"ai-blog-be/internal/model"
	"ai-blog-be/pkg/database"

	"github.com/joho/godotenv"
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

	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 2. gen_random_uuid() defaults need pgcrypto on older Postgres
	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 3. AutoMigrate
	log.Println("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.Post{},
		&model.Review{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Constraints AutoMigrate cannot express
	log.Println("Step 3: Applying constraints...")
	for _, sql := range model.Constraints {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed to apply constraint: %v", err)
		}
	}

	// 5. Indexes
	log.Println("Step 4: Creating extra indexes...")
	for _, sql := range model.Indexes {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v. Continuing...", err)
		}
	}

	log.Println("Migration complete.")
}
