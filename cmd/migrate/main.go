package main

import (
	"log"
	"os"

	"homefinder-be/internal/model"
	"homefinder-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	// Extensions GORM cannot create itself.
	log.Println("Step 1: Extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	log.Println("Step 2: AutoMigrate...")
	models := []interface{}{
		&model.User{},
		&model.Listing{},
		&model.ListingEmbedding{},
		&model.ListingReview{},
		&model.KnowledgeArticle{},
		&model.KnowledgeEmbedding{},
		&model.Favorite{},
		&model.Appointment{},
		&model.Notification{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	// ANN indexes. AutoMigrate creates the columns; the HNSW indexes are
	// raw SQL because GORM has no notion of operator classes.
	log.Println("Step 3: Vector indexes...")
	indexSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_listing_embeddings_vec ON listing_embeddings USING hnsw (embedding_value vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_embeddings_vec ON knowledge_embeddings USING hnsw (embedding_value vector_cosine_ops);`,
	}
	for _, sql := range indexSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create vector index: %v. Continuing...", err)
		}
	}

	log.Println("✅ Migration complete")
}
