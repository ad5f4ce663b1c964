package main

import (
	"log"
	"os"

	"homeclean-be/internal/model"
	"homeclean-be/pkg/database"

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

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do perfectly)
	log.Println("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		// Extensions
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

		// Enums (Idempotent creation)
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'reservation_status') THEN CREATE TYPE reservation_status AS ENUM ('WAITING', 'MATCHING', 'SCHEDULED', 'DONE', 'CANCEL', 'ERROR'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_status') THEN CREATE TYPE payment_status AS ENUM ('PENDING', 'PAID', 'REFUNDED'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'matching_decision') THEN CREATE TYPE matching_decision AS ENUM ('', 'accepted', 'rejected', 'expired'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'refund_status') THEN CREATE TYPE refund_status AS ENUM ('REQUESTED', 'COMPLETED', 'REJECTED'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Reservation{},
		&model.Matching{},
		&model.MatchingQueue{},
		&model.Payment{},
		&model.Refund{},
		&model.ServiceRecord{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Guards and Views
	log.Println("Step 3: Creating Indexes and Views...")

	postMigrationSQL := []string{
		// At most one undecided offer per reservation, enforced by the DB
		// as a backstop to the service-level lock.
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_matchings_open_offer
		 ON matchings (reservation_id) WHERE decision = '';`,

		// At most one accepted matching per reservation.
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_matchings_accepted
		 ON matchings (reservation_id) WHERE decision = 'accepted';`,

		// View: reservation_payment_history (operator dashboards read this)
		`CREATE OR REPLACE VIEW reservation_payment_history AS
		 SELECT r.id AS reservation_id, r.number, r.status, r.payment_status,
		        p.amount, p.method, p.paid_at, f.status AS refund_status, f.processed_at
		 FROM reservations r
		 LEFT JOIN payments p ON p.reservation_id = r.id
		 LEFT JOIN refunds f ON f.reservation_id = r.id
		 ORDER BY r.created_at DESC;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
