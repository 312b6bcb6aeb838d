package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// One row per subscriber, keyed by canonical phone number.
		// open/stats/schedule are JSONB so the conversation state machine can
		// evolve without migrations.
		`CREATE TABLE IF NOT EXISTS quiz_users (
			phone VARCHAR(20) PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			track VARCHAR(50) NOT NULL DEFAULT 'Consulting',
			per_day INTEGER NOT NULL DEFAULT 1,
			timezone VARCHAR(64) NOT NULL DEFAULT 'America/New_York',
			subscribed BOOLEAN NOT NULL DEFAULT TRUE,
			consent BOOLEAN NOT NULL DEFAULT FALSE,
			open JSONB,
			stats JSONB NOT NULL DEFAULT '{"asked":0,"correct":0,"streak":0}',
			schedule JSONB NOT NULL DEFAULT '{"local_date":"","remaining_utc":[]}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_quiz_users_subscribed ON quiz_users(subscribed)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_users_updated_at ON quiz_users(updated_at)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
