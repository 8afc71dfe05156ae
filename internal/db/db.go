package db

import (
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// Connect opens the SQLite database holding user accounts.
func Connect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// SQLite serialises writers; one connection avoids "database is locked".
	pool.SetMaxOpenConns(1)

	slog.Info("Connected to database", "db.path", dbPath)
	return pool, nil
}

// InitializeDB enables foreign keys and creates the schema if missing.
func InitializeDB(DB *sqlx.DB) error {
	if _, err := DB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create users table if it doesn't exist
	userSchema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := DB.Exec(userSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	slog.Info("DB connection initialized and schema verified.")

	return nil
}
