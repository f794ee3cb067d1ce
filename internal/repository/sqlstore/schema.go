// Package sqlstore implements the reader CRUD repositories on any SQL backend
// sqlx can rebind for (PostgreSQL and SQLite).
package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func timestampType(db *sqlx.DB) string {
	if db.DriverName() == "postgres" {
		return "TIMESTAMPTZ"
	}
	return "TIMESTAMP"
}

func schema(ts string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			created_at %s NOT NULL
		)`, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bookmarks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			surah_number INTEGER NOT NULL,
			ayah_number INTEGER NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at %s NOT NULL
		)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_user ON bookmarks (user_id, created_at)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS reading_positions (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			surah_number INTEGER NOT NULL,
			ayah_number INTEGER NOT NULL,
			updated_at %s NOT NULL
		)`, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			reciter TEXT NOT NULL,
			translation_edition TEXT NOT NULL,
			theme TEXT NOT NULL,
			font_size INTEGER NOT NULL,
			updated_at %s NOT NULL
		)`, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			page_count INTEGER NOT NULL DEFAULT 0,
			created_at %s NOT NULL
		)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_books_user ON books (user_id, created_at)`,
	}
}

// Migrate creates the reader tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema(timestampType(db)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
