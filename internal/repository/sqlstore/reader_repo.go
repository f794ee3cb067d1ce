package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/repository"
)

// ReadingPositionRepository implements repository.ReadingPositionRepository
type ReadingPositionRepository struct {
	db *sqlx.DB
}

// NewReadingPositionRepository creates a new SQL reading position repository
func NewReadingPositionRepository(db *sqlx.DB) repository.ReadingPositionRepository {
	return &ReadingPositionRepository{db: db}
}

// Get returns the last-read verse of a user
func (r *ReadingPositionRepository) Get(ctx context.Context, userID string) (*models.ReadingPosition, error) {
	var pos models.ReadingPosition
	err := r.db.GetContext(ctx, &pos, r.db.Rebind(`
		SELECT user_id, surah_number, ayah_number, updated_at
		FROM reading_positions WHERE user_id = ?
	`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reading position: %w", err)
	}
	return &pos, nil
}

// Upsert stores the last-read verse, replacing the previous one
func (r *ReadingPositionRepository) Upsert(ctx context.Context, pos *models.ReadingPosition) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reading_positions (user_id, surah_number, ayah_number, updated_at)
		VALUES (:user_id, :surah_number, :ayah_number, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			surah_number = excluded.surah_number,
			ayah_number = excluded.ayah_number,
			updated_at = excluded.updated_at
	`, pos)
	if err != nil {
		return fmt.Errorf("upsert reading position: %w", err)
	}
	return nil
}

// PreferencesRepository implements repository.PreferencesRepository
type PreferencesRepository struct {
	db *sqlx.DB
}

// NewPreferencesRepository creates a new SQL preferences repository
func NewPreferencesRepository(db *sqlx.DB) repository.PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get returns a user's reader settings
func (r *PreferencesRepository) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	var prefs models.Preferences
	err := r.db.GetContext(ctx, &prefs, r.db.Rebind(`
		SELECT user_id, reciter, translation_edition, theme, font_size, updated_at
		FROM preferences WHERE user_id = ?
	`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert stores a user's reader settings
func (r *PreferencesRepository) Upsert(ctx context.Context, prefs *models.Preferences) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO preferences (user_id, reciter, translation_edition, theme, font_size, updated_at)
		VALUES (:user_id, :reciter, :translation_edition, :theme, :font_size, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			reciter = excluded.reciter,
			translation_edition = excluded.translation_edition,
			theme = excluded.theme,
			font_size = excluded.font_size,
			updated_at = excluded.updated_at
	`, prefs)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

// BookRepository implements repository.BookRepository
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository creates a new SQL book repository
func NewBookRepository(db *sqlx.DB) repository.BookRepository {
	return &BookRepository{db: db}
}

// List returns a user's uploaded books, newest first
func (r *BookRepository) List(ctx context.Context, userID string) ([]models.Book, error) {
	books := []models.Book{}
	err := r.db.SelectContext(ctx, &books, r.db.Rebind(`
		SELECT id, user_id, title, author, file_name, file_size, page_count, created_at
		FROM books
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Create inserts book metadata
func (r *BookRepository) Create(ctx context.Context, b *models.Book) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO books (id, user_id, title, author, file_name, file_size, page_count, created_at)
		VALUES (:id, :user_id, :title, :author, :file_name, :file_size, :page_count, :created_at)
	`, b)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}
