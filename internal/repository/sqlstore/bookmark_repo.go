package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/repository"
)

// BookmarkRepository implements repository.BookmarkRepository
type BookmarkRepository struct {
	db *sqlx.DB
}

// NewBookmarkRepository creates a new SQL bookmark repository
func NewBookmarkRepository(db *sqlx.DB) repository.BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// List returns a user's bookmarks, newest first
func (r *BookmarkRepository) List(ctx context.Context, userID string) ([]models.Bookmark, error) {
	bookmarks := []models.Bookmark{}
	err := r.db.SelectContext(ctx, &bookmarks, r.db.Rebind(`
		SELECT id, user_id, surah_number, ayah_number, note, created_at
		FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Create inserts a bookmark
func (r *BookmarkRepository) Create(ctx context.Context, b *models.Bookmark) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bookmarks (id, user_id, surah_number, ayah_number, note, created_at)
		VALUES (:id, :user_id, :surah_number, :ayah_number, :note, :created_at)
	`, b)
	if err != nil {
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

// Delete removes a bookmark owned by userID
func (r *BookmarkRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM bookmarks WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
