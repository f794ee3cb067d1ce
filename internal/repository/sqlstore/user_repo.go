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

// UserRepository implements repository.UserRepository
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQL user repository
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

// GetBySession returns the user owning sessionID
func (r *UserRepository) GetBySession(ctx context.Context, sessionID string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`
		SELECT id, session_id, created_at FROM users WHERE session_id = ?
	`), sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by session: %w", err)
	}
	return &u, nil
}

// Create inserts a user unless its session id is already taken
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO users (id, session_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (session_id) DO NOTHING
	`), user.ID, user.SessionID, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
