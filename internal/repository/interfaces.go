package repository

import (
	"context"
	"errors"

	"github.com/quran-reader-api/internal/models"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// UserRepository defines operations for reader sessions
type UserRepository interface {
	// GetBySession returns the user owning sessionID
	GetBySession(ctx context.Context, sessionID string) (*models.User, error)
	// Create inserts a user; an existing session id is left untouched
	Create(ctx context.Context, user *models.User) error
}

// BookmarkRepository defines operations for verse bookmarks
type BookmarkRepository interface {
	List(ctx context.Context, userID string) ([]models.Bookmark, error)
	Create(ctx context.Context, bookmark *models.Bookmark) error
	// Delete removes a bookmark owned by userID
	Delete(ctx context.Context, userID, id string) error
}

// ReadingPositionRepository defines operations for the last-read verse
type ReadingPositionRepository interface {
	Get(ctx context.Context, userID string) (*models.ReadingPosition, error)
	Upsert(ctx context.Context, pos *models.ReadingPosition) error
}

// PreferencesRepository defines operations for reader settings
type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (*models.Preferences, error)
	Upsert(ctx context.Context, prefs *models.Preferences) error
}

// BookRepository defines operations for uploaded-book metadata
type BookRepository interface {
	List(ctx context.Context, userID string) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book) error
}

// VerseEmbedding is a translation verse with its embedding vector
type VerseEmbedding struct {
	SurahNumber int
	AyahNumber  int
	Edition     string
	Text        string
	Embedding   []float64
}

// MeaningRepository defines operations for semantic search over translations
type MeaningRepository interface {
	// SearchVersesByEmbedding performs vector similarity search on verses of one edition
	SearchVersesByEmbedding(ctx context.Context, edition string, embedding []float64, topK int) ([]models.ScoredVerse, error)
	// UpsertEmbeddings stores or replaces verse embeddings
	UpsertEmbeddings(ctx context.Context, verses []VerseEmbedding) error
}
