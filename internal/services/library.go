package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/repository"
)

const (
	maxNoteLength  = 2000
	maxTitleLength = 300
	minFontSize    = 10
	maxFontSize    = 72
)

var themes = map[string]bool{"light": true, "dark": true, "sepia": true}

// LibraryRepositories groups the per-user stores.
type LibraryRepositories struct {
	Users       repository.UserRepository
	Bookmarks   repository.BookmarkRepository
	Positions   repository.ReadingPositionRepository
	Preferences repository.PreferencesRepository
	Books       repository.BookRepository
}

// LibraryService owns a reader's personal data: session user, bookmarks,
// reading position, preferences and uploaded books.
type LibraryService struct {
	repos    LibraryRepositories
	defaults models.Preferences
	clock    cache.Clock
}

// NewLibraryService creates a new library service. defaults is returned
// for users who never saved preferences.
func NewLibraryService(repos LibraryRepositories, defaults models.Preferences, clock cache.Clock) *LibraryService {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &LibraryService{repos: repos, defaults: defaults, clock: clock}
}

func (s *LibraryService) now() time.Time {
	return s.clock.Now().UTC()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func validVerse(surah, ayah int) error {
	if !models.ValidSurah(surah) {
		return invalid("surahNumber must be between %d and %d", models.FirstSurah, models.LastSurah)
	}
	if ayah < 1 {
		return invalid("ayahNumber must be positive")
	}
	return nil
}

// EnsureUser returns the user for sessionID, creating it on first use. An
// empty sessionID issues a fresh one.
func (s *LibraryService) EnsureUser(ctx context.Context, sessionID string) (*models.User, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	user, err := s.repos.Users.GetBySession(ctx, sessionID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err := s.repos.Users.Create(ctx, &models.User{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		CreatedAt: s.now(),
	}); err != nil {
		return nil, err
	}
	// Re-read so a concurrent create for the same session wins consistently.
	return s.repos.Users.GetBySession(ctx, sessionID)
}

// Bookmarks lists a user's bookmarks, newest first.
func (s *LibraryService) Bookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	return s.repos.Bookmarks.List(ctx, userID)
}

// AddBookmark validates and stores a bookmark.
func (s *LibraryService) AddBookmark(ctx context.Context, userID string, req models.CreateBookmarkRequest) (*models.Bookmark, error) {
	if err := validVerse(req.SurahNumber, req.AyahNumber); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(req.Note)
	if len([]rune(note)) > maxNoteLength {
		return nil, invalid("note must be at most %d characters", maxNoteLength)
	}

	b := &models.Bookmark{
		ID:          uuid.NewString(),
		UserID:      userID,
		SurahNumber: req.SurahNumber,
		AyahNumber:  req.AyahNumber,
		Note:        note,
		CreatedAt:   s.now(),
	}
	if err := s.repos.Bookmarks.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RemoveBookmark deletes one of the user's bookmarks.
func (s *LibraryService) RemoveBookmark(ctx context.Context, userID, id string) error {
	err := s.repos.Bookmarks.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	return err
}

// ReadingPosition returns the last-read verse, or ErrNotFound.
func (s *LibraryService) ReadingPosition(ctx context.Context, userID string) (*models.ReadingPosition, error) {
	pos, err := s.repos.Positions.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("reading position: %w", ErrNotFound)
	}
	return pos, err
}

// SaveReadingPosition stores the last-read verse.
func (s *LibraryService) SaveReadingPosition(ctx context.Context, userID string, req models.ReadingPositionRequest) (*models.ReadingPosition, error) {
	if err := validVerse(req.SurahNumber, req.AyahNumber); err != nil {
		return nil, err
	}
	pos := &models.ReadingPosition{
		UserID:      userID,
		SurahNumber: req.SurahNumber,
		AyahNumber:  req.AyahNumber,
		UpdatedAt:   s.now(),
	}
	if err := s.repos.Positions.Upsert(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// Preferences returns the user's settings, falling back to the defaults.
func (s *LibraryService) Preferences(ctx context.Context, userID string) (*models.Preferences, error) {
	prefs, err := s.repos.Preferences.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		d := s.defaults
		d.UserID = userID
		return &d, nil
	}
	return prefs, err
}

// SavePreferences merges req over the current settings and stores them.
// Empty fields keep their previous value.
func (s *LibraryService) SavePreferences(ctx context.Context, userID string, req models.PreferencesRequest) (*models.Preferences, error) {
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if r := strings.TrimSpace(req.Reciter); r != "" {
		prefs.Reciter = r
	}
	if e := strings.TrimSpace(req.TranslationEdition); e != "" {
		prefs.TranslationEdition = e
	}
	if t := strings.ToLower(strings.TrimSpace(req.Theme)); t != "" {
		if !themes[t] {
			return nil, invalid("theme must be light, dark or sepia")
		}
		prefs.Theme = t
	}
	if req.FontSize != 0 {
		if req.FontSize < minFontSize || req.FontSize > maxFontSize {
			return nil, invalid("fontSize must be between %d and %d", minFontSize, maxFontSize)
		}
		prefs.FontSize = req.FontSize
	}
	prefs.UpdatedAt = s.now()

	if err := s.repos.Preferences.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Books lists a user's uploaded books.
func (s *LibraryService) Books(ctx context.Context, userID string) ([]models.Book, error) {
	return s.repos.Books.List(ctx, userID)
}

// AddBook stores metadata for an uploaded book.
func (s *LibraryService) AddBook(ctx context.Context, userID string, req models.CreateBookRequest) (*models.Book, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, invalid("title must be at most %d characters", maxTitleLength)
	}
	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return nil, invalid("fileName is required")
	}
	if req.FileSize < 0 || req.PageCount < 0 {
		return nil, invalid("fileSize and pageCount must not be negative")
	}

	b := &models.Book{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Author:    strings.TrimSpace(req.Author),
		FileName:  fileName,
		FileSize:  req.FileSize,
		PageCount: req.PageCount,
		CreatedAt: s.now(),
	}
	if err := s.repos.Books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
