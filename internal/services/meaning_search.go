package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/repository"
)

const (
	defaultMeaningLimit = 10
	maxMeaningLimit     = 50
	meaningBatchSize    = 100
)

// ErrMeaningSearchDisabled is returned when no embedding backend is configured.
var ErrMeaningSearchDisabled = errors.New("meaning search is not configured")

// QueryEmbedder embeds search queries and verse documents.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float64, error)
	EmbedVerses(ctx context.Context, texts []string) ([][]float64, error)
}

// MeaningSearchService handles semantic search over a translation edition
// using embeddings stored in pgvector.
type MeaningSearchService struct {
	repo     repository.MeaningRepository
	embedder QueryEmbedder
	edition  string
}

// NewMeaningSearchService creates a new meaning search service. A nil repo or
// embedder yields a service that reports ErrMeaningSearchDisabled.
func NewMeaningSearchService(repo repository.MeaningRepository, embedder QueryEmbedder, edition string) *MeaningSearchService {
	return &MeaningSearchService{
		repo:     repo,
		embedder: embedder,
		edition:  edition,
	}
}

// Enabled reports whether both storage and embeddings are configured.
func (s *MeaningSearchService) Enabled() bool {
	return s != nil && s.repo != nil && s.embedder != nil
}

// Search embeds a query and returns the closest verses.
func (s *MeaningSearchService) Search(ctx context.Context, query string, limit int) ([]models.ScoredVerse, error) {
	if !s.Enabled() {
		return nil, ErrMeaningSearchDisabled
	}
	query = strings.TrimSpace(query)
	if countLetters(query) < MinQueryRunes {
		return nil, ErrQueryTooShort
	}
	switch {
	case limit <= 0:
		limit = defaultMeaningLimit
	case limit > maxMeaningLimit:
		limit = maxMeaningLimit
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.repo.SearchVersesByEmbedding(ctx, s.edition, embedding, limit)
}

// IndexChapter embeds every verse of a translated chapter and stores the
// vectors. It returns the number of verses indexed.
func (s *MeaningSearchService) IndexChapter(ctx context.Context, ch models.Chapter) (int, error) {
	if !s.Enabled() {
		return 0, ErrMeaningSearchDisabled
	}

	indexed := 0
	for start := 0; start < len(ch.Verses); start += meaningBatchSize {
		end := min(start+meaningBatchSize, len(ch.Verses))
		batch := ch.Verses[start:end]

		texts := make([]string, len(batch))
		for i, v := range batch {
			texts[i] = v.Text
		}
		vectors, err := s.embedder.EmbedVerses(ctx, texts)
		if err != nil {
			return indexed, fmt.Errorf("embed surah %d: %w", ch.Surah.Number, err)
		}
		if len(vectors) != len(batch) {
			return indexed, fmt.Errorf("embed surah %d: got %d vectors for %d verses", ch.Surah.Number, len(vectors), len(batch))
		}

		rows := make([]repository.VerseEmbedding, len(batch))
		for i, v := range batch {
			rows[i] = repository.VerseEmbedding{
				SurahNumber: ch.Surah.Number,
				AyahNumber:  v.NumberInSurah,
				Edition:     s.edition,
				Text:        v.Text,
				Embedding:   vectors[i],
			}
		}
		if err := s.repo.UpsertEmbeddings(ctx, rows); err != nil {
			return indexed, err
		}
		indexed += len(batch)
	}
	return indexed, nil
}

// Edition is the translation edition being searched.
func (s *MeaningSearchService) Edition() string {
	return s.edition
}
