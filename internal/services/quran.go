package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/models"
)

// QuranSource is the upstream surface the reader endpoints pass through.
type QuranSource interface {
	ListSurahs(ctx context.Context) ([]models.Surah, error)
	SurahEditions(ctx context.Context, n int, editions []string) ([]models.SurahEdition, error)
}

// TafsirSource fetches verse commentary.
type TafsirSource interface {
	Tafsir(ctx context.Context, tafsirID, surah, ayah int) (models.Tafsir, error)
}

var (
	// ErrInvalidSurah is returned for chapter numbers outside 1..114.
	ErrInvalidSurah = fmt.Errorf("surah number must be between %d and %d", models.FirstSurah, models.LastSurah)
	// ErrInvalidAyah is returned for verse numbers below 1.
	ErrInvalidAyah = errors.New("ayah number must be positive")
)

// QuranService serves chapter listings, multi-edition chapters and tafsir,
// caching every upstream response.
type QuranService struct {
	quran  QuranSource
	tafsir TafsirSource

	defaultEditions []string
	defaultTafsir   int

	surahs   *cache.Cache[[]models.Surah]
	editions *cache.Cache[[]models.SurahEdition]
	tafsirs  *cache.Cache[models.Tafsir]
}

// NewQuranService creates a new reader service. Chapter metadata never expires;
// editions and tafsir live for ttl.
func NewQuranService(quran QuranSource, tafsir TafsirSource, defaultEditions []string, defaultTafsir int, ttl time.Duration, clock cache.Clock) *QuranService {
	return &QuranService{
		quran:           quran,
		tafsir:          tafsir,
		defaultEditions: defaultEditions,
		defaultTafsir:   defaultTafsir,
		surahs:          cache.New[[]models.Surah](0, clock),
		editions:        cache.New[[]models.SurahEdition](ttl, clock),
		tafsirs:         cache.New[models.Tafsir](ttl, clock),
	}
}

// ListSurahs returns metadata for all chapters.
func (s *QuranService) ListSurahs(ctx context.Context) ([]models.Surah, error) {
	const key = "all"
	if surahs, ok := s.surahs.Get(key); ok {
		return surahs, nil
	}
	surahs, err := s.quran.ListSurahs(ctx)
	if err != nil {
		return nil, err
	}
	s.surahs.Set(key, surahs)
	return surahs, nil
}

// Surah returns chapter n in each requested edition, or the default editions
// when none are given.
func (s *QuranService) Surah(ctx context.Context, n int, editions []string) ([]models.SurahEdition, error) {
	if !models.ValidSurah(n) {
		return nil, ErrInvalidSurah
	}
	editions = cleanEditions(editions)
	if len(editions) == 0 {
		editions = s.defaultEditions
	}

	key := fmt.Sprintf("%d|%s", n, strings.Join(editions, ","))
	if out, ok := s.editions.Get(key); ok {
		return out, nil
	}
	out, err := s.quran.SurahEditions(ctx, n, editions)
	if err != nil {
		return nil, err
	}
	s.editions.Set(key, out)
	return out, nil
}

// Tafsir returns commentary for one verse. A tafsirID of 0 selects the default.
func (s *QuranService) Tafsir(ctx context.Context, tafsirID, surah, ayah int) (models.Tafsir, error) {
	if !models.ValidSurah(surah) {
		return models.Tafsir{}, ErrInvalidSurah
	}
	if ayah < 1 {
		return models.Tafsir{}, ErrInvalidAyah
	}
	if tafsirID <= 0 {
		tafsirID = s.defaultTafsir
	}

	key := fmt.Sprintf("%d|%d|%d", tafsirID, surah, ayah)
	if t, ok := s.tafsirs.Get(key); ok {
		return t, nil
	}
	t, err := s.tafsir.Tafsir(ctx, tafsirID, surah, ayah)
	if err != nil {
		return models.Tafsir{}, err
	}
	s.tafsirs.Set(key, t)
	return t, nil
}

func cleanEditions(editions []string) []string {
	out := make([]string, 0, len(editions))
	for _, e := range editions {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
