package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/quran-reader-api/internal/arabic"
	"github.com/quran-reader-api/internal/matcher"
	"github.com/quran-reader-api/internal/models"
)

// MinQueryRunes is the shortest accepted search text, ignoring whitespace.
const MinQueryRunes = 2

var (
	// ErrQueryTooShort rejects a query before any scan.
	ErrQueryTooShort = errors.New("search text must be at least 2 characters")
	// ErrNoMatch means no verse scored above the acceptance threshold.
	ErrNoMatch = errors.New("no matching ayah found")
)

// AyahSearchService finds the single best verse across the cached corpus.
type AyahSearchService struct {
	corpus    *Corpus
	scorer    matcher.Scorer
	threshold float64
}

// NewAyahSearchService creates a search service accepting scores strictly
// above threshold.
func NewAyahSearchService(corpus *Corpus, scorer matcher.Scorer, threshold float64) *AyahSearchService {
	return &AyahSearchService{
		corpus:    corpus,
		scorer:    scorer,
		threshold: threshold,
	}
}

// ValidateQuery checks the minimum length rule on both the raw and the
// normalized text.
func ValidateQuery(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if countLetters(trimmed) < MinQueryRunes {
		return "", ErrQueryTooShort
	}
	normalized := arabic.Normalize(trimmed)
	if countLetters(normalized) < MinQueryRunes {
		return "", ErrQueryTooShort
	}
	return normalized, nil
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// Search scans chapters 1..114 in order, skipping any chapter not in the
// cache. It never fetches. The first verse with the highest score wins.
func (s *AyahSearchService) Search(_ context.Context, query string) (*models.MatchResult, error) {
	normalized, err := ValidateQuery(query)
	if err != nil {
		return nil, err
	}

	var (
		best      *models.MatchResult
		bestScore = -1.0
	)
	for n := models.FirstSurah; n <= models.LastSurah; n++ {
		if s.corpus.Status(n) != ChapterCached {
			continue
		}
		ch, ok := s.corpus.Chapter(n)
		if !ok {
			continue
		}
		for _, v := range ch.Verses {
			score := s.scorer.Score(v.Text, normalized)
			if score > bestScore {
				bestScore = score
				best = &models.MatchResult{
					SurahNumber:      n,
					AyahNumber:       v.NumberInSurah,
					Text:             v.Text,
					SurahName:        ch.Surah.Name,
					SurahEnglishName: ch.Surah.EnglishName,
					Score:            score,
				}
			}
		}
	}

	if best == nil || best.Score <= s.threshold {
		return nil, ErrNoMatch
	}
	return best, nil
}
