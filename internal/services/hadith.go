package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/models"
)

const (
	defaultHadithLimit = 20
	maxHadithLimit     = 100
)

var (
	// ErrInvalidCollection rejects collection names that are not CDN edition ids.
	ErrInvalidCollection = errors.New("invalid hadith collection")
	// ErrInvalidHadith rejects hadith numbers below 1.
	ErrInvalidHadith = errors.New("hadith number must be positive")
	// ErrInvalidPage rejects page numbers whose offset does not fit in an int.
	ErrInvalidPage = errors.New("page number is out of range")

	collectionPattern = regexp.MustCompile(`^[a-z]{3}-[a-z0-9]+$`)
)

// HadithSource fetches hadith editions.
type HadithSource interface {
	Collection(ctx context.Context, edition string) (models.HadithCollection, error)
	Hadith(ctx context.Context, edition string, number int) (models.HadithCollection, error)
}

// HadithService pages through cached hadith collections.
type HadithService struct {
	source      HadithSource
	collections *cache.Cache[models.HadithCollection]
	singles     *cache.Cache[models.Hadith]
}

// NewHadithService creates a new hadith service caching responses for ttl.
func NewHadithService(source HadithSource, ttl time.Duration, clock cache.Clock) *HadithService {
	return &HadithService{
		source:      source,
		collections: cache.New[models.HadithCollection](ttl, clock),
		singles:     cache.New[models.Hadith](ttl, clock),
	}
}

// Page returns one page of a collection. Page numbers start at 1; limit is
// clamped to [1, 100] and defaults to 20.
func (s *HadithService) Page(ctx context.Context, collection string, page, limit int) (*models.HadithPage, error) {
	if !collectionPattern.MatchString(collection) {
		return nil, ErrInvalidCollection
	}
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = defaultHadithLimit
	case limit > maxHadithLimit:
		limit = maxHadithLimit
	}
	if page-1 > math.MaxInt/limit {
		return nil, ErrInvalidPage
	}

	col, ok := s.collections.Get(collection)
	if !ok {
		var err error
		col, err = s.source.Collection(ctx, collection)
		if err != nil {
			return nil, err
		}
		s.collections.Set(collection, col)
	}

	total := len(col.Hadiths)
	start, end := total, total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
		end = min(start+limit, total)
	}

	return &models.HadithPage{
		Collection: collection,
		Name:       col.Metadata.Name,
		Page:       page,
		Limit:      limit,
		Total:      total,
		Hadiths:    col.Hadiths[start:end],
	}, nil
}

// Hadith returns a single narration.
func (s *HadithService) Hadith(ctx context.Context, collection string, number int) (*models.Hadith, error) {
	if !collectionPattern.MatchString(collection) {
		return nil, ErrInvalidCollection
	}
	if number < 1 {
		return nil, ErrInvalidHadith
	}

	key := fmt.Sprintf("%s/%d", collection, number)
	if h, ok := s.singles.Get(key); ok {
		return &h, nil
	}
	col, err := s.source.Hadith(ctx, collection, number)
	if err != nil {
		return nil, err
	}
	if len(col.Hadiths) == 0 {
		return nil, fmt.Errorf("hadith %s: %w", key, ErrNotFound)
	}
	h := col.Hadiths[0]
	s.singles.Set(key, h)
	return &h, nil
}
