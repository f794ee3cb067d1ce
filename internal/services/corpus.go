package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/models"
)

// ChapterFetcher loads one chapter of a text edition from the upstream API.
type ChapterFetcher interface {
	SurahText(ctx context.Context, n int, edition string) (models.Chapter, error)
}

// ChapterStatus is the readiness of one chapter in the corpus.
type ChapterStatus int

const (
	ChapterAbsent ChapterStatus = iota
	ChapterCached
)

func (s ChapterStatus) String() string {
	if s == ChapterCached {
		return "cached"
	}
	return "absent"
}

// Corpus is the cached verse text of every chapter, keyed by chapter number.
// Callers must never assume the whole corpus is present: check Status, or use
// Load to fetch on demand.
type Corpus struct {
	chapters *cache.Cache[models.Chapter]
	fetcher  ChapterFetcher
	edition  string

	mu        sync.RWMutex
	observers []func(models.Chapter)
}

// NewCorpus creates a corpus over chapters, fetching edition on demand.
func NewCorpus(chapters *cache.Cache[models.Chapter], fetcher ChapterFetcher, edition string) *Corpus {
	return &Corpus{
		chapters: chapters,
		fetcher:  fetcher,
		edition:  edition,
	}
}

func chapterKey(n int) string {
	return strconv.Itoa(n)
}

// OnStore registers fn to be called with every chapter stored in the corpus.
func (c *Corpus) OnStore(fn func(models.Chapter)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Status reports whether chapter n is cached and unexpired.
func (c *Corpus) Status(n int) ChapterStatus {
	if c.chapters.Has(chapterKey(n)) {
		return ChapterCached
	}
	return ChapterAbsent
}

// Chapter returns chapter n from the cache only.
func (c *Corpus) Chapter(n int) (models.Chapter, bool) {
	return c.chapters.Get(chapterKey(n))
}

// Put stores a chapter, replacing any earlier copy.
func (c *Corpus) Put(ch models.Chapter) {
	c.chapters.Set(chapterKey(ch.Surah.Number), ch)

	c.mu.RLock()
	observers := c.observers
	c.mu.RUnlock()
	for _, fn := range observers {
		fn(ch)
	}
}

// Load returns chapter n from the cache, fetching and storing it when absent.
func (c *Corpus) Load(ctx context.Context, n int) (models.Chapter, error) {
	if !models.ValidSurah(n) {
		return models.Chapter{}, fmt.Errorf("load chapter %d: out of range", n)
	}
	if ch, ok := c.Chapter(n); ok {
		return ch, nil
	}
	ch, err := c.fetcher.SurahText(ctx, n, c.edition)
	if err != nil {
		return models.Chapter{}, fmt.Errorf("load chapter %d: %w", n, err)
	}
	ch.Surah.Number = n
	c.Put(ch)
	return ch, nil
}

// ReadyCount counts chapters currently cached.
func (c *Corpus) ReadyCount() int {
	n := 0
	for i := models.FirstSurah; i <= models.LastSurah; i++ {
		if c.Status(i) == ChapterCached {
			n++
		}
	}
	return n
}

// Edition is the text edition the corpus holds.
func (c *Corpus) Edition() string {
	return c.edition
}
