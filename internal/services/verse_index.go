package services

import (
	"sort"
	"sync"

	"github.com/quran-reader-api/internal/arabic"
	"github.com/quran-reader-api/internal/models"
)

// VerseIndex maps normalized key tokens to the verses containing them. It is
// built incrementally as chapters enter the corpus.
type VerseIndex struct {
	mu       sync.RWMutex
	postings map[string][]models.VerseRef
	indexed  map[int]struct{}
}

// NewVerseIndex creates an empty index.
func NewVerseIndex() *VerseIndex {
	return &VerseIndex{
		postings: make(map[string][]models.VerseRef),
		indexed:  make(map[int]struct{}),
	}
}

// Add indexes every verse of ch. Chapters are immutable, so a chapter
// already indexed is ignored.
func (ix *VerseIndex) Add(ch models.Chapter) {
	n := ch.Surah.Number
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.indexed[n]; ok {
		return
	}
	ix.indexed[n] = struct{}{}

	for _, v := range ch.Verses {
		ref := models.VerseRef{Surah: n, Ayah: v.NumberInSurah}
		seen := make(map[string]struct{})
		for _, tok := range arabic.KeyTokens(v.Text) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			ix.postings[tok] = append(ix.postings[tok], ref)
		}
	}
}

// Chapters returns how many chapters are indexed.
func (ix *VerseIndex) Chapters() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.indexed)
}

// Candidates ranks chapters by how many query-token postings fall in them and
// returns at most limit chapter numbers, best first.
func (ix *VerseIndex) Candidates(tokens []string, limit int) []int {
	ix.mu.RLock()
	hits := make(map[int]int)
	for _, tok := range tokens {
		for _, ref := range ix.postings[tok] {
			hits[ref.Surah]++
		}
	}
	ix.mu.RUnlock()

	chapters := make([]int, 0, len(hits))
	for n := range hits {
		chapters = append(chapters, n)
	}
	sort.Slice(chapters, func(i, j int) bool {
		if hits[chapters[i]] != hits[chapters[j]] {
			return hits[chapters[i]] > hits[chapters[j]]
		}
		return chapters[i] < chapters[j]
	})
	if limit > 0 && len(chapters) > limit {
		chapters = chapters[:limit]
	}
	return chapters
}
