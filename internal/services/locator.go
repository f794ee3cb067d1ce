package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/quran-reader-api/internal/arabic"
	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/logging"
	"github.com/quran-reader-api/internal/matcher"
	"github.com/quran-reader-api/internal/models"
)

// LocatorConfig holds the acceptance rules of the two-tier locator.
type LocatorConfig struct {
	LocalThreshold  float64
	GlobalThreshold float64
	Cooldown        time.Duration
	// MinGlobalWords is the shortest query that may trigger a global lookup.
	MinGlobalWords int
	// MaxCandidates caps the chapters taken from the index.
	MaxCandidates int
}

// DefaultLocatorConfig mirrors the web client.
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		LocalThreshold:  0.55,
		GlobalThreshold: 0.62,
		Cooldown:        850 * time.Millisecond,
		MinGlobalWords:  3,
		MaxCandidates:   25,
	}
}

// maxTrackedSessions bounds the cooldown table before stale entries are pruned.
const maxTrackedSessions = 1024

// Locator turns a spoken or typed utterance into a navigation target: a
// spoken chapter number, a verse of the open chapter, or a verse anywhere.
type Locator struct {
	corpus *Corpus
	scorer matcher.Scorer
	index  *VerseIndex
	cfg    LocatorConfig
	clock  cache.Clock

	mu       sync.Mutex
	lastJump map[string]time.Time
}

// NewLocator creates a locator and indexes the corpus as it fills.
func NewLocator(corpus *Corpus, scorer matcher.Scorer, cfg LocatorConfig, clock cache.Clock) *Locator {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	index := NewVerseIndex()
	for n := models.FirstSurah; n <= models.LastSurah; n++ {
		if ch, ok := corpus.Chapter(n); ok {
			index.Add(ch)
		}
	}
	corpus.OnStore(index.Add)

	return &Locator{
		corpus:   corpus,
		scorer:   scorer,
		index:    index,
		cfg:      cfg,
		clock:    clock,
		lastJump: make(map[string]time.Time),
	}
}

// Index exposes the inverted index, mostly for health reporting.
func (l *Locator) Index() *VerseIndex {
	return l.index
}

// Locate resolves req for sessionID. Navigating results inside the cooldown
// window of the previous jump come back as LocateCooldown. An empty session
// id disables the cooldown.
func (l *Locator) Locate(ctx context.Context, sessionID string, req models.LocateRequest) (models.LocateResult, error) {
	result, err := l.resolve(ctx, req)
	if err != nil || !result.Navigates() {
		return result, err
	}
	if !l.allowJump(sessionID) {
		result.Kind = models.LocateCooldown
	}
	return result, nil
}

func (l *Locator) resolve(ctx context.Context, req models.LocateRequest) (models.LocateResult, error) {
	text := strings.TrimSpace(req.Text)
	none := models.LocateResult{Kind: models.LocateNone}
	if text == "" {
		return none, nil
	}

	if res, ok := numberShortcut(text); ok {
		// A verse number past the end of a cached chapter falls back to
		// its first verse. Uncached chapters are not fetched here.
		if ch, cached := l.corpus.Chapter(res.SurahNumber); cached && res.AyahNumber > ayahCount(ch) {
			res.AyahNumber = 1
		}
		return res, nil
	}

	normalized := arabic.Normalize(text)
	if normalized == "" {
		return none, nil
	}

	if models.ValidSurah(req.CurrentSurah) {
		if res, ok := l.local(ctx, req.CurrentSurah, normalized); ok {
			return res, nil
		}
	}

	if len(strings.Fields(normalized)) < l.cfg.MinGlobalWords {
		return none, nil
	}
	return l.global(ctx, normalized)
}

// numberShortcut navigates straight to a spoken chapter number, and to a
// following verse number when one is given.
func numberShortcut(text string) (models.LocateResult, bool) {
	numbers := arabic.ExtractNumbers(text)
	if len(numbers) == 0 || !models.ValidSurah(numbers[0]) {
		return models.LocateResult{}, false
	}
	ayah := 1
	if len(numbers) > 1 && numbers[1] >= 1 {
		ayah = numbers[1]
	}
	return models.LocateResult{
		Kind:        models.LocateNumber,
		SurahNumber: numbers[0],
		AyahNumber:  ayah,
		Score:       1,
	}, true
}

func ayahCount(ch models.Chapter) int {
	if ch.Surah.NumberOfAyahs > 0 {
		return ch.Surah.NumberOfAyahs
	}
	return len(ch.Verses)
}

func (l *Locator) local(ctx context.Context, surah int, normalized string) (models.LocateResult, bool) {
	ch, err := l.corpus.Load(ctx, surah)
	if err != nil {
		logging.Warn("local locate skipped", "surah", surah, "err", err)
		return models.LocateResult{}, false
	}
	best, ok := l.bestIn(ch, normalized)
	if !ok || best.Score < l.cfg.LocalThreshold {
		return models.LocateResult{}, false
	}
	best.Kind = models.LocateLocal
	return best, true
}

func (l *Locator) global(ctx context.Context, normalized string) (models.LocateResult, error) {
	none := models.LocateResult{Kind: models.LocateNone}

	candidates := l.index.Candidates(arabic.KeyTokens(normalized), l.cfg.MaxCandidates)
	if len(candidates) > 0 {
		var best models.LocateResult
		for _, n := range candidates {
			ch, err := l.corpus.Load(ctx, n)
			if err != nil {
				continue
			}
			if res, ok := l.bestIn(ch, normalized); ok && res.Score > best.Score {
				best = res
			}
		}
		if best.Score >= l.cfg.GlobalThreshold {
			best.Kind = models.LocateGlobal
			return best, nil
		}
		return none, nil
	}

	for n := models.FirstSurah; n <= models.LastSurah; n++ {
		if err := ctx.Err(); err != nil {
			return none, err
		}
		ch, err := l.corpus.Load(ctx, n)
		if err != nil {
			logging.Debug("global locate skipped chapter", "surah", n, "err", err)
			continue
		}
		for _, v := range ch.Verses {
			score := l.scorer.Score(v.Text, normalized)
			if score >= l.cfg.GlobalThreshold {
				return l.result(models.LocateGlobal, ch, v, score), nil
			}
		}
	}
	return none, nil
}

func (l *Locator) bestIn(ch models.Chapter, normalized string) (models.LocateResult, bool) {
	var (
		best  models.LocateResult
		found bool
	)
	for _, v := range ch.Verses {
		score := l.scorer.Score(v.Text, normalized)
		if !found || score > best.Score {
			best = l.result(models.LocateNone, ch, v, score)
			found = true
		}
	}
	return best, found
}

func (l *Locator) result(kind models.LocateKind, ch models.Chapter, v models.Verse, score float64) models.LocateResult {
	return models.LocateResult{
		Kind:        kind,
		SurahNumber: ch.Surah.Number,
		AyahNumber:  v.NumberInSurah,
		Text:        v.Text,
		Score:       score,
	}
}

func (l *Locator) allowJump(sessionID string) bool {
	if sessionID == "" || l.cfg.Cooldown <= 0 {
		return true
	}
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.lastJump[sessionID]; ok && now.Sub(last) < l.cfg.Cooldown {
		return false
	}
	if len(l.lastJump) >= maxTrackedSessions {
		for id, t := range l.lastJump {
			if now.Sub(t) >= l.cfg.Cooldown {
				delete(l.lastJump, id)
			}
		}
	}
	l.lastJump[sessionID] = now
	return true
}
