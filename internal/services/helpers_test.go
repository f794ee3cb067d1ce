package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/upstream"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func chapter(n int, name string, verses ...string) models.Chapter {
	ch := models.Chapter{
		Surah: models.Surah{Number: n, Name: name, EnglishName: name, NumberOfAyahs: len(verses)},
	}
	for i, text := range verses {
		ch.Verses = append(ch.Verses, models.Verse{
			Number:        n*1000 + i + 1,
			SurahNumber:   n,
			NumberInSurah: i + 1,
			Text:          text,
		})
	}
	return ch
}

var (
	fatiha = chapter(1, "Al-Faatiha",
		"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
		"الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ",
		"الرَّحْمَٰنِ الرَّحِيمِ",
		"مَالِكِ يَوْمِ الدِّينِ",
		"إِيَّاكَ نَعْبُدُ وَإِيَّاكَ نَسْتَعِينُ",
		"اهْدِنَا الصِّرَاطَ الْمُسْتَقِيمَ",
		"صِرَاطَ الَّذِينَ أَنْعَمْتَ عَلَيْهِمْ غَيْرِ الْمَغْضُوبِ عَلَيْهِمْ وَلَا الضَّالِّينَ",
	)
	ikhlas = chapter(112, "Al-Ikhlaas",
		"قُلْ هُوَ اللَّهُ أَحَدٌ",
		"اللَّهُ الصَّمَدُ",
		"لَمْ يَلِدْ وَلَمْ يُولَدْ",
		"وَلَمْ يَكُن لَّهُ كُفُوًا أَحَدٌ",
	)
	nas = chapter(114, "An-Naas",
		"قُلْ أَعُوذُ بِرَبِّ النَّاسِ",
		"مَلِكِ النَّاسِ",
		"إِلَٰهِ النَّاسِ",
	)
)

// fakeFetcher serves chapters from a map; anything else is an upstream 404.
type fakeFetcher struct {
	mu       sync.Mutex
	chapters map[int]models.Chapter
	errs     map[int]error
	calls    map[int]int
	fallback func(n int) (models.Chapter, bool)
}

func newFakeFetcher(chs ...models.Chapter) *fakeFetcher {
	f := &fakeFetcher{
		chapters: make(map[int]models.Chapter),
		errs:     make(map[int]error),
		calls:    make(map[int]int),
	}
	for _, ch := range chs {
		f.chapters[ch.Surah.Number] = ch
	}
	return f
}

func (f *fakeFetcher) SurahText(_ context.Context, n int, _ string) (models.Chapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[n]++
	if err, ok := f.errs[n]; ok {
		return models.Chapter{}, err
	}
	if ch, ok := f.chapters[n]; ok {
		return ch, nil
	}
	if f.fallback != nil {
		if ch, ok := f.fallback(n); ok {
			return ch, nil
		}
	}
	return models.Chapter{}, &upstream.StatusError{Service: "quran api", StatusCode: 404}
}

func (f *fakeFetcher) callCount(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[n]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, c := range f.calls {
		total += c
	}
	return total
}

// syntheticChapter is a one-verse stand-in for chapters the tests never read.
func syntheticChapter(n int) (models.Chapter, bool) {
	return chapter(n, fmt.Sprintf("Surah %d", n), fmt.Sprintf("نص السورة %d", n)), true
}

// fixedScorer scores every verse the same.
type fixedScorer float64

func (s fixedScorer) Score(_, _ string) float64 { return float64(s) }

func newTestCorpus(f *fakeFetcher, cached ...models.Chapter) *Corpus {
	c := NewCorpus(cache.New[models.Chapter](time.Hour, nil), f, "quran-simple")
	for _, ch := range cached {
		c.Put(ch)
	}
	return c
}
