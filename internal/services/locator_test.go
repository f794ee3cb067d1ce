package services

import (
	"context"
	"testing"
	"time"

	"github.com/quran-reader-api/internal/matcher"
	"github.com/quran-reader-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocator(c *Corpus, clock *fakeClock) *Locator {
	return NewLocator(c, matcher.VerseScorer{}, DefaultLocatorConfig(), clock)
}

func locate(t *testing.T, l *Locator, session, text string, current int) models.LocateResult {
	t.Helper()
	res, err := l.Locate(context.Background(), session, models.LocateRequest{Text: text, CurrentSurah: current})
	require.NoError(t, err)
	return res
}

func TestLocator_ArabicIndicNumber(t *testing.T) {
	f := newFakeFetcher()
	l := newTestLocator(newTestCorpus(f), newFakeClock())

	res := locate(t, l, "", "١١٢", 0)
	assert.Equal(t, models.LocateNumber, res.Kind)
	assert.Equal(t, 112, res.SurahNumber)
	assert.Equal(t, 1, res.AyahNumber)
	assert.Zero(t, f.totalCalls())
}

func TestLocator_NumberWithAyah(t *testing.T) {
	l := newTestLocator(newTestCorpus(newFakeFetcher()), newFakeClock())

	res := locate(t, l, "", "سورة 2 آية 255", 0)
	assert.Equal(t, models.LocateNumber, res.Kind)
	assert.Equal(t, 2, res.SurahNumber)
	assert.Equal(t, 255, res.AyahNumber)
}

func TestLocator_NumberAyahPastChapterEnd(t *testing.T) {
	f := newFakeFetcher()
	l := newTestLocator(newTestCorpus(f, ikhlas), newFakeClock())

	res := locate(t, l, "", "112 9", 0)
	assert.Equal(t, models.LocateNumber, res.Kind)
	assert.Equal(t, 112, res.SurahNumber)
	assert.Equal(t, 1, res.AyahNumber)

	res = locate(t, l, "", "112 3", 0)
	assert.Equal(t, 3, res.AyahNumber)

	res = locate(t, l, "", "112 4", 0)
	assert.Equal(t, 4, res.AyahNumber)
	assert.Zero(t, f.totalCalls())
}

func TestLocator_NumberOutOfRangeIsIgnored(t *testing.T) {
	l := newTestLocator(newTestCorpus(newFakeFetcher()), newFakeClock())

	res := locate(t, l, "", "200", 0)
	assert.Equal(t, models.LocateNone, res.Kind)
}

func TestLocator_Empty(t *testing.T) {
	l := newTestLocator(newTestCorpus(newFakeFetcher()), newFakeClock())

	assert.Equal(t, models.LocateNone, locate(t, l, "", "", 112).Kind)
	assert.Equal(t, models.LocateNone, locate(t, l, "", "   ", 112).Kind)
	assert.Equal(t, models.LocateNone, locate(t, l, "", "ًٌ", 112).Kind)
}

func TestLocator_LocalTier(t *testing.T) {
	f := newFakeFetcher(ikhlas)
	l := newTestLocator(newTestCorpus(f), newFakeClock())

	res := locate(t, l, "", "الله الصمد", 112)
	assert.Equal(t, models.LocateLocal, res.Kind)
	assert.Equal(t, 112, res.SurahNumber)
	assert.Equal(t, 2, res.AyahNumber)
	assert.Equal(t, 1.0, res.Score)
	// The open chapter is fetched on demand.
	assert.Equal(t, 1, f.callCount(112))
}

func TestLocator_GlobalTierFromIndex(t *testing.T) {
	f := newFakeFetcher()
	l := newTestLocator(newTestCorpus(f, fatiha, ikhlas, nas), newFakeClock())

	res := locate(t, l, "", "قل هو الله احد", 1)
	assert.Equal(t, models.LocateGlobal, res.Kind)
	assert.Equal(t, 112, res.SurahNumber)
	assert.Equal(t, 1, res.AyahNumber)
	assert.Zero(t, f.totalCalls())
}

func TestLocator_GlobalNeedsEnoughWords(t *testing.T) {
	l := newTestLocator(newTestCorpus(newFakeFetcher(), fatiha, ikhlas), newFakeClock())

	// Exact verse text, but only two words and not in the open chapter.
	res := locate(t, l, "", "الله الصمد", 1)
	assert.Equal(t, models.LocateNone, res.Kind)
}

func TestLocator_GlobalFallbackScan(t *testing.T) {
	f := newFakeFetcher(ikhlas)
	c := newTestCorpus(f)
	l := newTestLocator(c, newFakeClock())

	res := locate(t, l, "", "قل هو الله احد", 0)
	assert.Equal(t, models.LocateGlobal, res.Kind)
	assert.Equal(t, 112, res.SurahNumber)
	assert.Equal(t, 1, res.AyahNumber)
	assert.Equal(t, 1, l.Index().Chapters())
}

func TestLocator_GlobalBelowThreshold(t *testing.T) {
	l := newTestLocator(newTestCorpus(newFakeFetcher(), fatiha, ikhlas), newFakeClock())

	res := locate(t, l, "", "الله نور السماوات والارض", 0)
	assert.Equal(t, models.LocateNone, res.Kind)
}

func TestLocator_Cooldown(t *testing.T) {
	clock := newFakeClock()
	l := newTestLocator(newTestCorpus(newFakeFetcher()), clock)

	assert.Equal(t, models.LocateNumber, locate(t, l, "s1", "112", 0).Kind)

	clock.Advance(849 * time.Millisecond)
	res := locate(t, l, "s1", "114", 0)
	assert.Equal(t, models.LocateCooldown, res.Kind)
	assert.Equal(t, 114, res.SurahNumber)

	// Another session is not affected.
	assert.Equal(t, models.LocateNumber, locate(t, l, "s2", "114", 0).Kind)

	clock.Advance(time.Millisecond)
	assert.Equal(t, models.LocateNumber, locate(t, l, "s1", "114", 0).Kind)
}

func TestLocator_CooldownIgnoresNonJumps(t *testing.T) {
	clock := newFakeClock()
	l := newTestLocator(newTestCorpus(newFakeFetcher()), clock)

	assert.Equal(t, models.LocateNone, locate(t, l, "s1", "", 0).Kind)
	assert.Equal(t, models.LocateNumber, locate(t, l, "s1", "1", 0).Kind)
}

func TestLocator_NoSessionNoCooldown(t *testing.T) {
	l := newTestLocator(newTestCorpus(newFakeFetcher()), newFakeClock())

	assert.Equal(t, models.LocateNumber, locate(t, l, "", "1", 0).Kind)
	assert.Equal(t, models.LocateNumber, locate(t, l, "", "2", 0).Kind)
}

func TestVerseIndex_Candidates(t *testing.T) {
	ix := NewVerseIndex()
	ix.Add(fatiha)
	ix.Add(ikhlas)
	ix.Add(ikhlas)
	ix.Add(nas)
	assert.Equal(t, 3, ix.Chapters())

	// 112 has six postings; 1 (الله) and 114 (قل) tie on one and sort by number.
	assert.Equal(t, []int{112, 1, 114}, ix.Candidates([]string{"قل", "هو", "الله", "احد"}, 0))
	assert.Equal(t, []int{112}, ix.Candidates([]string{"قل", "هو", "الله", "احد"}, 1))
	assert.Equal(t, []int{114}, ix.Candidates([]string{"الناس"}, 5))
	assert.Empty(t, ix.Candidates([]string{"غير_موجود"}, 5))
}
