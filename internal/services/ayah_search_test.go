package services

import (
	"context"
	"testing"

	"github.com/quran-reader-api/internal/matcher"
	"github.com/quran-reader-api/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAyahSearch_ExactOpeningVerse(t *testing.T) {
	c := newTestCorpus(newFakeFetcher(), fatiha, ikhlas, nas)
	svc := NewAyahSearchService(c, matcher.VerseScorer{}, 0.4)

	got, err := svc.Search(context.Background(), "بِسْمِ ٱللَّهِ ٱلرَّحْمَٰنِ ٱلرَّحِيمِ")
	require.NoError(t, err)
	assert.Equal(t, 1, got.SurahNumber)
	assert.Equal(t, 1, got.AyahNumber)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, "Al-Faatiha", got.SurahName)
	assert.Equal(t, fatiha.Verses[0].Text, got.Text)
}

func TestAyahSearch_DiacriticsInQuery(t *testing.T) {
	c := newTestCorpus(newFakeFetcher(), fatiha, ikhlas)
	svc := NewAyahSearchService(c, matcher.VerseScorer{}, 0.4)

	got, err := svc.Search(context.Background(), "اللَّهُ الصَّمَدُ")
	require.NoError(t, err)
	assert.Equal(t, 112, got.SurahNumber)
	assert.Equal(t, 2, got.AyahNumber)
}

func TestAyahSearch_QueryTooShort(t *testing.T) {
	f := newFakeFetcher()
	c := newTestCorpus(f, fatiha)
	svc := NewAyahSearchService(c, matcher.VerseScorer{}, 0.4)

	for _, q := range []string{"", "   ", "ا", " ب ", "ًٌ"} {
		_, err := svc.Search(context.Background(), q)
		assert.ErrorIs(t, err, ErrQueryTooShort, "query %q", q)
	}
	assert.Zero(t, f.totalCalls())
}

func TestAyahSearch_ThresholdIsStrict(t *testing.T) {
	c := newTestCorpus(newFakeFetcher(), fatiha)

	got, err := NewAyahSearchService(c, fixedScorer(0.41), 0.4).Search(context.Background(), "نص")
	require.NoError(t, err)
	assert.Equal(t, 0.41, got.Score)

	_, err = NewAyahSearchService(c, fixedScorer(0.4), 0.4).Search(context.Background(), "نص")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = NewAyahSearchService(c, fixedScorer(0.39), 0.4).Search(context.Background(), "نص")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestAyahSearch_TieKeepsFirst(t *testing.T) {
	c := newTestCorpus(newFakeFetcher(), nas, ikhlas, fatiha)

	got, err := NewAyahSearchService(c, fixedScorer(0.7), 0.4).Search(context.Background(), "نص")
	require.NoError(t, err)
	assert.Equal(t, 1, got.SurahNumber)
	assert.Equal(t, 1, got.AyahNumber)
}

func TestAyahSearch_OnlyCachedChapters(t *testing.T) {
	f := newFakeFetcher(fatiha)
	c := newTestCorpus(f, ikhlas)
	svc := NewAyahSearchService(c, matcher.VerseScorer{}, 0.4)

	_, err := svc.Search(context.Background(), "بسم الله الرحمن الرحيم")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Zero(t, f.totalCalls())
}

func TestAyahSearch_EmptyCorpus(t *testing.T) {
	svc := NewAyahSearchService(newTestCorpus(newFakeFetcher()), matcher.VerseScorer{}, 0.4)
	_, err := svc.Search(context.Background(), "الحمد لله")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestValidateQuery(t *testing.T) {
	got, err := ValidateQuery("  قُلْ هُوَ  ")
	require.NoError(t, err)
	assert.Equal(t, "قل هو", got)
}

func TestAyahSearch_AfterPartialPreload(t *testing.T) {
	f := newFakeFetcher(ikhlas)
	f.fallback = syntheticChapter
	f.errs[57] = &upstream.StatusError{Service: "quran api", StatusCode: 500}
	c := newTestCorpus(f)

	report := NewPreloader(c, 0).Run(context.Background())
	require.Equal(t, []int{57}, report.Failed)

	got, err := NewAyahSearchService(c, matcher.VerseScorer{}, 0.4).Search(context.Background(), "اللَّهُ الصَّمَدُ")
	require.NoError(t, err)
	assert.Equal(t, 112, got.SurahNumber)
	assert.Equal(t, 2, got.AyahNumber)
	assert.Equal(t, 1.0, got.Score)
}
