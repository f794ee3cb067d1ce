package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/cache"
	"github.com/quran-reader-api/internal/matcher"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/recitation"
	"github.com/quran-reader-api/internal/repository/sqlstore"
	"github.com/quran-reader-api/internal/services"
	"github.com/quran-reader-api/internal/upstream"
	"github.com/quran-reader-api/pkg/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChapter(n int, name string, verses ...string) models.Chapter {
	ch := models.Chapter{Surah: models.Surah{Number: n, Name: name, EnglishName: name, NumberOfAyahs: len(verses)}}
	for i, text := range verses {
		ch.Verses = append(ch.Verses, models.Verse{SurahNumber: n, NumberInSurah: i + 1, Text: text})
	}
	return ch
}

var (
	fatiha = testChapter(1, "Al-Faatiha",
		"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
		"الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ",
		"الرَّحْمَٰنِ الرَّحِيمِ",
	)
	ikhlas = testChapter(112, "Al-Ikhlaas",
		"قُلْ هُوَ اللَّهُ أَحَدٌ",
		"اللَّهُ الصَّمَدُ",
		"لَمْ يَلِدْ وَلَمْ يُولَدْ",
		"وَلَمْ يَكُن لَّهُ كُفُوًا أَحَدٌ",
	)
)

// fakeUpstream stands in for every third-party API. err, when set, is
// returned from all passthrough calls.
type fakeUpstream struct {
	err error
}

func (f *fakeUpstream) SurahText(_ context.Context, n int, _ string) (models.Chapter, error) {
	return models.Chapter{}, &upstream.StatusError{Service: "quran api", StatusCode: http.StatusNotFound}
}

func (f *fakeUpstream) ListSurahs(context.Context) ([]models.Surah, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Surah{fatiha.Surah, ikhlas.Surah}, nil
}

func (f *fakeUpstream) SurahEditions(_ context.Context, n int, editions []string) ([]models.SurahEdition, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.SurahEdition, len(editions))
	for i, e := range editions {
		out[i] = models.SurahEdition{Surah: models.Surah{Number: n}, Edition: models.Edition{Identifier: e}}
	}
	return out, nil
}

func (f *fakeUpstream) Tafsir(_ context.Context, tafsirID, surah, ayah int) (models.Tafsir, error) {
	if f.err != nil {
		return models.Tafsir{}, f.err
	}
	return models.Tafsir{TafsirID: tafsirID, TafsirName: "التفسير الميسر", Surah: surah, Ayah: ayah, Text: "تفسير"}, nil
}

func (f *fakeUpstream) Collection(_ context.Context, edition string) (models.HadithCollection, error) {
	if f.err != nil {
		return models.HadithCollection{}, f.err
	}
	var col models.HadithCollection
	col.Metadata.Name = edition
	for i := 1; i <= 30; i++ {
		col.Hadiths = append(col.Hadiths, models.Hadith{HadithNumber: float64(i)})
	}
	return col, nil
}

func (f *fakeUpstream) Hadith(_ context.Context, edition string, number int) (models.HadithCollection, error) {
	if f.err != nil {
		return models.HadithCollection{}, f.err
	}
	var col models.HadithCollection
	col.Hadiths = []models.Hadith{{HadithNumber: float64(number), Text: "narration"}}
	return col, nil
}

type testAPI struct {
	e      *echo.Echo
	up     *fakeUpstream
	corpus *services.Corpus
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	up := &fakeUpstream{}

	corpus := services.NewCorpus(cache.New[models.Chapter](time.Hour, nil), up, "quran-simple")
	corpus.Put(fatiha)
	corpus.Put(ikhlas)
	locator := services.NewLocator(corpus, matcher.VerseScorer{}, services.DefaultLocatorConfig(), nil)

	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, sqlstore.Migrate(ctx, conn))
	library := services.NewLibraryService(services.LibraryRepositories{
		Users:       sqlstore.NewUserRepository(conn),
		Bookmarks:   sqlstore.NewBookmarkRepository(conn),
		Positions:   sqlstore.NewReadingPositionRepository(conn),
		Preferences: sqlstore.NewPreferencesRepository(conn),
		Books:       sqlstore.NewBookRepository(conn),
	}, models.Preferences{Reciter: "ar.alafasy", TranslationEdition: "en.sahih", Theme: "light", FontSize: 24}, nil)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	api := e.Group("/api")
	NewHealthHandler(conn, corpus, locator).RegisterRoutes(api)
	NewSearchHandler(services.NewAyahSearchService(corpus, matcher.VerseScorer{}, 0.4), locator, nil).RegisterRoutes(api)
	NewQuranHandler(services.NewQuranService(up, up, []string{"quran-uthmani", "en.sahih"}, 1, time.Hour, nil)).RegisterRoutes(api)
	NewHadithHandler(services.NewHadithService(up, time.Hour, nil)).RegisterRoutes(api)
	NewLibraryHandler(library).RegisterRoutes(api)
	NewReciteHandler(locator, corpus, recitation.DefaultConfig(), []string{"*"}).RegisterRoutes(api)

	return &testAPI{e: e, up: up, corpus: corpus}
}

func (a *testAPI) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Error
}

func TestSearchAyah(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/search-ayah", `{"searchText":"بسم الله الرحمن الرحيم"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[models.MatchResult](t, rec)
	assert.Equal(t, 1, got.SurahNumber)
	assert.Equal(t, 1, got.AyahNumber)
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, "Al-Faatiha", got.SurahEnglishName)
}

func TestSearchAyah_Errors(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/search-ayah", `{"searchText":" ا "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errorMessage(t, rec))

	rec = api.do(http.MethodPost, "/api/search-ayah", `{"searchText":"xyz qrs"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, services.ErrNoMatch.Error(), errorMessage(t, rec))

	rec = api.do(http.MethodPost, "/api/search-ayah", `{"searchText":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/locate", `{"text":"١١٢"}`, SessionHeader, "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.LocateResult](t, rec)
	assert.Equal(t, models.LocateNumber, got.Kind)
	assert.Equal(t, 112, got.SurahNumber)

	rec = api.do(http.MethodPost, "/api/locate", `{"text":"1"}`, SessionHeader, "s1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LocateCooldown, decode[models.LocateResult](t, rec).Kind)

	rec = api.do(http.MethodPost, "/api/locate", `{"text":"الله الصمد","currentSurah":112}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[models.LocateResult](t, rec)
	assert.Equal(t, models.LocateLocal, got.Kind)
	assert.Equal(t, 2, got.AyahNumber)

	rec = api.do(http.MethodPost, "/api/locate", `{"text":"x","currentSurah":200}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchMeaning_Disabled(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/search-meaning", `{"query":"mercy"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = api.do(http.MethodPost, "/api/search-meaning", `{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSurahs(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/surahs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Surah](t, rec), 2)

	rec = api.do(http.MethodGet, "/api/surahs/112?editions=quran-uthmani,en.sahih,ar.alafasy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	eds := decode[[]models.SurahEdition](t, rec)
	require.Len(t, eds, 3)
	assert.Equal(t, "ar.alafasy", eds[2].Edition.Identifier)

	for _, path := range []string{"/api/surahs/0", "/api/surahs/115", "/api/surahs/abc"} {
		rec = api.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestUpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("get surah: %w", upstream.ErrTimeout), http.StatusGatewayTimeout},
		{&upstream.StatusError{Service: "quran api", StatusCode: http.StatusNotFound}, http.StatusNotFound},
		{&upstream.StatusError{Service: "quran api", StatusCode: http.StatusBadGateway}, http.StatusInternalServerError},
		{fmt.Errorf("decode: unexpected EOF"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		api := newTestAPI(t)
		api.up.err = tc.err

		rec := api.do(http.MethodGet, "/api/surahs/2", "")
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
		assert.NotEmpty(t, errorMessage(t, rec))
	}
}

func TestTafsir(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/tafsir/2/255", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Tafsir](t, rec)
	assert.Equal(t, 1, got.TafsirID)
	assert.Equal(t, 255, got.Ayah)

	rec = api.do(http.MethodGet, "/api/tafsir/2/255?tafsir=4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[models.Tafsir](t, rec).TafsirID)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/tafsir/2/0", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/tafsir/2/255?tafsir=x", "").Code)
}

func TestHadith(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/hadith/eng-bukhari?page=2&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[models.HadithPage](t, rec)
	assert.Equal(t, 30, page.Total)
	require.Len(t, page.Hadiths, 10)
	assert.Equal(t, 11.0, page.Hadiths[0].HadithNumber)

	rec = api.do(http.MethodGet, "/api/hadith/eng-bukhari/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7.0, decode[models.Hadith](t, rec).HadithNumber)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/hadith/eng-bukhari?page=100000000000000000", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/hadith/bukhari", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/hadith/eng-bukhari/x", "").Code)
}

func TestLibrary_SessionRequired(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/bookmarks", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, errorMessage(t, rec), SessionHeader)
}

func TestLibrary_Flow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[models.SessionResponse](t, rec)
	require.NotEmpty(t, session.SessionID)
	assert.Equal(t, session.SessionID, rec.Header().Get(SessionHeader))
	sid := []string{SessionHeader, session.SessionID}

	rec = api.do(http.MethodPost, "/api/bookmarks", `{"surahNumber":2,"ayahNumber":255,"note":"Kursi"}`, sid...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bm := decode[models.Bookmark](t, rec)
	assert.Equal(t, session.User.ID, bm.UserID)

	rec = api.do(http.MethodPost, "/api/bookmarks", `{"surahNumber":115,"ayahNumber":1}`, sid...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/bookmarks", "", sid...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Bookmark](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/bookmarks/"+bm.ID, "", sid...).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/bookmarks/"+bm.ID, "", sid...).Code)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/reading-position", "", sid...).Code)
	rec = api.do(http.MethodPut, "/api/reading-position", `{"surahNumber":18,"ayahNumber":10}`, sid...)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodGet, "/api/reading-position", "", sid...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 18, decode[models.ReadingPosition](t, rec).SurahNumber)

	rec = api.do(http.MethodGet, "/api/preferences", "", sid...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "light", decode[models.Preferences](t, rec).Theme)
	rec = api.do(http.MethodPut, "/api/preferences", `{"theme":"sepia"}`, sid...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sepia", decode[models.Preferences](t, rec).Theme)

	rec = api.do(http.MethodPost, "/api/books", `{"title":"Sahih Muslim","fileName":"muslim.pdf","fileSize":1024}`, sid...)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = api.do(http.MethodGet, "/api/books", "", sid...)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Book](t, rec), 1)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/health/database", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sqlite", decode[DatabaseHealthResponse](t, rec).Database)

	rec = api.do(http.MethodGet, "/api/health/corpus", "")
	require.Equal(t, http.StatusOK, rec.Code)
	corpus := decode[CorpusHealthResponse](t, rec)
	assert.Equal(t, "warming", corpus.Status)
	assert.Equal(t, 2, corpus.ChaptersCached)
	assert.Equal(t, 2, corpus.ChaptersIndexed)
	assert.Equal(t, 114, corpus.ChaptersTotal)
}

func TestHealth_NoDatabase(t *testing.T) {
	e := echo.New()
	corpus := services.NewCorpus(cache.New[models.Chapter](time.Hour, nil), &fakeUpstream{}, "quran-simple")
	NewHealthHandler(nil, corpus, nil).RegisterRoutes(e.Group("/api"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/database", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", errorMessage(t, rec))
}
