package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quran-reader-api/internal/models"
)

// envelope wraps every alquran.cloud response.
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// QuranClient reads chapters and editions from an alquran.cloud compatible API.
type QuranClient struct {
	jsonClient
}

// NewQuranClient creates a client rooted at baseURL (e.g. https://api.alquran.cloud/v1).
func NewQuranClient(baseURL string, opts Options) *QuranClient {
	return &QuranClient{jsonClient: newJSONClient("quran api", baseURL, opts)}
}

func (c *QuranClient) data(ctx context.Context, path string, out any) error {
	var env envelope
	if err := c.getJSON(ctx, path, &env); err != nil {
		return err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("quran api %s: empty data (%s)", path, env.Status)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode quran api data: %w", err)
	}
	return nil
}

// ListSurahs returns metadata for all 114 chapters.
func (c *QuranClient) ListSurahs(ctx context.Context) ([]models.Surah, error) {
	var surahs []models.Surah
	if err := c.data(ctx, "/surah", &surahs); err != nil {
		return nil, fmt.Errorf("list surahs: %w", err)
	}
	return surahs, nil
}

// SurahEditions returns chapter n rendered in each of the given editions.
func (c *QuranClient) SurahEditions(ctx context.Context, n int, editions []string) ([]models.SurahEdition, error) {
	path := fmt.Sprintf("/surah/%d/editions/%s", n, strings.Join(editions, ","))
	var out []models.SurahEdition
	if err := c.data(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("get surah %d editions: %w", n, err)
	}
	return out, nil
}

// SurahText fetches a single text edition of chapter n and keeps only what
// the corpus needs.
func (c *QuranClient) SurahText(ctx context.Context, n int, edition string) (models.Chapter, error) {
	var se models.SurahEdition
	if err := c.data(ctx, fmt.Sprintf("/surah/%d/%s", n, edition), &se); err != nil {
		return models.Chapter{}, fmt.Errorf("get surah %d text: %w", n, err)
	}

	ch := models.Chapter{
		Surah:  se.Surah,
		Verses: make([]models.Verse, 0, len(se.Ayahs)),
	}
	if ch.Surah.Number == 0 {
		ch.Surah.Number = n
	}
	for _, a := range se.Ayahs {
		ch.Verses = append(ch.Verses, models.Verse{
			Number:        a.Number,
			SurahNumber:   n,
			NumberInSurah: a.NumberInSurah,
			Text:          a.Text,
		})
	}
	return ch, nil
}
