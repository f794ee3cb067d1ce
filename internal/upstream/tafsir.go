package upstream

import (
	"context"
	"fmt"

	"github.com/quran-reader-api/internal/models"
)

type tafseerResponse struct {
	TafseerID   int    `json:"tafseer_id"`
	TafseerName string `json:"tafseer_name"`
	AyahURL     string `json:"ayah_url"`
	AyahNumber  int    `json:"ayah_number"`
	Text        string `json:"text"`
}

// TafsirClient reads verse commentary from a quran-tafseer.com compatible API.
type TafsirClient struct {
	jsonClient
}

// NewTafsirClient creates a client rooted at baseURL.
func NewTafsirClient(baseURL string, opts Options) *TafsirClient {
	return &TafsirClient{jsonClient: newJSONClient("tafsir api", baseURL, opts)}
}

// Tafsir returns commentary tafsirID for (surah, ayah).
func (c *TafsirClient) Tafsir(ctx context.Context, tafsirID, surah, ayah int) (models.Tafsir, error) {
	var resp tafseerResponse
	path := fmt.Sprintf("/tafseer/%d/%d/%d", tafsirID, surah, ayah)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return models.Tafsir{}, fmt.Errorf("get tafsir %d:%d: %w", surah, ayah, err)
	}
	return models.Tafsir{
		TafsirID:   resp.TafseerID,
		TafsirName: resp.TafseerName,
		Surah:      surah,
		Ayah:       ayah,
		Text:       resp.Text,
	}, nil
}
