package upstream

import (
	"context"
	"fmt"

	"github.com/quran-reader-api/internal/models"
)

// HadithClient reads static hadith editions from the hadith-api CDN.
type HadithClient struct {
	jsonClient
}

// NewHadithClient creates a client rooted at baseURL.
func NewHadithClient(baseURL string, opts Options) *HadithClient {
	return &HadithClient{jsonClient: newJSONClient("hadith api", baseURL, opts)}
}

// Collection downloads a whole edition, e.g. "eng-bukhari".
func (c *HadithClient) Collection(ctx context.Context, edition string) (models.HadithCollection, error) {
	var col models.HadithCollection
	if err := c.getJSON(ctx, fmt.Sprintf("/editions/%s.json", edition), &col); err != nil {
		return models.HadithCollection{}, fmt.Errorf("get hadith collection %s: %w", edition, err)
	}
	return col, nil
}

// Hadith downloads a single narration of an edition.
func (c *HadithClient) Hadith(ctx context.Context, edition string, number int) (models.HadithCollection, error) {
	var col models.HadithCollection
	if err := c.getJSON(ctx, fmt.Sprintf("/editions/%s/%d.json", edition, number), &col); err != nil {
		return models.HadithCollection{}, fmt.Errorf("get hadith %s/%d: %w", edition, number, err)
	}
	return col, nil
}
