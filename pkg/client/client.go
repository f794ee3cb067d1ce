// Package client is a small Go client for the Quran Reader API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quran-reader-api/internal/models"
)

// DefaultBaseURL matches the server's default port and prefix.
const DefaultBaseURL = "http://localhost:5000/api"

// Client talks to a running API server.
type Client struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL, including the API prefix.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithSession sends sessionID as X-Session-ID on every request.
func (c *Client) WithSession(sessionID string) *Client {
	cp := *c
	cp.sessionID = sessionID
	return &cp
}

// HTTPError is a non-2xx answer from the server.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		var apiErr struct {
			Error string `json:"error"`
		}
		bodyBytes, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			httpErr.Message = apiErr.Error
		} else {
			httpErr.Message = strings.TrimSpace(string(bodyBytes))
		}
		return httpErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// SearchAyah returns the best matching verse for text.
func (c *Client) SearchAyah(ctx context.Context, text string) (*models.MatchResult, error) {
	var out models.MatchResult
	if err := c.doRequest(ctx, http.MethodPost, "/search-ayah", models.SearchAyahRequest{SearchText: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Locate resolves an utterance into a navigation target.
func (c *Client) Locate(ctx context.Context, text string, currentSurah int) (*models.LocateResult, error) {
	var out models.LocateResult
	req := models.LocateRequest{Text: text, CurrentSurah: currentSurah}
	if err := c.doRequest(ctx, http.MethodPost, "/locate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchMeaning runs a semantic search over the translation index.
func (c *Client) SearchMeaning(ctx context.Context, query string, limit int) (*models.MeaningSearchResponse, error) {
	var out models.MeaningSearchResponse
	req := models.MeaningSearchRequest{Query: query, Limit: limit}
	if err := c.doRequest(ctx, http.MethodPost, "/search-meaning", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Surahs lists chapter metadata.
func (c *Client) Surahs(ctx context.Context) ([]models.Surah, error) {
	var out []models.Surah
	if err := c.doRequest(ctx, http.MethodGet, "/surahs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
