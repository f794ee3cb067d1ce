package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db      *sqlx.DB
	corpus  *services.Corpus
	locator *services.Locator
}

// NewHealthHandler creates a new health handler. db may be nil when storage
// is disabled.
func NewHealthHandler(db *sqlx.DB, corpus *services.Corpus, locator *services.Locator) *HealthHandler {
	return &HealthHandler{db: db, corpus: corpus, locator: locator}
}

// HealthResponse is the response for basic health check
type HealthResponse struct {
	Status string `json:"status"`
}

// DatabaseHealthResponse is the response for database health check
type DatabaseHealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// CorpusHealthResponse reports how much of the corpus is ready
type CorpusHealthResponse struct {
	Status          string `json:"status"`
	Edition         string `json:"edition"`
	ChaptersCached  int    `json:"chaptersCached"`
	ChaptersTotal   int    `json:"chaptersTotal"`
	ChaptersIndexed int    `json:"chaptersIndexed"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// DatabaseHealth handles GET /health/database
func (h *HealthHandler) DatabaseHealth(c echo.Context) error {
	if h.db == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_configured",
			"error":  "database is not configured",
		})
	}

	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, DatabaseHealthResponse{
		Status:   "connected",
		Database: h.db.DriverName(),
	})
}

// CorpusHealth handles GET /health/corpus
func (h *HealthHandler) CorpusHealth(c echo.Context) error {
	cached := h.corpus.ReadyCount()
	status := "warming"
	if cached == models.LastSurah {
		status = "ready"
	}

	resp := CorpusHealthResponse{
		Status:         status,
		Edition:        h.corpus.Edition(),
		ChaptersCached: cached,
		ChaptersTotal:  models.LastSurah,
	}
	if h.locator != nil {
		resp.ChaptersIndexed = h.locator.Index().Chapters()
	}
	return c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/health", h.Health)
	g.GET("/health/database", h.DatabaseHealth)
	g.GET("/health/corpus", h.CorpusHealth)
}
