package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/services"
)

// SearchHandler handles verse search and navigation endpoints
type SearchHandler struct {
	ayahSearch    *services.AyahSearchService
	locator       *services.Locator
	meaningSearch *services.MeaningSearchService
}

// NewSearchHandler creates a new search handler. meaningSearch may be nil.
func NewSearchHandler(ayahSearch *services.AyahSearchService, locator *services.Locator, meaningSearch *services.MeaningSearchService) *SearchHandler {
	return &SearchHandler{
		ayahSearch:    ayahSearch,
		locator:       locator,
		meaningSearch: meaningSearch,
	}
}

// SearchAyah handles POST /search-ayah - best verse for a typed or spoken phrase
func (h *SearchHandler) SearchAyah(c echo.Context) error {
	var req models.SearchAyahRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.ayahSearch.Search(c.Request().Context(), req.SearchText)
	if err != nil {
		return serviceError(c, "search ayah", err)
	}
	return c.JSON(http.StatusOK, result)
}

// Locate handles POST /locate - resolve an utterance into a navigation target
func (h *SearchHandler) Locate(c echo.Context) error {
	var req models.LocateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.CurrentSurah != 0 && !models.ValidSurah(req.CurrentSurah) {
		return echo.NewHTTPError(http.StatusBadRequest, services.ErrInvalidSurah.Error())
	}

	result, err := h.locator.Locate(c.Request().Context(), sessionID(c), req)
	if err != nil {
		return serviceError(c, "locate", err)
	}
	return c.JSON(http.StatusOK, result)
}

// SearchMeaning handles POST /search-meaning - semantic search over a translation
func (h *SearchHandler) SearchMeaning(c echo.Context) error {
	var req models.MeaningSearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query is required")
	}

	results, err := h.meaningSearch.Search(c.Request().Context(), req.Query, req.Limit)
	if err != nil {
		return serviceError(c, "meaning search", err)
	}
	return c.JSON(http.StatusOK, models.MeaningSearchResponse{
		Query:   req.Query,
		Results: results,
	})
}

// RegisterRoutes registers search routes
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/search-ayah", h.SearchAyah)
	g.POST("/locate", h.Locate)
	g.POST("/search-meaning", h.SearchMeaning)
}
