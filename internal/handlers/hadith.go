package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/services"
)

// HadithHandler serves hadith collections
type HadithHandler struct {
	hadith *services.HadithService
}

// NewHadithHandler creates a new hadith handler
func NewHadithHandler(hadith *services.HadithService) *HadithHandler {
	return &HadithHandler{hadith: hadith}
}

// Collection handles GET /hadith/:collection?page=&limit=
func (h *HadithHandler) Collection(c echo.Context) error {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		return err
	}

	out, err := h.hadith.Page(c.Request().Context(), c.Param("collection"), page, limit)
	if err != nil {
		return serviceError(c, "get hadith collection", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Hadith handles GET /hadith/:collection/:number
func (h *HadithHandler) Hadith(c echo.Context) error {
	n, err := intParam(c, "number")
	if err != nil {
		return err
	}

	out, err := h.hadith.Hadith(c.Request().Context(), c.Param("collection"), n)
	if err != nil {
		return serviceError(c, "get hadith", err)
	}
	return c.JSON(http.StatusOK, out)
}

// RegisterRoutes registers hadith routes
func (h *HadithHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/hadith/:collection", h.Collection)
	g.GET("/hadith/:collection/:number", h.Hadith)
}
