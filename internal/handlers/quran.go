package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/services"
)

// QuranHandler serves chapter text, translations, audio and tafsir
type QuranHandler struct {
	quran *services.QuranService
}

// NewQuranHandler creates a new Quran handler
func NewQuranHandler(quran *services.QuranService) *QuranHandler {
	return &QuranHandler{quran: quran}
}

func intParam(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return n, nil
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return n, nil
}

// ListSurahs handles GET /surahs
func (h *QuranHandler) ListSurahs(c echo.Context) error {
	surahs, err := h.quran.ListSurahs(c.Request().Context())
	if err != nil {
		return serviceError(c, "list surahs", err)
	}
	return c.JSON(http.StatusOK, surahs)
}

// Surah handles GET /surahs/:number?editions=a,b,c
func (h *QuranHandler) Surah(c echo.Context) error {
	n, err := intParam(c, "number")
	if err != nil {
		return err
	}

	var editions []string
	if raw := c.QueryParam("editions"); raw != "" {
		editions = strings.Split(raw, ",")
	}

	out, err := h.quran.Surah(c.Request().Context(), n, editions)
	if err != nil {
		return serviceError(c, "get surah", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Tafsir handles GET /tafsir/:surah/:ayah?tafsir=id
func (h *QuranHandler) Tafsir(c echo.Context) error {
	surah, err := intParam(c, "surah")
	if err != nil {
		return err
	}
	ayah, err := intParam(c, "ayah")
	if err != nil {
		return err
	}
	tafsirID, err := intQuery(c, "tafsir", 0)
	if err != nil {
		return err
	}

	t, err := h.quran.Tafsir(c.Request().Context(), tafsirID, surah, ayah)
	if err != nil {
		return serviceError(c, "get tafsir", err)
	}
	return c.JSON(http.StatusOK, t)
}

// RegisterRoutes registers Quran routes
func (h *QuranHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/surahs", h.ListSurahs)
	g.GET("/surahs/:number", h.Surah)
	g.GET("/tafsir/:surah/:ayah", h.Tafsir)
}
