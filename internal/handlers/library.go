package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/middleware"
	"github.com/quran-reader-api/internal/models"
	"github.com/quran-reader-api/internal/services"
)

// SessionHeader carries the anonymous reader session id.
const SessionHeader = middleware.SessionHeader

const userContextKey = "user"

func sessionID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(SessionHeader))
}

func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(userContextKey).(*models.User)
	return u
}

// LibraryHandler serves per-reader data: session, bookmarks, reading position,
// preferences and uploaded books
type LibraryHandler struct {
	library *services.LibraryService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// RequireSession resolves the X-Session-ID header to a user.
func (h *LibraryHandler) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sid := sessionID(c)
		if sid == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing "+SessionHeader+" header")
		}
		user, err := h.library.EnsureUser(c.Request().Context(), sid)
		if err != nil {
			return serviceError(c, "resolve session", err)
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// Session handles POST /session - get or create the reader for a session id
func (h *LibraryHandler) Session(c echo.Context) error {
	user, err := h.library.EnsureUser(c.Request().Context(), sessionID(c))
	if err != nil {
		return serviceError(c, "create session", err)
	}
	c.Response().Header().Set(SessionHeader, user.SessionID)
	return c.JSON(http.StatusOK, models.SessionResponse{
		SessionID: user.SessionID,
		User:      *user,
	})
}

// ListBookmarks handles GET /bookmarks
func (h *LibraryHandler) ListBookmarks(c echo.Context) error {
	bookmarks, err := h.library.Bookmarks(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return serviceError(c, "list bookmarks", err)
	}
	return c.JSON(http.StatusOK, bookmarks)
}

// CreateBookmark handles POST /bookmarks
func (h *LibraryHandler) CreateBookmark(c echo.Context) error {
	var req models.CreateBookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	b, err := h.library.AddBookmark(c.Request().Context(), currentUser(c).ID, req)
	if err != nil {
		return serviceError(c, "create bookmark", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// DeleteBookmark handles DELETE /bookmarks/:id
func (h *LibraryHandler) DeleteBookmark(c echo.Context) error {
	if err := h.library.RemoveBookmark(c.Request().Context(), currentUser(c).ID, c.Param("id")); err != nil {
		return serviceError(c, "delete bookmark", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetReadingPosition handles GET /reading-position
func (h *LibraryHandler) GetReadingPosition(c echo.Context) error {
	pos, err := h.library.ReadingPosition(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return serviceError(c, "get reading position", err)
	}
	return c.JSON(http.StatusOK, pos)
}

// PutReadingPosition handles PUT /reading-position
func (h *LibraryHandler) PutReadingPosition(c echo.Context) error {
	var req models.ReadingPositionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	pos, err := h.library.SaveReadingPosition(c.Request().Context(), currentUser(c).ID, req)
	if err != nil {
		return serviceError(c, "save reading position", err)
	}
	return c.JSON(http.StatusOK, pos)
}

// GetPreferences handles GET /preferences
func (h *LibraryHandler) GetPreferences(c echo.Context) error {
	prefs, err := h.library.Preferences(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return serviceError(c, "get preferences", err)
	}
	return c.JSON(http.StatusOK, prefs)
}

// PutPreferences handles PUT /preferences
func (h *LibraryHandler) PutPreferences(c echo.Context) error {
	var req models.PreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	prefs, err := h.library.SavePreferences(c.Request().Context(), currentUser(c).ID, req)
	if err != nil {
		return serviceError(c, "save preferences", err)
	}
	return c.JSON(http.StatusOK, prefs)
}

// ListBooks handles GET /books
func (h *LibraryHandler) ListBooks(c echo.Context) error {
	books, err := h.library.Books(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return serviceError(c, "list books", err)
	}
	return c.JSON(http.StatusOK, books)
}

// CreateBook handles POST /books
func (h *LibraryHandler) CreateBook(c echo.Context) error {
	var req models.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	b, err := h.library.AddBook(c.Request().Context(), currentUser(c).ID, req)
	if err != nil {
		return serviceError(c, "create book", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// RegisterRoutes registers library routes
func (h *LibraryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/session", h.Session)

	auth := h.RequireSession
	g.GET("/bookmarks", h.ListBookmarks, auth)
	g.POST("/bookmarks", h.CreateBookmark, auth)
	g.DELETE("/bookmarks/:id", h.DeleteBookmark, auth)
	g.GET("/reading-position", h.GetReadingPosition, auth)
	g.PUT("/reading-position", h.PutReadingPosition, auth)
	g.GET("/preferences", h.GetPreferences, auth)
	g.PUT("/preferences", h.PutPreferences, auth)
	g.GET("/books", h.ListBooks, auth)
	g.POST("/books", h.CreateBook, auth)
}
