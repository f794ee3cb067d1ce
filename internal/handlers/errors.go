package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/quran-reader-api/internal/logging"
	"github.com/quran-reader-api/internal/services"
	"github.com/quran-reader-api/internal/upstream"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	msg, ok := he.Message.(string)
	if !ok {
		msg = http.StatusText(he.Code)
	}

	if he.Code >= http.StatusInternalServerError {
		logging.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", he.Code,
			"err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, ErrorResponse{Error: msg})
	}
	if err != nil {
		logging.Error("failed to write error response", "err", err)
	}
}

// serviceError maps a service or upstream failure onto an HTTP error and logs it.
func serviceError(c echo.Context, op string, err error) *echo.HTTPError {
	var (
		status int
		msg    string
		se     *upstream.StatusError
	)
	switch {
	case errors.Is(err, services.ErrQueryTooShort),
		errors.Is(err, services.ErrInvalid),
		errors.Is(err, services.ErrInvalidSurah),
		errors.Is(err, services.ErrInvalidAyah),
		errors.Is(err, services.ErrInvalidCollection),
		errors.Is(err, services.ErrInvalidHadith),
		errors.Is(err, services.ErrInvalidPage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoMatch):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrMeaningSearchDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, upstream.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "upstream service timed out"
	case upstream.IsNotFound(err):
		status, msg = http.StatusNotFound, "not found upstream"
	case errors.As(err, &se):
		status, msg = http.StatusInternalServerError, "upstream service error"
	default:
		status, msg = http.StatusInternalServerError, op+" failed"
	}

	logging.Error(op+" failed", "path", c.Request().URL.Path, "status", status, "err", err)
	return echo.NewHTTPError(status, msg).SetInternal(err)
}
