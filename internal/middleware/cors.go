package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/quran-reader-api/internal/config"
)

// SessionHeader is the reader session header clients send and read back.
const SessionHeader = "X-Session-ID"

// CORSMiddleware returns a configured CORS middleware
func CORSMiddleware() echo.MiddlewareFunc {
	return CORS(config.GetConfig().CORSOrigins)
}

// CORS allows the reader's methods and session header from origins.
func CORS(origins []string) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, SessionHeader},
		ExposeHeaders:    []string{SessionHeader},
		AllowCredentials: true,
	})
}

// RequestLogger writes one structured line per request through logFn.
func RequestLogger(logFn func(msg string, keyvals ...interface{})) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			keyvals := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"ip", v.RemoteIP,
			}
			if v.Error != nil {
				keyvals = append(keyvals, "err", v.Error)
			}
			logFn("request", keyvals...)
			return nil
		},
	})
}
