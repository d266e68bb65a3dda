package router // package router defines how HTTP routes are registered for the API

import (
	"errors"   // errors unwraps echo.HTTPError values
	"net/http" // status codes

	"github.com/google/uuid"                        // request id generator
	"github.com/labstack/echo/v4"                   // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware" // stock echo middleware
	"github.com/rs/zerolog/log"                     // logging of unexpected errors

	"github.com/iliyamo/mindtrack/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/mindtrack/internal/middleware" // session, gate, rate limit and request logging
)

// Setup installs the error handler and the middleware shared by every route.
// Recover sits inside the request logger so recovered panics are logged as
// 500s with their request id.
func Setup(e *echo.Echo) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.Secure())
}

// RegisterRoutes registers routes that do not require a session.  Currently
// it exposes only the health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// API creates the /api group.  The session middleware runs on the whole group
// so every handler below it sees the principal, if any.
func API(e *echo.Echo, sessions middleware.SessionVerifier) *echo.Group {
	return e.Group("/api", middleware.Session(sessions))
}

// ErrorHandler renders every error that reaches echo as {"error": "..."}.
// Framework errors keep their status; anything else is a logged 500 with a
// generic message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = http.StatusText(code)
		if s, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
			msg = s
		}
	}
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"error": msg})
	}
	if err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}
