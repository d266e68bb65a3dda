package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// RequestLogger logs one line per request after it completes: method, path,
// status, latency, remote ip, request id and the caller.  4xx log at warn,
// 5xx at error.  Bodies and cookies are never logged.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // Let the HTTP error handler write the response so the logged
                // status matches what the client received.
                c.Error(err)
            }

            req := c.Request()
            res := c.Response()
            level := zerolog.InfoLevel
            switch {
            case res.Status >= 500:
                level = zerolog.ErrorLevel
            case res.Status >= 400:
                level = zerolog.WarnLevel
            }
            ev := log.WithLevel(level).
                Str("method", req.Method).
                Str("path", req.URL.Path).
                Int("status", res.Status).
                Dur("latency", time.Since(start)).
                Str("remote_ip", c.RealIP()).
                Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
                Str("user", userID(c))
            if err != nil {
                ev = ev.Err(err)
            }
            ev.Msg("request")
            return nil
        }
    }
}
