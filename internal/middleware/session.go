package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/mindtrack/internal/model" // Principal reconstructed from the token
)

// SessionCookie is the name of the HTTP-only cookie carrying the session token.
const SessionCookie = "auth_token"

// SessionVerifier turns a raw session token into a principal.  The utils
// SessionCodec satisfies it; tests substitute their own.
type SessionVerifier interface {
    Verify(raw string) (model.Principal, error)
}

// Session returns an Echo middleware that reads the auth_token cookie and, when
// it verifies, stores the principal in the request context.  It never rejects
// a request: a missing or invalid token simply leaves the request anonymous
// and the authorization gate decides.  An invalid cookie is left in place;
// only logout removes it.
func Session(v SessionVerifier) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(SessionCookie)
            if err != nil || cookie.Value == "" {
                return next(c)
            }
            p, err := v.Verify(cookie.Value)
            if err != nil {
                return next(c)
            }
            c.Set(principalKey, p)
            return next(c)
        }
    }
}
