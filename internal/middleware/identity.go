package middleware

// identity.go holds the context key for the authenticated principal and the
// accessors shared by the gate, the rate limiter and the request logger.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/mindtrack/internal/model"
)

const principalKey = "principal"

// PrincipalFrom returns the principal attached by Session, if any.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
    p, ok := c.Get(principalKey).(model.Principal)
    if !ok || p.UserID == 0 {
        return model.Principal{}, false
    }
    return p, true
}

// userID renders the caller for rate-limit keys and logs.  Anonymous callers
// are reported as "anon".
func userID(c echo.Context) string {
    if p, ok := PrincipalFrom(c); ok {
        return strconv.FormatUint(p.UserID, 10)
    }
    return "anon"
}
