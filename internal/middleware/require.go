package middleware // middleware provides shared request processing for handlers

import (
    "net/http"                    // http package defines standard HTTP status codes
    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/mindtrack/internal/model"
)

// AuthedHandlerFunc is a handler that needs an authenticated caller.  The
// principal is passed explicitly so handlers never re-derive it from the
// request, and every storage call can scope on p.UserID.
type AuthedHandlerFunc func(c echo.Context, p model.Principal) error

// RequirePrincipal is the authorization gate for resource handlers.  When
// Session attached no principal the request is answered with 401 and fn is
// not invoked, so no storage is touched.
func RequirePrincipal(fn AuthedHandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        p, ok := PrincipalFrom(c)
        if !ok {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
        }
        return fn(c, p)
    }
}
