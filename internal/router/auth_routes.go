package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mindtrack/internal/handler"
	"github.com/iliyamo/mindtrack/internal/middleware"
)

// RegisterAuth registers the /api/auth routes on the api group.  Register and
// login sit behind limiter; me and update require a session; logout works
// with or without one.
func RegisterAuth(api *echo.Group, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/me", middleware.RequirePrincipal(a.Me))
	// The client logs out by POSTing to the same path it reads the session from.
	g.POST("/me", a.Logout)
	g.PUT("/update", middleware.RequirePrincipal(a.UpdateProfile))
}
