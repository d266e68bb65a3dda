package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mindtrack/internal/handler"
	"github.com/iliyamo/mindtrack/internal/middleware"
)

// RegisterTracker registers the goal, journal and mood routes.  Each handler
// is wrapped in the authorization gate, so an anonymous request gets 401
// before any store is touched.
func RegisterTracker(api *echo.Group, t *handler.Tracker) {
	api.GET("/goals", middleware.RequirePrincipal(t.ListGoals))
	api.POST("/goals", middleware.RequirePrincipal(t.CreateGoal))
	api.PUT("/goals", middleware.RequirePrincipal(t.IncrementGoal))
	api.DELETE("/goals", middleware.RequirePrincipal(t.DeleteGoal))

	api.GET("/journal", middleware.RequirePrincipal(t.ListJournal))
	api.POST("/journal", middleware.RequirePrincipal(t.CreateJournal))
	api.PUT("/journal", middleware.RequirePrincipal(t.UpdateJournal))
	api.DELETE("/journal", middleware.RequirePrincipal(t.DeleteJournal))

	api.GET("/moods", middleware.RequirePrincipal(t.ListMoods))
	api.POST("/moods", middleware.RequirePrincipal(t.CreateMood))
}
