package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/mindtrack/internal/model"
    "github.com/iliyamo/mindtrack/internal/queue"
)

// Tracker serves the goal, journal and mood endpoints.  Every method receives
// the authenticated principal and scopes its storage calls on p.UserID.
type Tracker struct {
    Goals   GoalStore
    Journal JournalStore
    Moods   MoodStore
    Events  EventPublisher
}

// NewTracker constructs a Tracker and panics if a store is nil.
func NewTracker(goals GoalStore, journal JournalStore, moods MoodStore, events EventPublisher) *Tracker {
    if goals == nil || journal == nil || moods == nil {
        panic("nil store passed to NewTracker")
    }
    return &Tracker{Goals: goals, Journal: journal, Moods: moods, Events: events}
}

// ListGoals returns all of the caller's goals, newest first.
func (h *Tracker) ListGoals(c echo.Context, p model.Principal) error {
    ctx, cancel := storeCtx(c)
    defer cancel()

    goals, err := h.Goals.ListByUser(ctx, p.UserID)
    if err != nil {
        return internalError(c, err, "list goals")
    }
    return c.JSON(http.StatusOK, goals)
}

// CreateGoal adds a goal at 0% progress.
func (h *Tracker) CreateGoal(c echo.Context, p model.Principal) error {
    var req goalCreateReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    id, err := h.Goals.Create(ctx, p.UserID, req.Title)
    if err != nil {
        return internalError(c, err, "create goal")
    }
    emit(h.Events, queue.NewActivityEvent(queue.EventGoalCreated, p.UserID, id, req.Title))
    return c.JSON(http.StatusCreated, echo.Map{"message": "Goal created", "id": id})
}

// IncrementGoal adds 10% to a goal, saturating at 100%.
func (h *Tracker) IncrementGoal(c echo.Context, p model.Principal) error {
    var req idReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    n, err := h.Goals.IncrementProgress(ctx, req.ID, p.UserID)
    if err != nil {
        return internalError(c, err, "increment goal")
    }
    if n == 0 {
        warnNoRows(c, "goal.increment", req.ID, p.UserID)
    } else {
        emit(h.Events, queue.NewActivityEvent(queue.EventGoalProgressed, p.UserID, req.ID, ""))
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Goal progress updated"})
}

// DeleteGoal removes one of the caller's goals.
func (h *Tracker) DeleteGoal(c echo.Context, p model.Principal) error {
    var req idReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    n, err := h.Goals.Delete(ctx, req.ID, p.UserID)
    if err != nil {
        return internalError(c, err, "delete goal")
    }
    if n == 0 {
        warnNoRows(c, "goal.delete", req.ID, p.UserID)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Goal deleted"})
}
