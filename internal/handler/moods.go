package handler

import (
    "fmt"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/mindtrack/internal/model"
    "github.com/iliyamo/mindtrack/internal/queue"
)

// MaxMoodPreview caps ?limit on the mood listing.
const MaxMoodPreview = 50

// ListMoods returns one page of the caller's moods, newest first.  ?limit asks
// for the dashboard preview: the first limit moods (clamped to 1..50) and the
// page parameter is ignored.
func (h *Tracker) ListMoods(c echo.Context, p model.Principal) error {
    page, size := pageParam(c), PageSize
    if raw := c.QueryParam("limit"); raw != "" {
        if n, err := strconv.Atoi(raw); err == nil {
            page, size = 1, min(max(n, 1), MaxMoodPreview)
        }
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    res, err := h.Moods.List(ctx, p.UserID, page, size)
    if err != nil {
        return internalError(c, err, "list moods")
    }
    return c.JSON(http.StatusOK, echo.Map{
        "moods":      res.Items,
        "total":      res.Total,
        "page":       res.Page,
        "totalPages": res.TotalPages(),
    })
}

// CreateMood records a check-in with a score from 1 to 10.
func (h *Tracker) CreateMood(c echo.Context, p model.Principal) error {
    var req moodReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    id, err := h.Moods.Create(ctx, p.UserID, *req.Score, req.Note)
    if err != nil {
        return internalError(c, err, "create mood")
    }
    emit(h.Events, queue.NewActivityEvent(queue.EventMoodLogged, p.UserID, id, fmt.Sprintf("score=%d", *req.Score)))
    return c.JSON(http.StatusCreated, echo.Map{"message": "Mood logged", "id": id})
}
