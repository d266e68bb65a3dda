package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/mindtrack/internal/model"
    "github.com/iliyamo/mindtrack/internal/queue"
    "github.com/iliyamo/mindtrack/internal/repository"
)

// ListJournal returns one page of the caller's entries.  ?search filters on
// title or content, ?page selects the page (1-based, default 1).
func (h *Tracker) ListJournal(c echo.Context, p model.Principal) error {
    q := repository.JournalQuery{
        Search:   strings.TrimSpace(c.QueryParam("search")),
        Page:     pageParam(c),
        PageSize: PageSize,
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    page, err := h.Journal.List(ctx, p.UserID, q)
    if err != nil {
        return internalError(c, err, "list journal")
    }
    return c.JSON(http.StatusOK, echo.Map{
        "entries":    page.Items,
        "total":      page.Total,
        "page":       page.Page,
        "totalPages": page.TotalPages(),
    })
}

// CreateJournal adds an entry.
func (h *Tracker) CreateJournal(c echo.Context, p model.Principal) error {
    var req journalReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(false); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    id, err := h.Journal.Create(ctx, p.UserID, req.Title, req.Content)
    if err != nil {
        return internalError(c, err, "create journal entry")
    }
    emit(h.Events, queue.NewActivityEvent(queue.EventJournalCreated, p.UserID, id, ""))
    return c.JSON(http.StatusCreated, echo.Map{"message": "Journal entry created", "id": id})
}

// UpdateJournal rewrites the title and content of one of the caller's entries.
func (h *Tracker) UpdateJournal(c echo.Context, p model.Principal) error {
    var req journalReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(true); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    n, err := h.Journal.Update(ctx, req.ID, p.UserID, req.Title, req.Content)
    if err != nil {
        return internalError(c, err, "update journal entry")
    }
    if n == 0 {
        warnNoRows(c, "journal.update", req.ID, p.UserID)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Journal entry updated"})
}

// DeleteJournal removes one of the caller's entries.
func (h *Tracker) DeleteJournal(c echo.Context, p model.Principal) error {
    var req idReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    n, err := h.Journal.Delete(ctx, req.ID, p.UserID)
    if err != nil {
        return internalError(c, err, "delete journal entry")
    }
    if n == 0 {
        warnNoRows(c, "journal.delete", req.ID, p.UserID)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Journal entry deleted"})
}

// pageParam reads ?page; missing, unparsable or < 1 means page 1.
func pageParam(c echo.Context) int {
    n, err := strconv.Atoi(c.QueryParam("page"))
    if err != nil || n < 1 {
        return 1
    }
    return n
}
