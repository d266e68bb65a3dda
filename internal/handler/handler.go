package handler // handler holds the HTTP handlers of the JSON API

import (
    "context"  // per-request deadlines for storage calls
    "net/http" // status codes
    "time"     // timeout values

    "github.com/labstack/echo/v4" // echo context and JSON helpers
    "github.com/rs/zerolog/log"   // structured logging of failures

    "github.com/iliyamo/mindtrack/internal/model"      // domain types
    "github.com/iliyamo/mindtrack/internal/queue"      // activity events
    "github.com/iliyamo/mindtrack/internal/repository" // journal query type
)

// UserStore is the credential store used by the auth handlers.
type UserStore interface {
    Create(ctx context.Context, username, email, password string, cost int) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    UpdateProfile(ctx context.Context, id uint64, plan func(current model.User) (model.ProfileChanges, error)) error
}

// GoalStore persists goals.  Every method is scoped by the owner id.
type GoalStore interface {
    ListByUser(ctx context.Context, userID uint64) ([]model.Goal, error)
    Create(ctx context.Context, userID uint64, title string) (uint64, error)
    IncrementProgress(ctx context.Context, id, userID uint64) (int64, error)
    Delete(ctx context.Context, id, userID uint64) (int64, error)
}

// JournalStore persists journal entries.  Every method is scoped by the owner id.
type JournalStore interface {
    List(ctx context.Context, userID uint64, q repository.JournalQuery) (model.Page[model.JournalEntry], error)
    Create(ctx context.Context, userID uint64, title, content string) (uint64, error)
    Update(ctx context.Context, id, userID uint64, title, content string) (int64, error)
    Delete(ctx context.Context, id, userID uint64) (int64, error)
}

// MoodStore persists mood check-ins.  Every method is scoped by the owner id.
type MoodStore interface {
    List(ctx context.Context, userID uint64, page, size int) (model.Page[model.Mood], error)
    Create(ctx context.Context, userID uint64, score int, note string) (uint64, error)
}

// EventPublisher receives activity events after successful writes.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// PageSize is the number of rows per page of the journal and mood listings.
const PageSize = 5

const (
    storeTimeout   = 5 * time.Second
    publishTimeout = 5 * time.Second
)

// storeCtx bounds the storage calls of one request.
func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), storeTimeout)
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// internalError logs the cause with the request coordinates and answers with a
// generic 500.  The cause never reaches the client.
func internalError(c echo.Context, err error, what string) error {
    log.Error().Err(err).
        Str("method", c.Request().Method).
        Str("path", c.Path()).
        Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
        Msg(what)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
}

// warnNoRows records an update or delete that matched nothing.  The request
// still succeeds; the log makes unknown or foreign ids visible.
func warnNoRows(c echo.Context, op string, id, userID uint64) {
    log.Warn().
        Str("op", op).
        Uint64("id", id).
        Uint64("user_id", userID).
        Int64("rows_affected", 0).
        Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
        Msg("write matched no rows")
}

// emit publishes ev in the background.  Failures are logged and never affect
// the response.
func emit(events EventPublisher, ev queue.ActivityEvent) {
    if events == nil {
        return
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
        defer cancel()
        if err := events.Publish(ctx, ev); err != nil {
            log.Warn().Err(err).Str("event", ev.Type).Msg("activity event dropped")
        }
    }()
}
