package queue

// The consumer listens on the activity queue and appends one line per event to
// a rotating log file.  It runs in its own goroutine next to the HTTP server.

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"
    "gopkg.in/natefinch/lumberjack.v2"

    "github.com/iliyamo/mindtrack/internal/config"
)

// NewActivityLog returns the rotating writer the consumer appends to.
func NewActivityLog(cfg config.EventsConfig) *lumberjack.Logger {
    return &lumberjack.Logger{
        Filename:   cfg.LogPath,
        MaxSize:    cfg.LogMaxMB,
        MaxBackups: cfg.LogBackups,
        Compress:   true,
    }
}

// StartActivityConsumer connects to the broker, declares the durable activity
// queue and writes every delivery to w.  Connection failures are retried with
// exponential backoff capped at 30s.  It returns only when ctx is cancelled.
func StartActivityConsumer(ctx context.Context, cfg config.EventsConfig, w io.Writer) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("activity-consumer: dial failed")
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, cfg.Queue, w)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("activity-consumer: consume loop ended, reconnecting")
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, w io.Writer) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("activity-consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }
    log.Info().Str("queue", queue).Msg("activity-consumer: consuming")

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(w, d.Body); err != nil {
                log.Error().Err(err).Msg("activity-consumer: handle message failed")
                _ = d.Nack(false, false) // drop, requeueing a bad payload would loop
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// handleMessage decodes one event and appends its formatted line to w.
func handleMessage(w io.Writer, body []byte) error {
    var ev ActivityEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.UserID == 0 {
        return errors.New("event without type or user")
    }
    if _, err := io.WriteString(w, formatEvent(ev)); err != nil {
        return fmt.Errorf("write activity log: %w", err)
    }
    return nil
}

func formatEvent(ev ActivityEvent) string {
    line := fmt.Sprintf("[%s] %s | user_id=%d", ev.OccurredAt, ev.Type, ev.UserID)
    if ev.ResourceID != 0 {
        line += fmt.Sprintf(" | resource_id=%d", ev.ResourceID)
    }
    if ev.Detail != "" {
        line += fmt.Sprintf(" | detail=%q", ev.Detail)
    }
    return line + "\n"
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
