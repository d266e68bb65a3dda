// Package queue_publisher publishes activity events to RabbitMQ.  Publishing
// is best effort: errors are logged and returned so callers can ignore them
// without interrupting the request that produced the event.
package queue_publisher

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/mindtrack/internal/config"
    q "github.com/iliyamo/mindtrack/internal/queue"
)

// channel is the part of *amqp.Channel used for publishing.
type channel interface {
    QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
    PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends events to the configured durable queue.  Each Publish dials
// its own connection; event volume is one message per user write.
type Publisher struct {
    url   string
    queue string
}

// New returns a Publisher for cfg.
func New(cfg config.EventsConfig) *Publisher {
    return &Publisher{url: cfg.URL, queue: cfg.Queue}
}

// Publish sends ev as a persistent JSON message to the activity queue.
func (p *Publisher) Publish(ctx context.Context, ev q.ActivityEvent) error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        log.Warn().Err(err).Str("event", ev.Type).Msg("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Warn().Err(err).Msg("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    return publishOn(ctx, ch, p.queue, ev)
}

func publishOn(ctx context.Context, ch channel, queue string, ev q.ActivityEvent) error {
    // Idempotent; durable so events survive broker restarts.
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        log.Warn().Err(err).Str("queue", queue).Msg("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Type,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
        log.Warn().Err(err).Str("event", ev.Type).Msg("rabbitmq: publish failed")
        return err
    }
    return nil
}

// Noop discards events.  Used when EVENTS_ENABLED is false.
type Noop struct{}

func (Noop) Publish(context.Context, q.ActivityEvent) error { return nil }
