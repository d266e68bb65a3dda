// Package queue defines the activity events exchanged over the message broker
// and the background consumer that records them.
package queue

import "time"

// Activity event types.  Each is published after the corresponding write
// succeeds; nothing is published for failed or unauthorized requests.
const (
    EventUserRegistered = "user.registered"
    EventGoalCreated    = "goal.created"
    EventGoalProgressed = "goal.progressed"
    EventJournalCreated = "journal.created"
    EventMoodLogged     = "mood.logged"
)

// ActivityEvent describes one user action.  It carries ids and a short detail
// only; journal text, passwords and tokens never leave the request.
type ActivityEvent struct {
    Type       string `json:"type"`
    UserID     uint64 `json:"user_id"`
    ResourceID uint64 `json:"resource_id,omitempty"`
    Detail     string `json:"detail,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

// NewActivityEvent stamps an event with the current UTC time.
func NewActivityEvent(typ string, userID, resourceID uint64, detail string) ActivityEvent {
    return ActivityEvent{
        Type:       typ,
        UserID:     userID,
        ResourceID: resourceID,
        Detail:     detail,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
