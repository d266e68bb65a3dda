package model

import "time"

// Goal progress moves in fixed steps and saturates at GoalMaxProgress.
const (
    GoalProgressStep = 10
    GoalMaxProgress  = 100
)

// Goal is a row of the `goals` table.  A goal belongs to exactly one user;
// progress starts at 0 and only grows through IncrementProgress.
type Goal struct {
    ID        uint64    `json:"id"`         // goals.id
    UserID    uint64    `json:"user_id"`    // goals.user_id
    Title     string    `json:"title"`      // goals.title
    Progress  int       `json:"progress"`   // goals.progress, 0..100
    CreatedAt time.Time `json:"created_at"` // goals.created_at
}

// NextProgress returns the progress after one increment, clamped to the max.
// The database applies the same rule with LEAST(progress + 10, 100).
func NextProgress(p int) int {
    return min(p+GoalProgressStep, GoalMaxProgress)
}
