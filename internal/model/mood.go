package model

import "time"

// Valid range for Mood.Score.
const (
    MinMoodScore = 1
    MaxMoodScore = 10
)

// Mood is a row of the `moods` table.  Moods are create-only.
type Mood struct {
    ID        uint64    `json:"id"`
    UserID    uint64    `json:"user_id"`
    Score     int       `json:"mood_score"`
    Note      string    `json:"note"`
    CreatedAt time.Time `json:"created_at"`
}
