package model

import "time"

// JournalEntry is a row of the `journals` table.
type JournalEntry struct {
    ID        uint64    `json:"id"`
    UserID    uint64    `json:"user_id"`
    Title     string    `json:"title"`
    Content   string    `json:"content"`
    CreatedAt time.Time `json:"created_at"`
}
