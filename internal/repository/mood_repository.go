package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/mindtrack/internal/model"
)

type MoodRepo struct {
	db *sql.DB
}

func NewMoodRepo(db *sql.DB) *MoodRepo {
	return &MoodRepo{db: db}
}

// List returns one page of the user's moods, newest first.
func (r *MoodRepo) List(ctx context.Context, userID uint64, page, size int) (model.Page[model.Mood], error) {
	out := model.Page[model.Mood]{Items: make([]model.Mood, 0), Page: max(page, 1), Size: size}
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM moods WHERE user_id = ?", userID).Scan(&out.Total); err != nil {
			return fmt.Errorf("count moods: %w", err)
		}
		rows, err := conn.QueryContext(ctx,
			`SELECT id, user_id, mood_score, note, created_at FROM moods WHERE user_id = ?
			 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			userID, size, pageOffset(page, size))
		if err != nil {
			return fmt.Errorf("list moods: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var m model.Mood
			if err := rows.Scan(&m.ID, &m.UserID, &m.Score, &m.Note, &m.CreatedAt); err != nil {
				return fmt.Errorf("scan mood: %w", err)
			}
			out.Items = append(out.Items, m)
		}
		return rows.Err()
	})
	return out, err
}

// Create logs a mood for userID and returns its ID.
func (r *MoodRepo) Create(ctx context.Context, userID uint64, score int, note string) (uint64, error) {
	var id uint64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO moods (user_id, mood_score, note) VALUES (?, ?, ?)", userID, score, note)
		if err != nil {
			return fmt.Errorf("insert mood: %w", err)
		}
		last, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert mood id: %w", err)
		}
		id = uint64(last)
		return nil
	})
	return id, err
}
