package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/mindtrack/internal/model"
)

// GoalRepo encapsulates all queries on the goals table.  Every method takes
// the owner's user ID and uses it as a row filter, so a guessed goal id never
// reaches another user's row.
type GoalRepo struct {
	db *sql.DB
}

func NewGoalRepo(db *sql.DB) *GoalRepo {
	return &GoalRepo{db: db}
}

// ListByUser returns the user's goals, newest first.
func (r *GoalRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Goal, error) {
	out := make([]model.Goal, 0)
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT id, user_id, title, progress, created_at
			 FROM goals WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
		if err != nil {
			return fmt.Errorf("list goals: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var g model.Goal
			if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Progress, &g.CreatedAt); err != nil {
				return fmt.Errorf("scan goal: %w", err)
			}
			out = append(out, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a goal with progress 0 and returns its ID.
func (r *GoalRepo) Create(ctx context.Context, userID uint64, title string) (uint64, error) {
	var id uint64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO goals (user_id, title, progress) VALUES (?, ?, 0)", userID, title)
		if err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
		last, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert goal id: %w", err)
		}
		id = uint64(last)
		return nil
	})
	return id, err
}

// IncrementProgress adds one step to the goal's progress, saturating at 100.
// The clamp is evaluated by the database so concurrent increments stay
// atomic.  It returns the number of rows matched; zero means the id does not
// exist or belongs to someone else.
func (r *GoalRepo) IncrementProgress(ctx context.Context, id, userID uint64) (int64, error) {
	var n int64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"UPDATE goals SET progress = LEAST(progress + ?, ?) WHERE id = ? AND user_id = ?",
			model.GoalProgressStep, model.GoalMaxProgress, id, userID)
		if err != nil {
			return fmt.Errorf("increment goal: %w", err)
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return n, err
}

// Delete removes the goal if it belongs to userID and returns rows affected.
func (r *GoalRepo) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	var n int64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "DELETE FROM goals WHERE id = ? AND user_id = ?", id, userID)
		if err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return n, err
}
