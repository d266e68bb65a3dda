package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/mindtrack/internal/model"
)

// JournalQuery defines the search filter and pagination for listing entries.
type JournalQuery struct {
	Search   string
	Page     int
	PageSize int
}

type JournalRepo struct {
	db *sql.DB
}

func NewJournalRepo(db *sql.DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// List returns one page of the user's entries, newest first.  A non-empty
// Search matches as a substring of the title or the content.
func (r *JournalRepo) List(ctx context.Context, userID uint64, q JournalQuery) (model.Page[model.JournalEntry], error) {
	page := model.Page[model.JournalEntry]{Items: make([]model.JournalEntry, 0), Page: max(q.Page, 1), Size: q.PageSize}

	cond := "user_id = ?"
	args := []any{userID}
	if q.Search != "" {
		like := "%" + escapeLike(q.Search) + "%"
		cond += " AND (title LIKE ? OR content LIKE ?)"
		args = append(args, like, like)
	}

	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM journals WHERE "+cond, args...).Scan(&page.Total); err != nil {
			return fmt.Errorf("count journals: %w", err)
		}

		dataArgs := append(append([]any{}, args...), q.PageSize, pageOffset(q.Page, q.PageSize))
		rows, err := conn.QueryContext(ctx,
			`SELECT id, user_id, title, content, created_at FROM journals WHERE `+cond+`
			 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, dataArgs...)
		if err != nil {
			return fmt.Errorf("list journals: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var e model.JournalEntry
			if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.CreatedAt); err != nil {
				return fmt.Errorf("scan journal: %w", err)
			}
			page.Items = append(page.Items, e)
		}
		return rows.Err()
	})
	return page, err
}

func (r *JournalRepo) Create(ctx context.Context, userID uint64, title, content string) (uint64, error) {
	var id uint64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO journals (user_id, title, content) VALUES (?, ?, ?)", userID, title, content)
		if err != nil {
			return fmt.Errorf("insert journal: %w", err)
		}
		last, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert journal id: %w", err)
		}
		id = uint64(last)
		return nil
	})
	return id, err
}

// Update rewrites title and content of an entry owned by userID and returns
// the number of rows matched.
func (r *JournalRepo) Update(ctx context.Context, id, userID uint64, title, content string) (int64, error) {
	var n int64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			"UPDATE journals SET title = ?, content = ? WHERE id = ? AND user_id = ?",
			title, content, id, userID)
		if err != nil {
			return fmt.Errorf("update journal: %w", err)
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return n, err
}

func (r *JournalRepo) Delete(ctx context.Context, id, userID uint64) (int64, error) {
	var n int64
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, "DELETE FROM journals WHERE id = ? AND user_id = ?", id, userID)
		if err != nil {
			return fmt.Errorf("delete journal: %w", err)
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return n, err
}

// escapeLike makes % and _ in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
