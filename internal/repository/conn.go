package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// withConn runs fn on a single pooled connection and hands the connection back
// to the pool on every exit path, including errors and panics.  Statements that
// belong to one operation (existence check + insert, count + page) share it.
func withConn(ctx context.Context, db *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// pageOffset converts a 1-based page number into a row offset.
func pageOffset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}
