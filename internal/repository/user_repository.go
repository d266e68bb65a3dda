package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/mindtrack/internal/model"
	"github.com/iliyamo/mindtrack/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create registers a user and returns its ID.  The uniqueness check, the
// bcrypt hash and the insert run on one connection; a duplicate-key error from
// a concurrent registration is reported as ErrUserExists as well.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	var id uint64
	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		var existing uint64
		err := conn.QueryRowContext(ctx,
			"SELECT id FROM users WHERE username = ? OR email = ? LIMIT 1",
			username, email).Scan(&existing)
		switch {
		case err == nil:
			return ErrUserExists
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("check existing user: %w", err)
		}

		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		res, err := conn.ExecContext(ctx,
			"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
			username, email, hash)
		if err != nil {
			if isDuplicate(err) {
				return ErrUserExists
			}
			return fmt.Errorf("insert user: %w", err)
		}
		last, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert user id: %w", err)
		}
		id = uint64(last)
		return nil
	})
	return id, err
}

// GetByEmail fetches a user by email.  ErrUserNotFound when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		return scanUser(conn.QueryRowContext(ctx,
			"SELECT id, username, email, password_hash, created_at FROM users WHERE email = ? LIMIT 1",
			email), &u)
	})
	return u, err
}

// GetByID fetches a user by id.  ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := withConn(ctx, r.DB, func(conn *sql.Conn) error {
		return scanUser(conn.QueryRowContext(ctx,
			"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ? LIMIT 1",
			id), &u)
	})
	return u, err
}

// UpdateProfile loads the user, asks plan which columns to rewrite and applies
// them, all on one connection.  An error from plan aborts without writing.
// ErrUserNotFound when the row is gone, ErrUserExists when the new username or
// email belongs to someone else.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, plan func(current model.User) (model.ProfileChanges, error)) error {
	return withConn(ctx, r.DB, func(conn *sql.Conn) error {
		var u model.User
		if err := scanUser(conn.QueryRowContext(ctx,
			"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ? LIMIT 1",
			id), &u); err != nil {
			return err
		}
		changes, err := plan(u)
		if err != nil {
			return err
		}
		if changes.Empty() {
			return nil
		}

		sets := []string{}
		args := []any{}
		if changes.Username != "" {
			sets = append(sets, "username = ?")
			args = append(args, changes.Username)
		}
		if changes.Email != "" {
			sets = append(sets, "email = ?")
			args = append(args, changes.Email)
		}
		if changes.PasswordHash != "" {
			sets = append(sets, "password_hash = ?")
			args = append(args, changes.PasswordHash)
		}
		args = append(args, id)

		if _, err := conn.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			if isDuplicate(err) {
				return ErrUserExists
			}
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
}

func scanUser(row *sql.Row, u *model.User) error {
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	return nil
}
