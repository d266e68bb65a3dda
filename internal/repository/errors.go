// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish between
// failure scenarios without inspecting driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUserExists is returned when a username or email is already taken.
// Handlers should translate this into an HTTP 409 response.
var ErrUserExists = errors.New("username or email already exists")

// ErrUserNotFound is returned when the referenced user row does not exist.
// Handlers should translate this into a 401 (login) or 404 (profile update).
var ErrUserNotFound = errors.New("user not found")

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a MySQL duplicate-key error.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
