package model

import "time"

// User represents an application user record as stored in the `users` table.
// PasswordHash is tagged json:"-" so the struct can never leak the bcrypt hash
// even when a handler serializes it by mistake.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique display name.
//  Email        – unique email address used to log in.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of registration.
type User struct {
    ID           uint64    `json:"id"`         // users.id
    Username     string    `json:"username"`   // users.username
    Email        string    `json:"email"`      // users.email
    PasswordHash string    `json:"-"`          // users.password_hash
    CreatedAt    time.Time `json:"created_at"` // users.created_at
}

// Principal is the authenticated identity attached to a request once its
// session token verifies.  It is never persisted; every request rebuilds it
// from the cookie.
type Principal struct {
    UserID   uint64 `json:"userId"`
    Username string `json:"username"`
}

// ProfileChanges lists the columns a profile update rewrites.  Empty strings
// mean "leave unchanged".  PasswordHash is already hashed by the caller.
type ProfileChanges struct {
    Username     string
    Email        string
    PasswordHash string
}

// Empty reports whether there is nothing to write.
func (p ProfileChanges) Empty() bool {
    return p.Username == "" && p.Email == "" && p.PasswordHash == ""
}
