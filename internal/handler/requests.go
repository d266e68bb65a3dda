package handler

import (
    "errors"
    "strings"

    "github.com/iliyamo/mindtrack/internal/model"
)

// Request bodies.  Each is bound from JSON, normalized and validated before
// any storage call; validate returns the message sent with the 400.

type registerReq struct {
    Username string `json:"username"`
    Email    string `json:"email"`
    Password string `json:"password"`
}

func (r *registerReq) validate() error {
    r.Username = strings.TrimSpace(r.Username)
    r.Email = normalizeEmail(r.Email)
    if r.Username == "" || r.Email == "" || r.Password == "" {
        return errors.New("username, email and password are required")
    }
    if !strings.Contains(r.Email, "@") {
        return errors.New("invalid email address")
    }
    return nil
}

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

func (r *loginReq) validate() error {
    r.Email = normalizeEmail(r.Email)
    if r.Email == "" || r.Password == "" {
        return errors.New("email and password are required")
    }
    return nil
}

type updateProfileReq struct {
    Username    string `json:"username"`
    Email       string `json:"email"`
    Password    string `json:"password"`
    NewPassword string `json:"newPassword"`
}

func (r *updateProfileReq) validate() error {
    r.Username = strings.TrimSpace(r.Username)
    r.Email = normalizeEmail(r.Email)
    if r.Email != "" && !strings.Contains(r.Email, "@") {
        return errors.New("invalid email address")
    }
    if r.NewPassword != "" && r.Password == "" {
        return errors.New("current password is required to set a new password")
    }
    if r.Username == "" && r.Email == "" && r.NewPassword == "" {
        return errors.New("nothing to update")
    }
    return nil
}

type goalCreateReq struct {
    Title string `json:"title"`
}

func (r *goalCreateReq) validate() error {
    r.Title = strings.TrimSpace(r.Title)
    if r.Title == "" {
        return errors.New("title is required")
    }
    return nil
}

// idReq carries the target of PUT/DELETE requests.  The id may come in the
// JSON body or as ?id=.
type idReq struct {
    ID uint64 `json:"id" query:"id"`
}

func (r *idReq) validate() error {
    if r.ID == 0 {
        return errors.New("id is required")
    }
    return nil
}

type journalReq struct {
    ID      uint64 `json:"id"`
    Title   string `json:"title"`
    Content string `json:"content"`
}

func (r *journalReq) validate(requireID bool) error {
    r.Title = strings.TrimSpace(r.Title)
    if requireID && r.ID == 0 {
        return errors.New("id is required")
    }
    if r.Title == "" || strings.TrimSpace(r.Content) == "" {
        return errors.New("title and content are required")
    }
    return nil
}

type moodReq struct {
    Score *int   `json:"mood_score"`
    Note  string `json:"note"`
}

func (r *moodReq) validate() error {
    r.Note = strings.TrimSpace(r.Note)
    if r.Score == nil {
        return errors.New("mood score is required")
    }
    if *r.Score < model.MinMoodScore || *r.Score > model.MaxMoodScore {
        return errors.New("mood score must be between 1 and 10")
    }
    return nil
}

func normalizeEmail(s string) string {
    return strings.ToLower(strings.TrimSpace(s))
}
