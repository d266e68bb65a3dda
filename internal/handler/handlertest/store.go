// Package handlertest provides in-memory stores implementing the handler
// interfaces, for tests that drive the HTTP API without a database.
package handlertest

import (
    "context"
    "sort"
    "strings"
    "sync"
    "time"

    "github.com/iliyamo/mindtrack/internal/model"
    "github.com/iliyamo/mindtrack/internal/queue"
    "github.com/iliyamo/mindtrack/internal/repository"
    "github.com/iliyamo/mindtrack/internal/utils"
)

// Store keeps users, goals, journal entries and moods in memory with the same
// ownership and ordering rules as the MySQL repositories.  Calls counts every
// store method invocation.
type Store struct {
    mu      sync.Mutex
    nextID  uint64
    clock   time.Time
    users   []model.User
    goals   []model.Goal
    entries []model.JournalEntry
    moods   []model.Mood
    Calls   int
}

// New returns an empty store.
func New() *Store {
    return &Store{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// CallCount returns the number of store calls so far.
func (s *Store) CallCount() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.Calls
}

// Users, Goals, Journal and Moods expose the store under each interface.
func (s *Store) Users() *UserStore       { return (*UserStore)(s) }
func (s *Store) Goals() *GoalStore       { return (*GoalStore)(s) }
func (s *Store) Journal() *JournalStore { return (*JournalStore)(s) }
func (s *Store) Moods() *MoodStore       { return (*MoodStore)(s) }

// enter locks the store and returns a fresh id and a strictly increasing time.
func (s *Store) enter() (uint64, time.Time) {
    s.mu.Lock()
    s.Calls++
    s.nextID++
    s.clock = s.clock.Add(time.Second)
    return s.nextID, s.clock
}

type UserStore Store

func (u *UserStore) Create(_ context.Context, username, email, password string, cost int) (uint64, error) {
    s := (*Store)(u)
    id, now := s.enter()
    defer s.mu.Unlock()
    for _, x := range s.users {
        if x.Username == username || x.Email == email {
            return 0, repository.ErrUserExists
        }
    }
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    s.users = append(s.users, model.User{ID: id, Username: username, Email: email, PasswordHash: hash, CreatedAt: now})
    return id, nil
}

func (u *UserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
    s := (*Store)(u)
    s.enter()
    defer s.mu.Unlock()
    for _, x := range s.users {
        if x.Email == email {
            return x, nil
        }
    }
    return model.User{}, repository.ErrUserNotFound
}

func (u *UserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
    s := (*Store)(u)
    s.enter()
    defer s.mu.Unlock()
    for _, x := range s.users {
        if x.ID == id {
            return x, nil
        }
    }
    return model.User{}, repository.ErrUserNotFound
}

func (u *UserStore) UpdateProfile(_ context.Context, id uint64, plan func(model.User) (model.ProfileChanges, error)) error {
    s := (*Store)(u)
    s.enter()
    defer s.mu.Unlock()
    idx := -1
    for i, x := range s.users {
        if x.ID == id {
            idx = i
        }
    }
    if idx < 0 {
        return repository.ErrUserNotFound
    }
    ch, err := plan(s.users[idx])
    if err != nil {
        return err
    }
    for _, x := range s.users {
        if x.ID != id && ((ch.Username != "" && x.Username == ch.Username) || (ch.Email != "" && x.Email == ch.Email)) {
            return repository.ErrUserExists
        }
    }
    if ch.Username != "" {
        s.users[idx].Username = ch.Username
    }
    if ch.Email != "" {
        s.users[idx].Email = ch.Email
    }
    if ch.PasswordHash != "" {
        s.users[idx].PasswordHash = ch.PasswordHash
    }
    return nil
}

type GoalStore Store

func (g *GoalStore) ListByUser(_ context.Context, userID uint64) ([]model.Goal, error) {
    s := (*Store)(g)
    s.enter()
    defer s.mu.Unlock()
    out := make([]model.Goal, 0)
    for _, x := range s.goals {
        if x.UserID == userID {
            out = append(out, x)
        }
    }
    sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
    return out, nil
}

func (g *GoalStore) Create(_ context.Context, userID uint64, title string) (uint64, error) {
    s := (*Store)(g)
    id, now := s.enter()
    defer s.mu.Unlock()
    s.goals = append(s.goals, model.Goal{ID: id, UserID: userID, Title: title, CreatedAt: now})
    return id, nil
}

func (g *GoalStore) IncrementProgress(_ context.Context, id, userID uint64) (int64, error) {
    s := (*Store)(g)
    s.enter()
    defer s.mu.Unlock()
    for i, x := range s.goals {
        if x.ID == id && x.UserID == userID {
            s.goals[i].Progress = model.NextProgress(x.Progress)
            return 1, nil
        }
    }
    return 0, nil
}

func (g *GoalStore) Delete(_ context.Context, id, userID uint64) (int64, error) {
    s := (*Store)(g)
    s.enter()
    defer s.mu.Unlock()
    for i, x := range s.goals {
        if x.ID == id && x.UserID == userID {
            s.goals = append(s.goals[:i], s.goals[i+1:]...)
            return 1, nil
        }
    }
    return 0, nil
}

type JournalStore Store

func (j *JournalStore) List(_ context.Context, userID uint64, q repository.JournalQuery) (model.Page[model.JournalEntry], error) {
    s := (*Store)(j)
    s.enter()
    defer s.mu.Unlock()
    var match []model.JournalEntry
    for _, x := range s.entries {
        if x.UserID != userID {
            continue
        }
        if q.Search != "" && !strings.Contains(x.Title, q.Search) && !strings.Contains(x.Content, q.Search) {
            continue
        }
        match = append(match, x)
    }
    sort.SliceStable(match, func(a, b int) bool { return match[a].CreatedAt.After(match[b].CreatedAt) })
    page := max(q.Page, 1)
    return model.Page[model.JournalEntry]{
        Items: window(match, page, q.PageSize),
        Total: int64(len(match)),
        Page:  page,
        Size:  q.PageSize,
    }, nil
}

func (j *JournalStore) Create(_ context.Context, userID uint64, title, content string) (uint64, error) {
    s := (*Store)(j)
    id, now := s.enter()
    defer s.mu.Unlock()
    s.entries = append(s.entries, model.JournalEntry{ID: id, UserID: userID, Title: title, Content: content, CreatedAt: now})
    return id, nil
}

func (j *JournalStore) Update(_ context.Context, id, userID uint64, title, content string) (int64, error) {
    s := (*Store)(j)
    s.enter()
    defer s.mu.Unlock()
    for i, x := range s.entries {
        if x.ID == id && x.UserID == userID {
            s.entries[i].Title, s.entries[i].Content = title, content
            return 1, nil
        }
    }
    return 0, nil
}

func (j *JournalStore) Delete(_ context.Context, id, userID uint64) (int64, error) {
    s := (*Store)(j)
    s.enter()
    defer s.mu.Unlock()
    for i, x := range s.entries {
        if x.ID == id && x.UserID == userID {
            s.entries = append(s.entries[:i], s.entries[i+1:]...)
            return 1, nil
        }
    }
    return 0, nil
}

type MoodStore Store

func (m *MoodStore) List(_ context.Context, userID uint64, page, size int) (model.Page[model.Mood], error) {
    s := (*Store)(m)
    s.enter()
    defer s.mu.Unlock()
    var match []model.Mood
    for _, x := range s.moods {
        if x.UserID == userID {
            match = append(match, x)
        }
    }
    sort.SliceStable(match, func(a, b int) bool { return match[a].CreatedAt.After(match[b].CreatedAt) })
    page = max(page, 1)
    return model.Page[model.Mood]{Items: window(match, page, size), Total: int64(len(match)), Page: page, Size: size}, nil
}

func (m *MoodStore) Create(_ context.Context, userID uint64, score int, note string) (uint64, error) {
    s := (*Store)(m)
    id, now := s.enter()
    defer s.mu.Unlock()
    s.moods = append(s.moods, model.Mood{ID: id, UserID: userID, Score: score, Note: note, CreatedAt: now})
    return id, nil
}

func window[T any](all []T, page, size int) []T {
    out := make([]T, 0)
    if size <= 0 {
        return out
    }
    start := (page - 1) * size
    if start >= len(all) {
        return out
    }
    return append(out, all[start:min(start+size, len(all))]...)
}

// Events records published activity events.
type Events struct {
    mu     sync.Mutex
    events []queue.ActivityEvent
}

func (e *Events) Publish(_ context.Context, ev queue.ActivityEvent) error {
    e.mu.Lock()
    defer e.mu.Unlock()
    e.events = append(e.events, ev)
    return nil
}

// Types returns the types of the events published so far, in order.
func (e *Events) Types() []string {
    e.mu.Lock()
    defer e.mu.Unlock()
    out := make([]string, 0, len(e.events))
    for _, ev := range e.events {
        out = append(out, ev.Type)
    }
    return out
}
