package handler

import (
    "errors"   // sentinel matching on repository errors
    "net/http" // HTTP status codes and cookies
    "time"     // cookie expiry

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/mindtrack/internal/config"     // app configuration
    "github.com/iliyamo/mindtrack/internal/middleware" // session cookie name
    "github.com/iliyamo/mindtrack/internal/model"      // principal and user types
    "github.com/iliyamo/mindtrack/internal/queue"      // activity events
    "github.com/iliyamo/mindtrack/internal/repository" // repository sentinels
    "github.com/iliyamo/mindtrack/internal/utils"      // password hashing and session tokens
)

// errWrongPassword aborts a profile update whose current password does not verify.
var errWrongPassword = errors.New("current password is incorrect")

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  UserStore
    Codec  *utils.SessionCodec
    Events EventPublisher
}

func NewAuthHandler(cfg config.Config, users UserStore, codec *utils.SessionCodec, events EventPublisher) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: users, Codec: codec, Events: events}
}

// Register creates an account.  It does not log the user in.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrUserExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
        }
        return internalError(c, err, "register user")
    }

    emit(h.Events, queue.NewActivityEvent(queue.EventUserRegistered, uid, uid, ""))
    return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

// Login verifies the credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return internalError(c, err, "load user for login")
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    if err := h.startSession(c, model.Principal{UserID: u.ID, Username: u.Username}); err != nil {
        return internalError(c, err, "sign session")
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Login successful",
        "user":    echo.Map{"username": u.Username},
    })
}

// Me returns the caller's principal.
func (h *AuthHandler) Me(c echo.Context, p model.Principal) error {
    return c.JSON(http.StatusOK, echo.Map{"username": p.Username, "userId": p.UserID})
}

// Logout expires the session cookie.  The token itself stays valid until its
// exp; there is no server-side revocation.
func (h *AuthHandler) Logout(c echo.Context) error {
    c.SetCookie(h.sessionCookie("", -1, time.Unix(0, 0)))
    return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// UpdateProfile replaces the non-empty fields of the caller's profile.  A new
// password is accepted only together with the current one.
func (h *AuthHandler) UpdateProfile(c echo.Context, p model.Principal) error {
    var req updateProfileReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if err := req.validate(); err != nil {
        return badRequest(c, err.Error())
    }

    ctx, cancel := storeCtx(c)
    defer cancel()

    var updated model.User
    err := h.Users.UpdateProfile(ctx, p.UserID, func(u model.User) (model.ProfileChanges, error) {
        changes := model.ProfileChanges{Username: req.Username, Email: req.Email}
        if req.NewPassword != "" {
            if !utils.VerifyPassword(u.PasswordHash, req.Password) {
                return model.ProfileChanges{}, errWrongPassword
            }
            hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
            if err != nil {
                return model.ProfileChanges{}, err
            }
            changes.PasswordHash = hash
        }
        updated = u
        return changes, nil
    })
    switch {
    case errors.Is(err, errWrongPassword):
        return badRequest(c, err.Error())
    case errors.Is(err, repository.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    case errors.Is(err, repository.ErrUserExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already taken"})
    case err != nil:
        return internalError(c, err, "update profile")
    }

    // The username is embedded in the token; reissue it so /me reflects the change.
    if req.Username != "" && req.Username != updated.Username {
        if err := h.startSession(c, model.Principal{UserID: p.UserID, Username: req.Username}); err != nil {
            return internalError(c, err, "reissue session")
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
}

func (h *AuthHandler) startSession(c echo.Context, p model.Principal) error {
    tok, err := h.Codec.Sign(p)
    if err != nil {
        return err
    }
    c.SetCookie(h.sessionCookie(tok.Token, int(utils.SessionTTL/time.Second), tok.Exp))
    return nil
}

func (h *AuthHandler) sessionCookie(value string, maxAge int, expires time.Time) *http.Cookie {
    return &http.Cookie{
        Name:     middleware.SessionCookie,
        Value:    value,
        Path:     "/",
        MaxAge:   maxAge,
        Expires:  expires,
        HttpOnly: true,
        Secure:   h.Cfg.Production(),
        SameSite: http.SameSiteLaxMode,
    }
}
