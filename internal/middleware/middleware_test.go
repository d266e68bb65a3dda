package middleware

import (
    "bytes"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/mindtrack/internal/config"
    "github.com/iliyamo/mindtrack/internal/model"
    "github.com/iliyamo/mindtrack/internal/utils"
)

type stubVerifier struct {
    p     model.Principal
    err   error
    calls int
}

func (s *stubVerifier) Verify(string) (model.Principal, error) {
    s.calls++
    return s.p, s.err
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestSession_AttachesPrincipal(t *testing.T) {
    codec := utils.NewSessionCodec("test-secret")
    tok, err := codec.Sign(model.Principal{UserID: 7, Username: "alice"})
    require.NoError(t, err)

    e := echo.New()
    e.Use(Session(codec))
    e.GET("/me", func(c echo.Context) error {
        p, ok := PrincipalFrom(c)
        require.True(t, ok)
        return c.JSON(http.StatusOK, p)
    })

    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Token})
    rec := serve(e, req)

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"userId":7,"username":"alice"}`, rec.Body.String())
}

func TestSession_InvalidTokenLeavesRequestAnonymous(t *testing.T) {
    v := &stubVerifier{err: errors.New("bad")}
    e := echo.New()
    e.Use(Session(v))
    e.GET("/", func(c echo.Context) error {
        _, ok := PrincipalFrom(c)
        assert.False(t, ok)
        return c.NoContent(http.StatusNoContent)
    })

    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
    rec := serve(e, req)

    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.Equal(t, 1, v.calls)
    assert.Empty(t, rec.Header().Values("Set-Cookie"), "invalid cookie must not be cleared")
}

func TestSession_NoCookieSkipsVerification(t *testing.T) {
    v := &stubVerifier{}
    e := echo.New()
    e.Use(Session(v))
    e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.Zero(t, v.calls)
}

func TestRequirePrincipal(t *testing.T) {
    v := &stubVerifier{p: model.Principal{UserID: 3, Username: "bob"}}
    called := 0
    h := RequirePrincipal(func(c echo.Context, p model.Principal) error {
        called++
        assert.Equal(t, uint64(3), p.UserID)
        return c.NoContent(http.StatusOK)
    })

    e := echo.New()
    e.Use(Session(v))
    e.GET("/goals", h)

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/goals", nil))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
    assert.Zero(t, called)

    req := httptest.NewRequest(http.MethodGet, "/goals", nil)
    req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "anything"})
    rec = serve(e, req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, 1, called)
}

func TestPrincipalFrom_RejectsZeroID(t *testing.T) {
    e := echo.New()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
    c.Set(principalKey, model.Principal{Username: "ghost"})
    _, ok := PrincipalFrom(c)
    assert.False(t, ok)
    assert.Equal(t, "anon", userID(c))
}

func newLimitedEcho(t *testing.T, cfg config.RateLimitConfig) (*echo.Echo, *miniredis.Miniredis) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })

    e := echo.New()
    e.POST("/api/auth/login", func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    }, NewTokenBucket(cfg, rdb))
    return e, mr
}

func TestTokenBucket_BlocksAfterCapacity(t *testing.T) {
    cfg := config.RateLimitConfig{
        Enabled:        true,
        Capacity:       2,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            10 * time.Hour,
        KeyStrategy:    "ip_route",
        Prefix:         "rl",
    }
    e, mr := newLimitedEcho(t, cfg)

    for i := 0; i < 2; i++ {
        rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
        require.Equal(t, http.StatusOK, rec.Code)
        assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
    }

    rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
    assert.Equal(t, http.StatusTooManyRequests, rec.Code)
    assert.Contains(t, rec.Body.String(), `"error":"Too many requests"`)
    assert.Contains(t, rec.Body.String(), `"retry_after":`)
    assert.NotEmpty(t, rec.Header().Get("Retry-After"))

    keys := mr.Keys()
    require.Len(t, keys, 1)
    assert.Equal(t, "rl:ip:192.0.2.1:route:POST /api/auth/login", keys[0])
}

func TestTokenBucket_FailsOpen(t *testing.T) {
    cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, KeyStrategy: "ip"}
    e, mr := newLimitedEcho(t, cfg)
    mr.Close()

    for i := 0; i < 3; i++ {
        rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
        assert.Equal(t, http.StatusOK, rec.Code)
    }
}

func TestTokenBucket_DisabledPassesThrough(t *testing.T) {
    e := echo.New()
    e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
        NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil))
    rec := serve(e, httptest.NewRequest(http.MethodPost, "/x", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKey_Strategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/api/auth/register")
    c.Set(principalKey, model.Principal{UserID: 9, Username: "x"})

    cases := map[string]string{
        "ip":         "rl:ip:192.0.2.1",
        "user":       "rl:user:9",
        "user_route": "rl:user:9:route:POST /api/auth/register",
        "other":      "rl:ip:192.0.2.1:user:9:route:POST /api/auth/register",
    }
    for strategy, want := range cases {
        got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
        assert.Equal(t, want, got, strategy)
    }
}

func TestRequestLogger_LogsStatus(t *testing.T) {
    var buf bytes.Buffer
    prev := log.Logger
    log.Logger = zerolog.New(&buf)
    t.Cleanup(func() { log.Logger = prev })

    e := echo.New()
    e.Use(RequestLogger())
    e.GET("/boom", func(c echo.Context) error {
        return echo.NewHTTPError(http.StatusNotFound, "missing")
    })

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    out := buf.String()
    assert.Contains(t, out, `"status":404`)
    assert.Contains(t, out, `"level":"warn"`)
    assert.Contains(t, out, `"path":"/boom"`)
    assert.Contains(t, out, `"user":"anon"`)
}
