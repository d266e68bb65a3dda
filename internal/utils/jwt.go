package utils // package utils provides the password hasher and the session token codec

import (
    "errors" // sentinel for rejected tokens
    "time"   // issuance and expiry timestamps

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens

    "github.com/iliyamo/mindtrack/internal/model" // Principal carried inside the token
)

// SessionTTL is the fixed lifetime of a session token.  There is no sliding
// renewal: once it passes the user has to log in again.
const SessionTTL = 24 * time.Hour

// ErrInvalidSession is returned by Verify for every rejected token: bad
// signature, malformed structure, unexpected algorithm, missing claims or
// expiry in the past.  Callers treat all of them as "no principal".
var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims is the signed payload.  UserID and Username rebuild the
// Principal; iat and exp live in the embedded registered claims.
type SessionClaims struct {
    UserID   uint64 `json:"userId"`
    Username string `json:"username"`
    jwt.RegisteredClaims
}

// SessionToken is a signed token with its expiry, used to set the cookie.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// SessionCodec signs and verifies session tokens with one process-wide HMAC
// secret.  Rotating the secret invalidates every outstanding token.
type SessionCodec struct {
    secret []byte
    ttl    time.Duration
    now    func() time.Time
}

// NewSessionCodec builds a codec for the given secret with the standard TTL.
func NewSessionCodec(secret string) *SessionCodec {
    return &SessionCodec{secret: []byte(secret), ttl: SessionTTL, now: time.Now}
}

// WithClock returns a copy of the codec that reads time from now.  Tests use it
// to issue tokens in the past.
func (c *SessionCodec) WithClock(now func() time.Time) *SessionCodec {
    cp := *c
    cp.now = now
    return &cp
}

// Sign issues an HS256 token for p with iat = now and exp = now + 24h.  For a
// fixed clock the output is deterministic.
func (c *SessionCodec) Sign(p model.Principal) (SessionToken, error) {
    iat := c.now().UTC().Truncate(time.Second)
    exp := iat.Add(c.ttl)
    claims := SessionClaims{
        UserID:   p.UserID,
        Username: p.Username,
        RegisteredClaims: jwt.RegisteredClaims{
            IssuedAt:  jwt.NewNumericDate(iat),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// Verify checks the signature and expiry of raw and returns the embedded
// principal.  Any failure yields ErrInvalidSession and a zero Principal.
func (c *SessionCodec) Verify(raw string) (model.Principal, error) {
    if raw == "" {
        return model.Principal{}, ErrInvalidSession
    }
    claims := &SessionClaims{}
    tok, err := jwt.ParseWithClaims(raw, claims,
        func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithIssuedAt(),
        jwt.WithTimeFunc(c.now),
    )
    if err != nil || !tok.Valid {
        return model.Principal{}, ErrInvalidSession
    }
    if claims.UserID == 0 || claims.Username == "" {
        return model.Principal{}, ErrInvalidSession
    }
    return model.Principal{UserID: claims.UserID, Username: claims.Username}, nil
}
