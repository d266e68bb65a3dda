package utils

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mindtrack/internal/model"
)

var alice = model.Principal{UserID: 7, Username: "alice"}

func TestSessionCodec_SignVerify(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("super-secret")
	tok, err := codec.Sign(alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), tok.Exp, 2*time.Second)

	got, err := codec.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestSessionCodec_DeterministicForFixedClock(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	codec := NewSessionCodec("k").WithClock(func() time.Time { return at })
	a, err := codec.Sign(alice)
	require.NoError(t, err)
	b, err := codec.Sign(alice)
	require.NoError(t, err)
	assert.Equal(t, a.Token, b.Token)
	assert.Equal(t, at.Add(24*time.Hour), a.Exp)
}

func TestSessionCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewSessionCodec("S1").Sign(alice)
	require.NoError(t, err)

	_, err = NewSessionCodec("S2").Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_Expired(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("k")
	old := codec.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) })
	tok, err := old.Sign(alice)
	require.NoError(t, err)

	// Correct signature, but exp is an hour in the past.
	_, err = codec.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_StillValidJustBeforeExpiry(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("k")
	old := codec.WithClock(func() time.Time { return time.Now().Add(-23 * time.Hour) })
	tok, err := old.Sign(alice)
	require.NoError(t, err)

	got, err := codec.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestSessionCodec_TamperedPayload(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("k")
	tok, err := codec.Sign(alice)
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))
	claims["userId"] = 8
	forged, err := json.Marshal(claims)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = codec.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	claims := SessionClaims{
		UserID:   alice.UserID,
		Username: alice.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionCodec("k").Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_MissingExpiry(t *testing.T) {
	t.Parallel()

	claims := SessionClaims{UserID: 1, Username: "bob"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewSessionCodec("k").Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("k")
	for _, raw := range []string{"", "not.a.jwt", "a.b", "....", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := codec.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidSession, "token %q", raw)
	}
}
