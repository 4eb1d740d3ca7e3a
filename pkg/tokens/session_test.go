package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-session-secret")

func TestSignSession_RoundTrip(t *testing.T) {
	exp := time.Now().Add(time.Hour).UTC()

	tok, err := SignSession(7, "sid-1", exp, secret)
	require.NoError(t, err)

	claims, err := SessionClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)
}

func TestSessionClaimsFromToken_Rejects(t *testing.T) {
	valid, err := SignSession(1, "sid", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	expired, err := SignSession(1, "sid", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	noJTI, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	}).SignedString(secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ID: "sid"},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "garbage", token: "not-a-jwt", secret: secret},
		{name: "wrong secret", token: valid, secret: []byte("other")},
		{name: "expired", token: expired, secret: secret},
		{name: "missing jti", token: noJTI, secret: secret},
		{name: "wrong alg", token: hs512, secret: secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := SessionClaimsFromToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestSessionClaims_UserID_Invalid(t *testing.T) {
	c := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	require.Error(t, err)
}
