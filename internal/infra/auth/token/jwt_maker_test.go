package token

import (
	"testing"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/RoyceAzure/rj/util/random"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestMaker(t *testing.T) *JWTMaker {
	t.Helper()
	maker, err := NewJWTMaker(random.RandomString(32))
	require.NoError(t, err)
	return maker
}

func TestJWTMakerRoundTrip(t *testing.T) {
	maker := newTestMaker(t)

	token, payload, err := maker.CreateToken("user-1", constants.AccessToken, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := maker.DecodeToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", decoded.Sub)
	require.Equal(t, constants.AccessToken, decoded.Type)
	require.Equal(t, payload.Exp, decoded.Exp)
	require.Equal(t, payload.Iat, decoded.Iat)
	require.WithinDuration(t, time.Now().Add(time.Minute), decoded.ExpiresAt(), 2*time.Second)
}

// 過期的 token 仍可解碼, 由 verifier 判斷
func TestJWTMakerDecodesExpiredToken(t *testing.T) {
	maker := newTestMaker(t)

	token, _, err := maker.CreateToken("user-1", constants.RefreshToken, -time.Minute)
	require.NoError(t, err)

	decoded, err := maker.DecodeToken(token)
	require.NoError(t, err)
	require.Equal(t, constants.RefreshToken, decoded.Type)
	require.True(t, decoded.ExpiresAt().Before(time.Now()))
}

func TestJWTMakerRejectsTamperedToken(t *testing.T) {
	maker := newTestMaker(t)
	other := newTestMaker(t)

	token, _, err := other.CreateToken("user-1", constants.AccessToken, time.Minute)
	require.NoError(t, err)

	_, err = maker.DecodeToken(token)
	require.Error(t, err)
	anaErr, ok := err.(*er.AnaError)
	require.True(t, ok)
	require.Equal(t, er.UnauthenticatedCode, anaErr.Code)

	_, err = maker.DecodeToken(token[:len(token)-2] + "xx")
	require.Error(t, err)

	_, err = maker.DecodeToken("not-a-jwt")
	require.Error(t, err)
}

func TestJWTMakerRejectsNoneAlg(t *testing.T) {
	maker := newTestMaker(t)

	c := claims{
		Type:             constants.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = maker.DecodeToken(token)
	require.Error(t, err)
}

func TestNewJWTMakerShortKey(t *testing.T) {
	_, err := NewJWTMaker("short")
	require.Error(t, err)
}
