package oidc

import (
	"context"
	"errors"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/backend/go-services/internal/auth"
)

const testSecret = "static-verifier-test-secret"

func signHS256(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestStaticVerifier_ValidToken(t *testing.T) {
	v := NewStaticVerifier(testSecret)
	raw := signHS256(t, jwt.MapClaims{
		"sub":   "u1",
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	tok, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "u1", claims["sub"])
	require.Equal(t, "a@x.com", claims["email"])
}

func TestStaticVerifier_Expired(t *testing.T) {
	v := NewStaticVerifier(testSecret)
	raw := signHS256(t, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, testSecret)

	_, err := v.Verify(context.Background(), raw)
	var aerr *auth.Error
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, auth.KindTokenExpired, aerr.Kind)
}

func TestStaticVerifier_Malformed(t *testing.T) {
	v := NewStaticVerifier(testSecret)
	_, err := v.Verify(context.Background(), "not-a-jwt")
	var aerr *auth.Error
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, auth.KindInvalidTokenFormat, aerr.Kind)
}

func TestStaticVerifier_BadSignature(t *testing.T) {
	v := NewStaticVerifier(testSecret)
	raw := signHS256(t, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "some-other-secret")

	_, err := v.Verify(context.Background(), raw)
	var aerr *auth.Error
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, auth.KindTokenInvalid, aerr.Kind)
	require.NotEmpty(t, aerr.Details)
}

func TestCheckWellFormed(t *testing.T) {
	raw := signHS256(t, jwt.MapClaims{"sub": "u1"}, testSecret)
	require.NoError(t, checkWellFormed(raw))

	err := checkWellFormed("garbage")
	var aerr *auth.Error
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, auth.KindInvalidTokenFormat, aerr.Kind)
}

func TestClassify(t *testing.T) {
	var aerr *auth.Error

	require.ErrorAs(t, classify(&gooidc.TokenExpiredError{Expiry: time.Now().Add(-time.Minute)}), &aerr)
	require.Equal(t, auth.KindTokenExpired, aerr.Kind)

	require.ErrorAs(t, classify(context.DeadlineExceeded), &aerr)
	require.Equal(t, auth.KindTokenInvalid, aerr.Kind)
	require.Equal(t, "token verification timed out", aerr.Details)

	require.ErrorAs(t, classify(errors.New("oidc: issuer did not match")), &aerr)
	require.Equal(t, auth.KindTokenInvalid, aerr.Kind)
	require.Equal(t, "oidc: issuer did not match", aerr.Details)
}
