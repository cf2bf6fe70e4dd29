package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"project-service/internal/domain/user"
	"project-service/internal/security"
	apperrors "project-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k3T9vQ2xL8mN4pR7sW1yZ6bC5dF0gH2jU8eA"

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newCodec(t *testing.T, secret string, now time.Time) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec(secret, WithClock(fixedClock(now)))
	require.NoError(t, err)
	return c
}

func alice() security.Principal {
	return security.Principal{ID: 1, Identifier: "alice@example.com", DisplayName: "Alice", Role: user.RoleAdmin}
}

func requireKind(t *testing.T, err error, kind TokenErrorKind) {
	t.Helper()
	require.Error(t, err)

	var tokenErr *TokenError
	require.True(t, errors.As(err, &tokenErr), "expected *TokenError, got %T", err)
	assert.Equal(t, kind, tokenErr.Kind, "error: %v", err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t, testSecret, t0)

	token, err := codec.Issue(alice())
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := codec.ParseAndVerify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject())
	assert.Equal(t, user.RoleAdmin, claims.Role())
	assert.True(t, claims.IssuedAt().Equal(t0))
	assert.True(t, claims.ExpiresAt().Equal(t0.Add(TokenTTL)))
}

func TestTokenCodec_RoleClaimUsesAuthorityForm(t *testing.T) {
	codec := newCodec(t, testSecret, t0)

	token, err := codec.Issue(security.Principal{Identifier: "bob@example.com", Role: user.RoleUser})
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"role":"ROLE_USER"`)
	assert.Contains(t, string(payload), `"sub":"bob@example.com"`)
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	codec := newCodec(t, testSecret, t0)

	token, err := codec.Issue(security.Principal{Identifier: "bob@example.com", Role: user.RoleUser})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	forged := strings.Replace(string(payload), "ROLE_USER", "ROLE_ADMIN", 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = codec.ParseAndVerify(strings.Join(parts, "."))
	requireKind(t, err, TokenSignatureInvalid)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	issuer := newCodec(t, testSecret, t0)
	verifier := newCodec(t, testSecret+"-other", t0)

	token, err := issuer.Issue(alice())
	require.NoError(t, err)

	_, err = verifier.ParseAndVerify(token)
	requireKind(t, err, TokenSignatureInvalid)
}

func TestTokenCodec_Expiry(t *testing.T) {
	token, err := newCodec(t, testSecret, t0).Issue(alice())
	require.NoError(t, err)

	_, err = newCodec(t, testSecret, t0.Add(TokenTTL-time.Second)).ParseAndVerify(token)
	assert.NoError(t, err)

	// exp == now is already expired
	_, err = newCodec(t, testSecret, t0.Add(TokenTTL)).ParseAndVerify(token)
	requireKind(t, err, TokenExpired)

	_, err = newCodec(t, testSecret, t0.Add(TokenTTL+time.Hour)).ParseAndVerify(token)
	requireKind(t, err, TokenExpired)
}

func TestTokenCodec_SignatureCheckedBeforeExpiry(t *testing.T) {
	token, err := newCodec(t, testSecret, t0).Issue(alice())
	require.NoError(t, err)

	_, err = newCodec(t, "another-secret-entirely-0123456789", t0.Add(48*time.Hour)).ParseAndVerify(token)
	requireKind(t, err, TokenSignatureInvalid)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := newCodec(t, testSecret, t0)
	valid := jwt.RegisteredClaims{
		Subject:   "alice@example.com",
		IssuedAt:  jwt.NewNumericDate(t0),
		ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
	}

	noneToken := signRaw(t, jwt.SigningMethodNone, tokenClaims{Role: "ROLE_ADMIN", RegisteredClaims: valid}, jwt.UnsafeAllowNoneSignatureType)
	hs512Token := signRaw(t, jwt.SigningMethodHS512, tokenClaims{Role: "ROLE_ADMIN", RegisteredClaims: valid}, []byte(testSecret))

	noSubject := valid
	noSubject.Subject = ""
	noSubjectToken := signRaw(t, jwt.SigningMethodHS256, tokenClaims{Role: "ROLE_USER", RegisteredClaims: noSubject}, []byte(testSecret))

	badRoleToken := signRaw(t, jwt.SigningMethodHS256, tokenClaims{Role: "ROLE_ROOT", RegisteredClaims: valid}, []byte(testSecret))

	noExpiry := valid
	noExpiry.ExpiresAt = nil
	noExpiryToken := signRaw(t, jwt.SigningMethodHS256, tokenClaims{Role: "ROLE_USER", RegisteredClaims: noExpiry}, []byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one part", "abc"},
		{"two parts", "abc.def"},
		{"garbage parts", "a.b.c"},
		{"alg none", noneToken},
		{"alg hs512", hs512Token},
		{"missing subject", noSubjectToken},
		{"unknown role", badRoleToken},
		{"missing expiry", noExpiryToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.ParseAndVerify(tt.token)
			requireKind(t, err, TokenMalformed)
		})
	}
}

func TestTokenCodec_IssueRejectsIncompletePrincipal(t *testing.T) {
	codec := newCodec(t, testSecret, t0)

	_, err := codec.Issue(security.Principal{Role: user.RoleUser})
	assert.Error(t, err)

	_, err = codec.Issue(security.Principal{Identifier: "x@example.com"})
	assert.Error(t, err)
}

func TestNewTokenCodec_EmptySecret(t *testing.T) {
	_, err := NewTokenCodec("")
	assert.Error(t, err)
}
