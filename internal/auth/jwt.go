package auth

import (
	"errors"
	"fmt"
	"time"

	"project-service/internal/domain/user"
	"project-service/internal/security"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Claims is the verified content of a token. It is only produced by
// ParseAndVerify.
type Claims struct {
	subject   string
	role      user.Role
	issuedAt  time.Time
	expiresAt time.Time
}

func (c *Claims) Subject() string      { return c.subject }
func (c *Claims) Role() user.Role      { return c.role }
func (c *Claims) IssuedAt() time.Time  { return c.issuedAt }
func (c *Claims) ExpiresAt() time.Time { return c.expiresAt }

type Option func(*TokenCodec)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// TokenCodec issues and verifies HS256 bearer tokens. It is immutable after
// construction and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenCodec(secret string, opts ...Option) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New(msgSecretRequired)
	}

	c := &TokenCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	return c, nil
}

// Issue signs a token for p that expires TokenTTL from now.
func (c *TokenCodec) Issue(p security.Principal) (string, error) {
	if p.Identifier == "" {
		return "", errors.New(msgIdentifierRequired)
	}
	if !p.Role.Valid() {
		return "", fmt.Errorf(msgInvalidPrincipalRoleFmt, p.Role)
	}

	now := c.now()
	claims := tokenClaims{
		Role: p.Role.Authority(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// ParseAndVerify checks the signature first and the expiry second. Every
// error is a *TokenError.
func (c *TokenCodec) ParseAndVerify(raw string) (*Claims, error) {
	token, err := c.parser.ParseWithClaims(raw, &tokenClaims{}, c.key)
	if err != nil {
		return nil, classify(token, err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, newTokenError(TokenMalformed, errors.New(msgInvalidTokenClaims))
	}

	if tc.Subject == "" {
		return nil, newTokenError(TokenMalformed, errors.New(msgSubjectMissing))
	}

	role, err := user.ParseRole(tc.Role)
	if err != nil {
		return nil, newTokenError(TokenMalformed, err)
	}

	if tc.ExpiresAt == nil {
		return nil, newTokenError(TokenMalformed, errors.New(msgExpiryMissing))
	}

	claims := &Claims{
		subject:   tc.Subject,
		role:      role,
		expiresAt: tc.ExpiresAt.Time,
	}
	if tc.IssuedAt != nil {
		claims.issuedAt = tc.IssuedAt.Time
	}

	return claims, nil
}

func (c *TokenCodec) key(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
	}
	return c.secret, nil
}

// classify maps parser errors onto the three rejection kinds. A token whose
// alg is not HS256 is malformed, not a bad signature.
func classify(token *jwt.Token, err error) *TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenUnverifiable):
		return newTokenError(TokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		if token != nil && token.Method != nil && token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return newTokenError(TokenMalformed, err)
		}
		return newTokenError(TokenSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newTokenError(TokenExpired, err)
	default:
		return newTokenError(TokenMalformed, err)
	}
}
