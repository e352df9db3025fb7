// Package auth provides JWT session tokens and password hashing.
//
// Tokens are stateless: nothing is stored server-side, validity is decided
// solely by the HMAC signature and the expiry claim at verification time.
// The signing key is injected at construction; when the environment does
// not provide one, main generates a random key per process start, so
// sessions do not survive a restart.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the session token lifetime.
const DefaultTokenTTL = 7 * 24 * time.Hour

const issuer = "ultimate-kits"

var (
	// ErrTokenExpired is returned by Verify for a structurally valid,
	// correctly signed token whose expiry has passed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid is returned for every other verification failure
	// (bad signature, malformed token, wrong algorithm, missing subject).
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// Claims is the JWT payload. Subject carries the user ID; the email and
// admin flag ride along so the admin check needs no store lookup.
type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a symmetric HS256 key.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue signs a token for the given identity with the default 7-day TTL.
func (s *TokenService) Issue(userID, email string, isAdmin bool) (string, error) {
	return s.IssueWithTTL(userID, email, isAdmin, DefaultTokenTTL)
}

// IssueWithTTL signs a token with a custom lifetime. Used by tests to
// produce already-expired tokens.
func (s *TokenService) IssueWithTTL(userID, email string, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Email:   email,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token string, returning its claims.
//
// Restricting the accepted methods to HS256 blocks algorithm confusion
// attacks where an attacker substitutes "none" or an asymmetric method.
// Verification has no side effects.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrTokenInvalid)
	}

	return c, nil
}

// SubjectOf decodes a token and returns its subject, or "" if the token
// cannot be verified. The visit tracker uses this for best-effort user
// attribution; a decode failure there must never fail the request.
func (s *TokenService) SubjectOf(tokenStr string) string {
	c, err := s.Verify(tokenStr)
	if err != nil {
		return ""
	}
	return c.Subject
}
