// Package token signs and verifies the JWTs used for API sessions. Each
// token carries a kind tag ("access" or "refresh") inside its payload; the
// tag is what keeps a short-lived access token from being replayed against
// the refresh endpoint, so every caller accepting a refresh token must check
// the kind after verification.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"

	issuer   = "devfolio"
	audience = "devfolio-api"
)

var (
	// ErrMalformedToken means the token could not be parsed at all.
	ErrMalformedToken = errors.New("malformed token")
	// ErrExpiredToken means the signature checked out but the expiry passed.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidToken covers every other verification failure.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the JWT payload for both token kinds.
type Claims struct {
	jwt.RegisteredClaims
	UserID  int64  `json:"user_id"`
	LoginID string `json:"login_id"`
	Kind    string `json:"kind"`
}

// Codec signs and verifies session tokens with a single HMAC secret.
// The secret and lifetimes are fixed at construction time.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec creates a Codec with the given signing secret and token lifetimes.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess mints a short-lived access token for the user.
func (c *Codec) IssueAccess(userID int64, loginID string) (string, error) {
	return c.issue(userID, loginID, KindAccess, c.accessTTL)
}

// IssueRefresh mints a long-lived refresh token for the user.
func (c *Codec) IssueRefresh(userID int64, loginID string) (string, error) {
	return c.issue(userID, loginID, KindRefresh, c.refreshTTL)
}

func (c *Codec) issue(userID int64, loginID, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:  userID,
		LoginID: loginID,
		Kind:    kind,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the claims. The error
// distinguishes malformed, expired, and otherwise invalid tokens so callers
// can log the reason; the HTTP boundary flattens all three to a uniform 401.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// KindOf decodes the kind tag without verifying the signature, returning
// "" when the token cannot be parsed. It exists for branching and
// telemetry; never trust its result for authorization decisions.
func (c *Codec) KindOf(tokenString string) string {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	return claims.Kind
}
