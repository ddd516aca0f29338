// Package auth guards the staff-only pages with a bcrypt checked password and
// short lived HS256 tokens carried in a cookie or bearer header.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const (
	// CookieName holds the staff token in browsers.
	CookieName = "skittles_staff"
	// TokenTTL is how long a staff login lasts.
	TokenTTL = 12 * time.Hour
	// RoleStaff is the only role issued.
	RoleStaff = "staff"
)

var (
	ErrDisabled        = errors.New("staff authentication is disabled")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
)

// Claims are the JWT claims of a staff token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Authenticator issues and checks staff tokens.
type Authenticator struct {
	secret       []byte
	passwordHash []byte
	ttl          time.Duration
	now          func() time.Time
}

type contextKey struct{}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is an IP-based rate limiter that prunes stale entries inline.
type IPRateLimiter struct {
	ips map[string]*ipEntry
	mu  sync.Mutex
	r   rate.Limit
	b   int
}
