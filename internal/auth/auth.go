package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// New creates an Authenticator. An empty passwordHash disables staff checks,
// which is only meant for local development.
func New(secret, passwordHash string) *Authenticator {
	if passwordHash == "" {
		log.Warn("STAFF_PASSWORD_HASH is not set, staff pages are open to everyone")
	}
	return &Authenticator{
		secret:       []byte(secret),
		passwordHash: []byte(passwordHash),
		ttl:          TokenTTL,
		now:          time.Now,
	}
}

// Enabled reports whether a staff password is configured.
func (a *Authenticator) Enabled() bool {
	return len(a.passwordHash) > 0
}

// HashPassword returns the bcrypt hash to put in STAFF_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the staff password and returns a signed token with its expiry.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidPassword
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   RoleStaff,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: RoleStaff,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses a token and checks its signature, expiry and role.
func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleStaff {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// WithClaims stores validated claims on the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by RequireStaff, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}
