// Package auth provides the session token service and password helpers.
package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matthewaubert/horizons-api/internal/domain"
)

// TokenService defines operations for issuing and verifying session tokens.
type TokenService interface {
	// Issue creates a signed token carrying the user's identity payload.
	// Tokens are reissued on login, profile update and verification
	// completion; a stale isAdmin/isVerified flag persists until then.
	Issue(ctx context.Context, user *domain.User) (string, error)

	// Verify validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on
	// failure.
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded, verified identity payload extracted from a bearer
// token. It is never persisted server-side; its lifetime is bounded by the
// embedded expiry.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID primitive.ObjectID

	// Username and Slug identify the user in human-readable form.
	Username string
	Slug     string

	// IsAdmin and IsVerified are role flags captured at issue time.
	IsAdmin    bool
	IsVerified bool

	// Standard registered claims
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
