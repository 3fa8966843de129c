package domain

import "time"

// RefreshTokenState is the tagged lifecycle state of a refresh token.
// Revoked and Expired are both terminal and must be indistinguishable to
// callers of validation.
type RefreshTokenState string

const (
	TokenStateActive  RefreshTokenState = "active"
	TokenStateRevoked RefreshTokenState = "revoked"
	TokenStateExpired RefreshTokenState = "expired"
)

// RefreshToken is the persisted opaque credential exchanged for a new access
// token. Rows are revoked, never deleted, so the audit history survives.
type RefreshToken struct {
	ID            string
	UserID        int
	UserType      UserType
	Token         string // 64 random bytes, base64-encoded
	CreatedAt     time.Time
	ExpiresAt     time.Time
	Revoked       bool
	RevokedReason string
}

// State derives the lifecycle state at the given instant. Revocation wins
// over expiry; both are terminal.
func (rt *RefreshToken) State(now time.Time) RefreshTokenState {
	switch {
	case rt.Revoked:
		return TokenStateRevoked
	case !now.Before(rt.ExpiresAt):
		return TokenStateExpired
	default:
		return TokenStateActive
	}
}
