package domain

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/campushub/club-service/internal/auth/domain UserRepository,RefreshTokenRepository

import "context"

type UserRepository interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	Create(ctx context.Context, user *User) error
}

// RefreshTokenRepository is the persistence collaborator for refresh
// credentials. GetByToken returns (nil, nil) when no row matches; Revoke is
// idempotent and succeeds for already-revoked or unknown tokens.
type RefreshTokenRepository interface {
	Store(ctx context.Context, rt *RefreshToken) error
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)
	Revoke(ctx context.Context, token, reason string) error
}
