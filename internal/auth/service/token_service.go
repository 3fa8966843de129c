package service

//go:generate mockgen -destination=../../mocks/mock_token_issuer.go -package=mocks github.com/campushub/club-service/internal/auth/service TokenIssuer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campushub/club-service/internal/auth/domain"
	autherror "github.com/campushub/club-service/internal/errors"
	"github.com/campushub/club-service/internal/security"
)

// Token lifetimes are fixed by contract: access tokens live exactly 30
// minutes, refresh tokens exactly 7 days.
const (
	AccessTokenTTL  = 30 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	refreshTokenBytes = 64
)

type TokenIssuer interface {
	IssueAccessToken(userID int, userType domain.UserType, subject string) (string, error)
	IssueRefreshToken(ctx context.Context, userID int, userType domain.UserType) (*domain.RefreshToken, error)
	ValidateAccessToken(tokenString string) (*domain.Principal, error)
	ValidateRefreshToken(ctx context.Context, tokenString string) (bool, error)
	RevokeRefreshToken(ctx context.Context, tokenString, reason string) error
}

// TokenClaims is the full claim set carried by every access token. UserID
// and UserType must always be present: authorization reads them straight
// from the token without a database round-trip.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"userId"`
	UserType string `json:"userType"`
}

// TokenService mints and validates HS256-signed access tokens and owns the
// lifecycle of persisted opaque refresh credentials.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string

	tokens domain.RefreshTokenRepository
	seclog *security.Logger

	now func() time.Time
}

func NewTokenService(secret, issuer, audience string, tokens domain.RefreshTokenRepository, seclog *security.Logger) *TokenService {
	if seclog == nil {
		seclog = security.NewLogger(nil)
	}

	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		tokens:   tokens,
		seclog:   seclog,
		now:      time.Now,
	}
}

// IssueAccessToken builds and signs a self-contained credential expiring 30
// minutes from now. Pure computation: no I/O beyond reading the clock.
func (ts *TokenService) IssueAccessToken(userID int, userType domain.UserType, subject string) (string, error) {
	now := ts.now()

	claims := TokenClaims{
		UserID:   userID,
		UserType: string(userType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    ts.issuer,
			Audience:  jwt.ClaimStrings{ts.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken verifies signature, issuer, audience and expiry with
// zero clock-skew leeway. Every failure collapses into ErrInvalidAccessToken
// so callers cannot distinguish expired from tampered from malformed.
func (ts *TokenService) ValidateAccessToken(tokenString string) (*domain.Principal, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return ts.secret, nil
	}, jwt.WithIssuer(ts.issuer), jwt.WithAudience(ts.audience), jwt.WithIssuedAt())
	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidAccessToken
	}

	return &domain.Principal{
		UserID:   claims.UserID,
		UserType: domain.UserType(claims.UserType),
		Subject:  claims.Subject,
	}, nil
}

// IssueRefreshToken generates a 512-bit random opaque credential, persists
// it, and returns the stored record. A failed persistence write fails the
// whole issuance; callers must not hand out an access token without it.
func (ts *TokenService) IssueRefreshToken(ctx context.Context, userID int, userType domain.UserType) (*domain.RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := ts.now()

	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserType:  userType,
		Token:     base64.RawURLEncoding.EncodeToString(buf),
		CreatedAt: now,
		ExpiresAt: now.Add(RefreshTokenTTL),
	}

	if err := ts.tokens.Store(ctx, rt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return rt, nil
}

// ValidateRefreshToken reports whether a stored token is currently active.
// Absence, revocation and expiry are all the same false result; the error is
// only ever a persistence failure.
func (ts *TokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (bool, error) {
	rt, err := ts.tokens.GetByToken(ctx, tokenString)
	if err != nil {
		return false, fmt.Errorf("refresh token lookup: %w", err)
	}
	if rt == nil {
		return false, nil
	}

	return rt.State(ts.now()) == domain.TokenStateActive, nil
}

// RevokeRefreshToken marks the token revoked. Revoking an already-revoked or
// unknown token is a no-op.
func (ts *TokenService) RevokeRefreshToken(ctx context.Context, tokenString, reason string) error {
	if err := ts.tokens.Revoke(ctx, tokenString, reason); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}
