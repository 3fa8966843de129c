package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/club-service/internal/auth/domain"
	"github.com/campushub/club-service/internal/auth/dto"
	autherror "github.com/campushub/club-service/internal/errors"
	"github.com/campushub/club-service/internal/security"
	"github.com/campushub/club-service/internal/validation"
)

const maxEmailLength = 254

// UserService orchestrates registration, login, refresh rotation and logout
// on top of the token issuer and the persistence collaborators.
type UserService struct {
	users   domain.UserRepository
	refresh domain.RefreshTokenRepository
	tokens  TokenIssuer
	seclog  *security.Logger
}

func NewUserService(users domain.UserRepository, refresh domain.RefreshTokenRepository, tokens TokenIssuer, seclog *security.Logger) *UserService {
	if seclog == nil {
		seclog = security.NewLogger(nil)
	}

	return &UserService{
		users:   users,
		refresh: refresh,
		tokens:  tokens,
		seclog:  seclog,
	}
}

// validateRegisterInput runs every field through the validator and collects
// all failures. Suspicious input is reported to the security log by length
// only.
func (s *UserService) validateRegisterInput(input dto.RegisterInput) *autherror.ValidationError {
	var messages []string

	for _, result := range []validation.ValidationResult{
		validation.ValidateStudentNumber(input.Identifier),
		validation.ValidateEmail(input.Email),
		validation.ValidateLength("email", input.Email, maxEmailLength),
		validation.ValidatePasswordStrength(input.Password),
	} {
		if !result.Valid {
			messages = append(messages, result.Errors...)
		}
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"identifier", input.Identifier},
		{"email", input.Email},
	} {
		if result := validation.ValidateNoSQLInjection(field.name, field.value); !result.Valid {
			s.seclog.LogSuspiciousInput(field.name, input.IPAddress, len(field.value))
			messages = append(messages, result.Errors...)
		}
	}

	if !domain.UserType(input.UserType).Valid() {
		messages = append(messages, "user type must be student or club")
	}

	if len(messages) > 0 {
		return &autherror.ValidationError{Messages: messages}
	}

	return nil
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	if verr := s.validateRegisterInput(input); verr != nil {
		return nil, verr
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	existing, err = s.users.GetByIdentifier(ctx, input.Identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrIdentifierInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		Identifier:   input.Identifier,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		UserType:     domain.UserType(input.UserType),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates by identifier and password. Unknown identifier and
// wrong password produce the identical error so the endpoint cannot be used
// for account enumeration. The refresh token must persist successfully
// before any access token is handed out.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	user, err := s.users.GetByIdentifier(ctx, input.Identifier)
	if err != nil {
		return nil, err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.seclog.LogFailedLogin(input.Identifier, input.IPAddress, "invalid credentials")

		return nil, autherror.ErrInvalidCredentials
	}

	refreshToken, err := s.tokens.IssueRefreshToken(ctx, user.ID, user.UserType)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.UserType, user.Identifier)
	if err != nil {
		return nil, err
	}

	s.seclog.LogSuccessfulLogin(user.Identifier, input.IPAddress)

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// Refresh rotates the credential pair: the presented refresh token is
// revoked and a fresh access+refresh pair issued. Every failure surfaces as
// the same generic error regardless of cause.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenResponse, error) {
	rt, err := s.refresh.GetByToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}

	if rt == nil || rt.State(time.Now()) != domain.TokenStateActive {
		s.seclog.LogAuthorizationFailure("", input.IPAddress, "token_refresh")

		return nil, autherror.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.seclog.LogAuthorizationFailure("", input.IPAddress, "token_refresh")

		return nil, autherror.ErrInvalidRefreshToken
	}

	if err := s.tokens.RevokeRefreshToken(ctx, rt.Token, "rotated"); err != nil {
		return nil, err
	}

	newRefresh, err := s.tokens.IssueRefreshToken(ctx, rt.UserID, rt.UserType)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.UserType, user.Identifier)
	if err != nil {
		return nil, err
	}

	s.seclog.LogTokenRefresh(user.ID, input.IPAddress)

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh.Token,
	}, nil
}

// Logout revokes the presented refresh token. Revoking an unknown or
// already-revoked token succeeds, so logout is idempotent.
func (s *UserService) Logout(ctx context.Context, input dto.LogoutInput) error {
	if err := s.tokens.RevokeRefreshToken(ctx, input.RefreshToken, "logout"); err != nil {
		return err
	}

	s.seclog.LogLogout(input.IPAddress)

	return nil
}
