package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campushub/club-service/internal/auth/domain"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it too, which keeps the tests off a live database.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements domain.UserRepository and
// domain.RefreshTokenRepository over a single connection pool.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, identifier, email, password_hash, user_type, created_at, updated_at`

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user     domain.User
		userType string
	)
	err := row.Scan(&user.ID, &user.Identifier, &user.Email, &user.PasswordHash,
		&userType, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.UserType = domain.UserType(userType)

	return &user, nil
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE identifier = $1 LIMIT 1`

	return r.scanUser(r.db.QueryRow(ctx, query, identifier))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`

	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (identifier, email, password_hash, user_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		user.Identifier, user.Email, user.PasswordHash, string(user.UserType),
		user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Store(ctx context.Context, rt *domain.RefreshToken) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}

	query := `
		INSERT INTO refresh_tokens (id, user_id, user_type, token, created_at, expires_at, revoked, revoked_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		rt.ID, rt.UserID, string(rt.UserType), rt.Token,
		rt.CreatedAt, rt.ExpiresAt, rt.Revoked, rt.RevokedReason)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, user_type, token, created_at, expires_at, revoked, COALESCE(revoked_reason, '')
		FROM refresh_tokens
		WHERE token = $1
		LIMIT 1`

	var (
		rt       domain.RefreshToken
		userType string
	)
	err := r.db.QueryRow(ctx, query, token).Scan(&rt.ID, &rt.UserID, &userType,
		&rt.Token, &rt.CreatedAt, &rt.ExpiresAt, &rt.Revoked, &rt.RevokedReason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	rt.UserType = domain.UserType(userType)

	return &rt, nil
}

// Revoke soft-deletes: the row is kept for the audit trail and only flagged.
// Matching zero rows (unknown or already-revoked token) is not an error.
func (r *PostgresRepository) Revoke(ctx context.Context, token, reason string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_reason = $2
		WHERE token = $1 AND revoked = FALSE`

	_, err := r.db.Exec(ctx, query, token, reason)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}
