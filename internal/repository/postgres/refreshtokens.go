package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (token, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4)
`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) error {
	_, err := r.DB.Exec(ctx, saveToken, token.Token, token.UserID, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const tokenExists = `-- name: RefreshTokenExists
SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1)
`

func (r *RefreshTokenRepo) Exists(ctx context.Context, tokenString string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, tokenExists, tokenString).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const deleteByValue = `-- name: DeleteRefreshTokenByValue
DELETE FROM refresh_tokens
WHERE token = $1
`

// Delete by token value
// Idempotent: no error if the token is absent already
func (r *RefreshTokenRepo) DeleteByValue(ctx context.Context, tokenString string) error {
	_, err := r.DB.Exec(ctx, deleteByValue, tokenString)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const deleteByUser = `-- name: DeleteRefreshTokensByUser
DELETE FROM refresh_tokens
WHERE user_id = $1
`

// Delete every session the user holds, returns deleted count
func (r *RefreshTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteByUser, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

const deleteExpired = `-- name: DeleteExpiredRefreshTokens
DELETE FROM refresh_tokens
WHERE expires_at < $1
`

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpired, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}
