package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/models"
)

type LikeRepo struct {
	DB DBTX
}

const createLike = `-- name: CreateLike
INSERT INTO likes (blog_id, user_id)
VALUES ($1, $2)
RETURNING id, blog_id, user_id, created_at
`

func (r *LikeRepo) CreateLike(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) (models.Like, error) {
	rows, _ := r.DB.Query(ctx, createLike, blogID, userID)
	like, err := pgx.CollectOneRow(rows, rowToLike)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return like, fmt.Errorf("repo error: %w", apperrors.ErrAlreadyLiked)
		}
		return like, fmt.Errorf("db error: %w", err)
	}

	return like, nil
}

const getLike = `-- name: GetLike
SELECT id, blog_id, user_id, created_at
FROM likes
WHERE blog_id = $1 AND user_id = $2
`

func (r *LikeRepo) GetLike(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) (models.Like, error) {
	rows, _ := r.DB.Query(ctx, getLike, blogID, userID)
	like, err := pgx.CollectOneRow(rows, rowToLike)

	switch {
	case err == nil:
		return like, nil
	case errors.Is(err, pgx.ErrNoRows):
		return like, fmt.Errorf("repo error: %w", apperrors.ErrLikeNotFound)
	default:
		return like, fmt.Errorf("db error: %w", err)
	}
}

const deleteLike = `-- name: DeleteLike
DELETE FROM likes
WHERE id = $1
`

func (r *LikeRepo) DeleteLike(ctx context.Context, likeID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteLike, likeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrLikeNotFound)
	}
	return nil
}

func rowToLike(row pgx.CollectableRow) (models.Like, error) {
	var l models.Like
	err := row.Scan(&l.ID, &l.BlogID, &l.UserID, &l.CreatedAt)
	return l, err
}
