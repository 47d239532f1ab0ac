package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/models"
)

type CommentRepo struct {
	DB DBTX
}

const createComment = `-- name: CreateComment
INSERT INTO comments (blog_id, user_id, content)
VALUES ($1, $2, $3)
RETURNING id, blog_id, user_id, content, created_at
`

func (r *CommentRepo) CreateComment(ctx context.Context, blogID uuid.UUID, userID uuid.UUID, content string) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, createComment, blogID, userID, content)
	comment, err := pgx.CollectOneRow(rows, rowToComment)
	if err != nil {
		return comment, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

const getCommentByID = `-- name: GetCommentByID
SELECT id, blog_id, user_id, content, created_at
FROM comments
WHERE id = $1
`

func (r *CommentRepo) GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error) {
	rows, _ := r.DB.Query(ctx, getCommentByID, commentID)
	comment, err := pgx.CollectOneRow(rows, rowToComment)

	switch {
	case err == nil:
		return comment, nil
	case errors.Is(err, pgx.ErrNoRows):
		return comment, fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	default:
		return comment, fmt.Errorf("db error: %w", err)
	}
}

const listCommentsByBlog = `-- name: ListCommentsByBlog
SELECT id, blog_id, user_id, content, created_at
FROM comments
WHERE blog_id = $1
ORDER BY created_at DESC
`

func (r *CommentRepo) ListCommentsByBlog(ctx context.Context, blogID uuid.UUID) ([]models.Comment, error) {
	rows, _ := r.DB.Query(ctx, listCommentsByBlog, blogID)
	comments, err := pgx.CollectRows(rows, rowToComment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comments, nil
}

const deleteComment = `-- name: DeleteComment
DELETE FROM comments
WHERE id = $1
`

func (r *CommentRepo) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteComment, commentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrCommentNotFound)
	}
	return nil
}

func rowToComment(row pgx.CollectableRow) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.BlogID, &c.UserID, &c.Content, &c.CreatedAt)
	return c, err
}
