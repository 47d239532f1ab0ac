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
	"github.com/avelichko/inkwell/internal/repository"
)

type BlogRepo struct {
	DB DBTX
}

const blogColumns = `id, author_id, title, slug, content,
	banner_url, banner_width, banner_height, status,
	views_count, likes_count, comments_count, published_at, updated_at`

const createBlog = `-- name: CreateBlog
INSERT INTO blogs (author_id, title, slug, content, banner_url, banner_width, banner_height, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + blogColumns

func (r *BlogRepo) CreateBlog(ctx context.Context, arg repository.CreateBlogParams) (models.Blog, error) {
	rows, _ := r.DB.Query(ctx, createBlog,
		arg.AuthorID,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Banner.URL,
		arg.Banner.Width,
		arg.Banner.Height,
		arg.Status,
	)
	blog, err := pgx.CollectOneRow(rows, rowToBlog)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return blog, fmt.Errorf("repo error: %w", apperrors.ErrSlugTaken)
		}
		return blog, fmt.Errorf("db error: %w", err)
	}

	return blog, nil
}

const getBlogByID = `-- name: GetBlogByID
SELECT ` + blogColumns + `
FROM blogs
WHERE id = $1
`

func (r *BlogRepo) GetBlogByID(ctx context.Context, blogID uuid.UUID) (models.Blog, error) {
	rows, _ := r.DB.Query(ctx, getBlogByID, blogID)
	return collectBlog(rows)
}

const getBlogBySlug = `-- name: GetBlogBySlug
SELECT ` + blogColumns + `
FROM blogs
WHERE slug = $1
`

func (r *BlogRepo) GetBlogBySlug(ctx context.Context, slug string) (models.Blog, error) {
	rows, _ := r.DB.Query(ctx, getBlogBySlug, slug)
	return collectBlog(rows)
}

const updateBlog = `-- name: UpdateBlog
UPDATE blogs
SET title         = COALESCE($2, title),
    content       = COALESCE($3, content),
    banner_url    = COALESCE($4, banner_url),
    banner_width  = COALESCE($5, banner_width),
    banner_height = COALESCE($6, banner_height),
    status        = COALESCE($7, status),
    updated_at    = now()
WHERE id = $1
RETURNING ` + blogColumns

func (r *BlogRepo) UpdateBlog(ctx context.Context, blogID uuid.UUID, arg repository.UpdateBlogParams) (models.Blog, error) {
	var bannerURL *string
	var bannerWidth, bannerHeight *int
	if arg.Banner != nil {
		bannerURL = &arg.Banner.URL
		bannerWidth = &arg.Banner.Width
		bannerHeight = &arg.Banner.Height
	}

	rows, _ := r.DB.Query(ctx, updateBlog,
		blogID,
		arg.Title,
		arg.Content,
		bannerURL,
		bannerWidth,
		bannerHeight,
		arg.Status,
	)
	return collectBlog(rows)
}

const listBlogs = `-- name: ListBlogs
SELECT ` + blogColumns + `
FROM blogs
WHERE ($1::text = '' OR status = $1)
ORDER BY published_at DESC
LIMIT $2 OFFSET $3
`

func (r *BlogRepo) ListBlogs(ctx context.Context, arg repository.ListBlogsParams) ([]models.Blog, error) {
	rows, _ := r.DB.Query(ctx, listBlogs, string(arg.Status), arg.Limit, arg.Offset)
	blogs, err := pgx.CollectRows(rows, rowToBlog)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return blogs, nil
}

const countBlogs = `-- name: CountBlogs
SELECT count(*) FROM blogs
WHERE ($1::text = '' OR status = $1)
`

func (r *BlogRepo) CountBlogs(ctx context.Context, status models.BlogStatus) (int64, error) {
	var total int64
	err := r.DB.QueryRow(ctx, countBlogs, string(status)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

const deleteBlog = `-- name: DeleteBlog
DELETE FROM blogs
WHERE id = $1
`

func (r *BlogRepo) DeleteBlog(ctx context.Context, blogID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteBlog, blogID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrBlogNotFound)
	}
	return nil
}

const incViewsCount = `-- name: IncViewsCount
UPDATE blogs
SET views_count = views_count + 1
WHERE id = $1
`

func (r *BlogRepo) IncViewsCount(ctx context.Context, blogID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, incViewsCount, blogID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const incLikesCount = `-- name: IncLikesCount
UPDATE blogs
SET likes_count = greatest(likes_count + $2, 0)
WHERE id = $1
RETURNING likes_count
`

func (r *BlogRepo) IncLikesCount(ctx context.Context, blogID uuid.UUID, delta int64) (int64, error) {
	rows, _ := r.DB.Query(ctx, incLikesCount, blogID, delta)
	count, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])

	switch {
	case err == nil:
		return count, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("repo error: %w", apperrors.ErrBlogNotFound)
	default:
		return 0, fmt.Errorf("db error: %w", err)
	}
}

const incCommentsCount = `-- name: IncCommentsCount
UPDATE blogs
SET comments_count = greatest(comments_count + $2, 0)
WHERE id = $1
RETURNING comments_count
`

func (r *BlogRepo) IncCommentsCount(ctx context.Context, blogID uuid.UUID, delta int64) (int64, error) {
	rows, _ := r.DB.Query(ctx, incCommentsCount, blogID, delta)
	count, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])

	switch {
	case err == nil:
		return count, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, fmt.Errorf("repo error: %w", apperrors.ErrBlogNotFound)
	default:
		return 0, fmt.Errorf("db error: %w", err)
	}
}

func collectBlog(rows pgx.Rows) (models.Blog, error) {
	blog, err := pgx.CollectOneRow(rows, rowToBlog)

	switch {
	case err == nil:
		return blog, nil
	case errors.Is(err, pgx.ErrNoRows):
		return blog, fmt.Errorf("repo error: %w", apperrors.ErrBlogNotFound)
	default:
		return blog, fmt.Errorf("db error: %w", err)
	}
}

func rowToBlog(row pgx.CollectableRow) (models.Blog, error) {
	var b models.Blog
	err := row.Scan(
		&b.ID,
		&b.AuthorID,
		&b.Title,
		&b.Slug,
		&b.Content,
		&b.Banner.URL,
		&b.Banner.Width,
		&b.Banner.Height,
		&b.Status,
		&b.ViewsCount,
		&b.LikesCount,
		&b.CommentsCount,
		&b.PublishedAt,
		&b.UpdatedAt,
	)
	return b, err
}
