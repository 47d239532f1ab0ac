package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/models"
)

type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
	Role           models.Role
}

type UpdateUserParams struct {
	Username       *string
	Email          *string
	HashedPassword *string
	FirstName      *string
	LastName       *string
	SocialLinks    *models.SocialLinks
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with same username or email exists has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id, email or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Update user fields that are not nil in arg
	UpdateUser(ctx context.Context, userID uuid.UUID, arg UpdateUserParams) (models.User, error)

	// List users ordered by creation time
	ListUsers(ctx context.Context, limit int, offset int) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Delete user. Owned content and refresh tokens are removed by the
	// database cascade, not by application code
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken ledger interface
// Presence in the ledger is necessary but not sufficient for a refresh token
// to be usable: the token signature must verify too
type RefreshTokenRepo interface {
	// Save ledger entry for an issued refresh token
	Save(ctx context.Context, token models.RefreshToken) error

	// Report whether the token value is present in the ledger
	Exists(ctx context.Context, tokenString string) (bool, error)

	// Delete entry by token value. Idempotent: deleting an absent token is not an error
	DeleteByValue(ctx context.Context, tokenString string) error

	// Delete every entry the user holds, returns deleted count
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Delete all entries that expired before the given time, returns deleted count
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type CreateBlogParams struct {
	AuthorID uuid.UUID
	Title    string
	Slug     string
	Content  string
	Banner   models.Banner
	Status   models.BlogStatus
}

type UpdateBlogParams struct {
	Title   *string
	Content *string
	Banner  *models.Banner
	Status  *models.BlogStatus
}

type ListBlogsParams struct {
	// Restrict listing to this status when set
	Status models.BlogStatus
	Limit  int
	Offset int
}

// Blog repository interface
type BlogRepo interface {
	// Create blog
	// If slug is taken has to return apperrors.ErrSlugTaken
	CreateBlog(ctx context.Context, arg CreateBlogParams) (models.Blog, error)

	// Get blog by id or slug
	// If blog not found must return apperrors.ErrBlogNotFound
	GetBlogByID(ctx context.Context, blogID uuid.UUID) (models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (models.Blog, error)

	UpdateBlog(ctx context.Context, blogID uuid.UUID, arg UpdateBlogParams) (models.Blog, error)

	// List blogs ordered by publish time, newest first
	ListBlogs(ctx context.Context, arg ListBlogsParams) ([]models.Blog, error)
	CountBlogs(ctx context.Context, status models.BlogStatus) (int64, error)

	DeleteBlog(ctx context.Context, blogID uuid.UUID) error

	// Adjust denormalized counters by delta. The update is an independent
	// statement, intentionally not transactional with child-row writes
	IncViewsCount(ctx context.Context, blogID uuid.UUID) error
	IncLikesCount(ctx context.Context, blogID uuid.UUID, delta int64) (int64, error)
	IncCommentsCount(ctx context.Context, blogID uuid.UUID, delta int64) (int64, error)
}

// Comment repository interface
type CommentRepo interface {
	CreateComment(ctx context.Context, blogID uuid.UUID, userID uuid.UUID, content string) (models.Comment, error)

	// If comment not found must return apperrors.ErrCommentNotFound
	GetCommentByID(ctx context.Context, commentID uuid.UUID) (models.Comment, error)

	ListCommentsByBlog(ctx context.Context, blogID uuid.UUID) ([]models.Comment, error)

	DeleteComment(ctx context.Context, commentID uuid.UUID) error
}

// Like repository interface
type LikeRepo interface {
	// If like for (blogID, userID) exists already has to return apperrors.ErrAlreadyLiked
	CreateLike(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) (models.Like, error)

	// If like not found must return apperrors.ErrLikeNotFound
	GetLike(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) (models.Like, error)

	DeleteLike(ctx context.Context, likeID uuid.UUID) error
}

// Storage bundles all repositories backed by the same database
type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo
	Blog() BlogRepo
	Comment() CommentRepo
	Like() LikeRepo
}
