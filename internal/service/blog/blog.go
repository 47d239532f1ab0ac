package blog

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/repository"
)

type BlogService struct {
	blogRepo    repository.BlogRepo
	commentRepo repository.CommentRepo
	likeRepo    repository.LikeRepo
}

func NewService(blogRepo repository.BlogRepo, commentRepo repository.CommentRepo, likeRepo repository.LikeRepo) *BlogService {
	return &BlogService{
		blogRepo:    blogRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
	}
}

type CreateParams struct {
	AuthorID uuid.UUID
	Title    string
	Content  string
	Banner   models.Banner
	Status   models.BlogStatus
}

// CreateBlog creates a blog with a slug derived from the title.
// On slug collision a short random suffix is appended and the insert retried
func (s *BlogService) CreateBlog(ctx context.Context, params CreateParams) (models.Blog, error) {
	if params.Status == "" {
		params.Status = models.BlogStatusDraft
	}

	arg := repository.CreateBlogParams{
		AuthorID: params.AuthorID,
		Title:    params.Title,
		Slug:     slug.Make(params.Title),
		Content:  params.Content,
		Banner:   params.Banner,
		Status:   params.Status,
	}

	blog, err := s.blogRepo.CreateBlog(ctx, arg)
	if errors.Is(err, apperrors.ErrSlugTaken) {
		suffix, suffixErr := randomSuffix()
		if suffixErr != nil {
			return models.Blog{}, suffixErr
		}
		arg.Slug = arg.Slug + "-" + suffix
		blog, err = s.blogRepo.CreateBlog(ctx, arg)
	}

	return blog, err
}

// ListBlogs returns a page of blogs with the unpaged total.
// Non-admin viewers see published blogs only
func (s *BlogService) ListBlogs(ctx context.Context, viewer models.User, limit int, offset int) ([]models.Blog, int64, error) {
	var status models.BlogStatus
	if viewer.Role != models.RoleAdmin {
		status = models.BlogStatusPublished
	}

	total, err := s.blogRepo.CountBlogs(ctx, status)
	if err != nil {
		return nil, 0, err
	}

	blogs, err := s.blogRepo.ListBlogs(ctx, repository.ListBlogsParams{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

// GetBlogBySlug resolves a blog for the viewer and counts the view.
// Drafts are visible to admins only, everyone else gets not found
func (s *BlogService) GetBlogBySlug(ctx context.Context, viewer models.User, blogSlug string) (models.Blog, error) {
	blog, err := s.blogRepo.GetBlogBySlug(ctx, blogSlug)
	if err != nil {
		return models.Blog{}, err
	}

	if blog.Status == models.BlogStatusDraft && viewer.Role != models.RoleAdmin {
		return models.Blog{}, fmt.Errorf("blog %q: %w", blogSlug, apperrors.ErrBlogNotFound)
	}

	if err := s.blogRepo.IncViewsCount(ctx, blog.ID); err != nil {
		return models.Blog{}, err
	}
	blog.ViewsCount++

	return blog, nil
}

type UpdateParams struct {
	Title   *string
	Content *string
	Banner  *models.Banner
	Status  *models.BlogStatus
}

func (s *BlogService) UpdateBlog(ctx context.Context, blogID uuid.UUID, params UpdateParams) (models.Blog, error) {
	return s.blogRepo.UpdateBlog(ctx, blogID, repository.UpdateBlogParams{
		Title:   params.Title,
		Content: params.Content,
		Banner:  params.Banner,
		Status:  params.Status,
	})
}

// DeleteBlog removes a blog. Allowed to the author and to admins
func (s *BlogService) DeleteBlog(ctx context.Context, actor models.User, blogID uuid.UUID) error {
	blog, err := s.blogRepo.GetBlogByID(ctx, blogID)
	if err != nil {
		return err
	}

	if blog.AuthorID != actor.ID && actor.Role != models.RoleAdmin {
		return fmt.Errorf("delete blog %s: %w", blogID, apperrors.ErrInsufficientRole)
	}

	return s.blogRepo.DeleteBlog(ctx, blogID)
}

// CreateComment adds a comment and bumps the blog's comment counter.
// The two writes are independent statements, a crash in between leaves the
// counter behind by one which is acceptable for a denormalized value
func (s *BlogService) CreateComment(ctx context.Context, blogID uuid.UUID, userID uuid.UUID, content string) (models.Comment, error) {
	if _, err := s.blogRepo.GetBlogByID(ctx, blogID); err != nil {
		return models.Comment{}, err
	}

	comment, err := s.commentRepo.CreateComment(ctx, blogID, userID, content)
	if err != nil {
		return models.Comment{}, err
	}

	if _, err := s.blogRepo.IncCommentsCount(ctx, blogID, 1); err != nil {
		return models.Comment{}, err
	}

	return comment, nil
}

func (s *BlogService) ListComments(ctx context.Context, blogID uuid.UUID) ([]models.Comment, error) {
	if _, err := s.blogRepo.GetBlogByID(ctx, blogID); err != nil {
		return nil, err
	}

	return s.commentRepo.ListCommentsByBlog(ctx, blogID)
}

// DeleteComment removes a comment. Allowed to the comment author and admins
func (s *BlogService) DeleteComment(ctx context.Context, actor models.User, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != actor.ID && actor.Role != models.RoleAdmin {
		return fmt.Errorf("delete comment %s: %w", commentID, apperrors.ErrInsufficientRole)
	}

	if err := s.commentRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	_, err = s.blogRepo.IncCommentsCount(ctx, comment.BlogID, -1)
	return err
}

// LikeBlog records a like and returns the updated counter.
// Liking twice is a client error
func (s *BlogService) LikeBlog(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) (int64, error) {
	if _, err := s.blogRepo.GetBlogByID(ctx, blogID); err != nil {
		return 0, err
	}

	if _, err := s.likeRepo.CreateLike(ctx, blogID, userID); err != nil {
		return 0, err
	}

	return s.blogRepo.IncLikesCount(ctx, blogID, 1)
}

// UnlikeBlog removes an existing like and decrements the counter
func (s *BlogService) UnlikeBlog(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) error {
	like, err := s.likeRepo.GetLike(ctx, blogID, userID)
	if err != nil {
		return err
	}

	if err := s.likeRepo.DeleteLike(ctx, like.ID); err != nil {
		return err
	}

	_, err = s.blogRepo.IncLikesCount(ctx, blogID, -1)
	return err
}

func randomSuffix() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating slug suffix. Err: %w", err)
	}
	return hex.EncodeToString(b), nil
}
