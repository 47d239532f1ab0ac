package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/handlers/render"
	"github.com/avelichko/inkwell/internal/logger"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/service/blog"
)

type blogService interface {
	CreateBlog(ctx context.Context, params blog.CreateParams) (models.Blog, error)
	ListBlogs(ctx context.Context, viewer models.User, limit int, offset int) ([]models.Blog, int64, error)
	GetBlogBySlug(ctx context.Context, viewer models.User, blogSlug string) (models.Blog, error)
	UpdateBlog(ctx context.Context, blogID uuid.UUID, params blog.UpdateParams) (models.Blog, error)
	DeleteBlog(ctx context.Context, actor models.User, blogID uuid.UUID) error
	CreateComment(ctx context.Context, blogID uuid.UUID, userID uuid.UUID, content string) (models.Comment, error)
	ListComments(ctx context.Context, blogID uuid.UUID) ([]models.Comment, error)
	DeleteComment(ctx context.Context, actor models.User, commentID uuid.UUID) error
	LikeBlog(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) (int64, error)
	UnlikeBlog(ctx context.Context, blogID uuid.UUID, userID uuid.UUID) error
}

type BlogHandler struct {
	blogs  blogService
	logger logger.Logger
}

func NewBlog(blogs blogService, l logger.Logger) *BlogHandler {
	return &BlogHandler{blogs: blogs, logger: l}
}

type blogResponse struct {
	ID            uuid.UUID         `json:"id"`
	AuthorID      uuid.UUID         `json:"authorId"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Content       string            `json:"content,omitempty"`
	Banner        models.Banner     `json:"banner"`
	Status        models.BlogStatus `json:"status"`
	ViewsCount    int64             `json:"viewsCount"`
	LikesCount    int64             `json:"likesCount"`
	CommentsCount int64             `json:"commentsCount"`
	PublishedAt   time.Time         `json:"publishedAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func toBlogResponse(b models.Blog) blogResponse {
	return blogResponse{
		ID:            b.ID,
		AuthorID:      b.AuthorID,
		Title:         b.Title,
		Slug:          b.Slug,
		Content:       b.Content,
		Banner:        b.Banner,
		Status:        b.Status,
		ViewsCount:    b.ViewsCount,
		LikesCount:    b.LikesCount,
		CommentsCount: b.CommentsCount,
		PublishedAt:   b.PublishedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (h *BlogHandler) create(w http.ResponseWriter, r *http.Request) {
	type createRequest struct {
		Title   string        `json:"title" validate:"required,max=100"`
		Content string        `json:"content" validate:"required"`
		Banner  models.Banner `json:"banner"`
		Status  string        `json:"status" validate:"omitempty,oneof=draft published"`
	}

	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	data, err := render.BindAndValidate[createRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.blogs.CreateBlog(r.Context(), blog.CreateParams{
		AuthorID: u.ID,
		Title:    data.Title,
		Content:  data.Content,
		Banner:   data.Banner,
		Status:   models.BlogStatus(data.Status),
	})
	if err != nil {
		render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
		h.logger.Error("error creating blog", "error", err.Error())
		return
	}

	render.JSONStatus(w, map[string]blogResponse{"blog": toBlogResponse(created)}, http.StatusCreated)
	h.logger.Info("blog created", "blog_id", created.ID, "author_id", u.ID)
}

func (h *BlogHandler) list(w http.ResponseWriter, r *http.Request) {
	type listResponse struct {
		Blogs  []blogResponse `json:"blogs"`
		Total  int64          `json:"total"`
		Limit  int            `json:"limit"`
		Offset int            `json:"offset"`
	}

	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	limit, offset := pagination(r)

	blogs, total, err := h.blogs.ListBlogs(r.Context(), u, limit, offset)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
		h.logger.Error("error listing blogs", "error", err.Error())
		return
	}

	resp := listResponse{
		Blogs:  make([]blogResponse, 0, len(blogs)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, b := range blogs {
		item := toBlogResponse(b)
		item.Content = "" // list view carries metadata only
		resp.Blogs = append(resp.Blogs, item)
	}

	render.JSON(w, resp)
}

func (h *BlogHandler) getBySlug(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	b, err := h.blogs.GetBlogBySlug(r.Context(), u, r.PathValue("slug"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlogNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Blog not found")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error getting blog", "error", err.Error())
		}
		return
	}

	render.JSON(w, map[string]blogResponse{"blog": toBlogResponse(b)})
}

func (h *BlogHandler) update(w http.ResponseWriter, r *http.Request) {
	type updateRequest struct {
		Title   *string        `json:"title" validate:"omitempty,max=100"`
		Content *string        `json:"content"`
		Banner  *models.Banner `json:"banner"`
		Status  *string        `json:"status" validate:"omitempty,oneof=draft published"`
	}

	blogID, err := uuid.Parse(r.PathValue("blogID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "Invalid blog Id")
		return
	}

	data, err := render.BindAndValidate[updateRequest](w, r)
	if err != nil {
		return
	}

	params := blog.UpdateParams{
		Title:   data.Title,
		Content: data.Content,
		Banner:  data.Banner,
	}
	if data.Status != nil {
		status := models.BlogStatus(*data.Status)
		params.Status = &status
	}

	updated, err := h.blogs.UpdateBlog(r.Context(), blogID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlogNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Blog not found")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error updating blog", "error", err.Error())
		}
		return
	}

	render.JSON(w, map[string]blogResponse{"blog": toBlogResponse(updated)})
	h.logger.Info("blog updated", "blog_id", blogID)
}

func (h *BlogHandler) delete(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	blogID, err := uuid.Parse(r.PathValue("blogID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "Invalid blog Id")
		return
	}

	if err := h.blogs.DeleteBlog(r.Context(), u, blogID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlogNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Blog not found")
		case errors.Is(err, apperrors.ErrInsufficientRole):
			render.Error(w, http.StatusForbidden, render.CodeAuthorizationError, "Access denied, insufficient permissions")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error deleting blog", "error", err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.logger.Info("blog deleted", "blog_id", blogID, "actor_id", u.ID)
}
