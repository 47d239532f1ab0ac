package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/handlers/render"
)

func (h *BlogHandler) like(w http.ResponseWriter, r *http.Request) {
	type likeResponse struct {
		LikesCount int64 `json:"likesCount"`
	}

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

	likesCount, err := h.blogs.LikeBlog(r.Context(), blogID, u.ID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlogNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Blog not found")
		case errors.Is(err, apperrors.ErrAlreadyLiked):
			render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "You already liked this blog")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error liking blog", "error", err.Error())
		}
		return
	}

	render.JSON(w, likeResponse{LikesCount: likesCount})
	h.logger.Info("blog liked", "blog_id", blogID, "user_id", u.ID)
}

func (h *BlogHandler) unlike(w http.ResponseWriter, r *http.Request) {
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

	if err := h.blogs.UnlikeBlog(r.Context(), blogID, u.ID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLikeNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Like not found")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error unliking blog", "error", err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.logger.Info("blog unliked", "blog_id", blogID, "user_id", u.ID)
}
