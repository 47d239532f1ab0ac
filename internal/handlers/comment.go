package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/handlers/render"
	"github.com/avelichko/inkwell/internal/models"
)

type commentResponse struct {
	ID        uuid.UUID `json:"id"`
	BlogID    uuid.UUID `json:"blogId"`
	UserID    uuid.UUID `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCommentResponse(c models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		BlogID:    c.BlogID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func (h *BlogHandler) createComment(w http.ResponseWriter, r *http.Request) {
	type createRequest struct {
		Content string `json:"content" validate:"required,max=1000"`
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

	data, err := render.BindAndValidate[createRequest](w, r)
	if err != nil {
		return
	}

	comment, err := h.blogs.CreateComment(r.Context(), blogID, u.ID, data.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlogNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Blog not found")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error creating comment", "error", err.Error())
		}
		return
	}

	render.JSONStatus(w, map[string]commentResponse{"comment": toCommentResponse(comment)}, http.StatusCreated)
	h.logger.Info("comment created", "comment_id", comment.ID, "blog_id", blogID)
}

func (h *BlogHandler) listComments(w http.ResponseWriter, r *http.Request) {
	type listResponse struct {
		Comments []commentResponse `json:"comments"`
	}

	blogID, err := uuid.Parse(r.PathValue("blogID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "Invalid blog Id")
		return
	}

	comments, err := h.blogs.ListComments(r.Context(), blogID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBlogNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Blog not found")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error listing comments", "error", err.Error())
		}
		return
	}

	resp := listResponse{Comments: make([]commentResponse, 0, len(comments))}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, toCommentResponse(c))
	}

	render.JSON(w, resp)
}

func (h *BlogHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	commentID, err := uuid.Parse(r.PathValue("commentID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "Invalid comment Id")
		return
	}

	if err := h.blogs.DeleteComment(r.Context(), u, commentID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCommentNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "Comment not found")
		case errors.Is(err, apperrors.ErrInsufficientRole):
			render.Error(w, http.StatusForbidden, render.CodeAuthorizationError, "Access denied, insufficient permissions")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error deleting comment", "error", err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.logger.Info("comment deleted", "comment_id", commentID, "actor_id", u.ID)
}
