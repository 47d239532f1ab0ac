package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/handlers/render"
	"github.com/avelichko/inkwell/internal/logger"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/service/user"
)

const (
	defaultListLimit  = 20
	defaultListOffset = 0
	maxListLimit      = 100
)

type userService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]models.User, int64, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, params user.UpdateParams) (models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type UserHandler struct {
	users  userService
	logger logger.Logger
}

func NewUser(users userService, l logger.Logger) *UserHandler {
	return &UserHandler{users: users, logger: l}
}

type userProfileResponse struct {
	ID          uuid.UUID          `json:"id"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	Role        models.Role        `json:"role"`
	FirstName   string             `json:"firstName,omitempty"`
	LastName    string             `json:"lastName,omitempty"`
	SocialLinks models.SocialLinks `json:"socialLinks"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toUserProfile(u models.User) userProfileResponse {
	return userProfileResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		SocialLinks: u.SocialLinks,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (h *UserHandler) getCurrent(w http.ResponseWriter, r *http.Request) {
	// Authorize middleware put the fresh user record into the context
	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	render.JSON(w, map[string]userProfileResponse{"user": toUserProfile(u)})
}

func (h *UserHandler) updateCurrent(w http.ResponseWriter, r *http.Request) {
	type updateRequest struct {
		Username    *string             `json:"username" validate:"omitempty,min=2,max=20"`
		Email       *string             `json:"email" validate:"omitempty,email,max=50"`
		Password    *string             `json:"password" validate:"omitempty,min=8"`
		FirstName   *string             `json:"firstName" validate:"omitempty,max=20"`
		LastName    *string             `json:"lastName" validate:"omitempty,max=20"`
		SocialLinks *models.SocialLinks `json:"socialLinks"`
	}

	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	data, err := render.BindAndValidate[updateRequest](w, r)
	if err != nil {
		return
	}

	updated, err := h.users.UpdateUser(r.Context(), u.ID, user.UpdateParams{
		Username:    data.Username,
		Email:       data.Email,
		Password:    data.Password,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		SocialLinks: data.SocialLinks,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "User not found")
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "Username or email already taken")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error updating current user", "error", err.Error())
		}
		return
	}

	render.JSON(w, map[string]userProfileResponse{"user": toUserProfile(updated)})
	h.logger.Info("user updated", "user_id", u.ID)
}

func (h *UserHandler) deleteCurrent(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
		return
	}

	if err := h.users.DeleteUser(r.Context(), u.ID); err != nil {
		render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
		h.logger.Error("error deleting current user", "error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.logger.Info("user deleted", "user_id", u.ID)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	type listResponse struct {
		Users  []userProfileResponse `json:"users"`
		Total  int64                 `json:"total"`
		Limit  int                   `json:"limit"`
		Offset int                   `json:"offset"`
	}

	limit, offset := pagination(r)

	users, total, err := h.users.ListUsers(r.Context(), limit, offset)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
		h.logger.Error("error listing users", "error", err.Error())
		return
	}

	resp := listResponse{
		Users:  make([]userProfileResponse, 0, len(users)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserProfile(u))
	}

	render.JSON(w, resp)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "Invalid user Id")
		return
	}

	u, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "User not found")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error getting user", "error", err.Error())
		}
		return
	}

	render.JSON(w, map[string]userProfileResponse{"user": toUserProfile(u)})
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "Invalid user Id")
		return
	}

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "User not found")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error deleting user", "error", err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.logger.Info("user deleted by admin", "user_id", userID)
}

// pagination reads limit/offset query params falling back to defaults
func pagination(r *http.Request) (limit int, offset int) {
	limit, offset = defaultListLimit, defaultListOffset

	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxListLimit)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	return limit, offset
}
