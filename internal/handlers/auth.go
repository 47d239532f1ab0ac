package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/handlers/render"
	"github.com/avelichko/inkwell/internal/logger"
	"github.com/avelichko/inkwell/internal/models"
)

const refreshCookieName = "refreshToken"

// Cookie path is limited to the auth endpoints, the refresh token is never
// sent along with regular API calls
const refreshCookiePath = "/api/v1/auth"

type authService interface {
	// Register user, has to return apperrors.ErrAdminNotWhitelisted for
	// non-whitelisted admin emails and apperrors.ErrUserAlreadyExists on duplicates
	Register(ctx context.Context, email string, password string, role models.Role) (models.User, models.TokenPair, error)

	// Login with email and password
	// Has to return apperrors.ErrUserNotFound or apperrors.ErrInvalidCredentials
	Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error)

	// Exchange a refresh token for a new access token, without rotation
	// Has to return apperrors.ErrRefreshTokenNotFound or apperrors.ErrRefreshTokenExpired
	RefreshAccess(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Remove the refresh token from the ledger, idempotent
	Logout(ctx context.Context, refresh string) error
}

type AuthHandler struct {
	auth authService

	// Controls the cookie Secure attribute, on in production
	secureCookie bool

	logger logger.Logger
}

func NewAuth(auth authService, secureCookie bool, l logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		secureCookie: secureCookie,
		logger:       l,
	}
}

type userResponse struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type registerRequest struct {
		Email    string `json:"email" validate:"required,email,max=50"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	}
	type registerResponse struct {
		User        userResponse `json:"user"`
		AccessToken string       `json:"accessToken"`
	}

	data, err := render.BindAndValidate[registerRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.Register(r.Context(), data.Email, data.Password, models.Role(data.Role))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAdminNotWhitelisted):
			render.Error(w, http.StatusForbidden, render.CodeAuthorizationError, "You cannot register as an admin")
			h.logger.Warn("register as admin denied, email is not whitelisted", "email", data.Email)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.Error(w, http.StatusBadRequest, render.CodeBadRequest, "User already exists")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error during user registration", "error", err.Error())
		}
		return
	}

	h.setRefreshCookie(w, pair.Refresh)
	render.JSONStatus(w, registerResponse{
		User:        userResponse{Username: user.Username, Email: user.Email, Role: user.Role},
		AccessToken: pair.Access.Value,
	}, http.StatusCreated)

	h.logger.Info("user registered", "user_id", user.ID)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type loginResponse struct {
		User        userResponse `json:"user"`
		AccessToken string       `json:"accessToken"`
	}

	data, err := render.BindAndValidate[loginRequest](w, r)
	if err != nil {
		return
	}

	user, pair, err := h.auth.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, http.StatusNotFound, render.CodeNotFound, "User not found")
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Invalid email or password")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error during user login", "error", err.Error())
		}
		return
	}

	h.setRefreshCookie(w, pair.Refresh)
	render.JSONStatus(w, loginResponse{
		User:        userResponse{Username: user.Username, Email: user.Email, Role: user.Role},
		AccessToken: pair.Access.Value,
	}, http.StatusCreated)

	h.logger.Info("user logged in", "user_id", user.ID)
}

func (h *AuthHandler) refreshToken(w http.ResponseWriter, r *http.Request) {
	type refreshResponse struct {
		AccessToken string `json:"accessToken"`
	}

	var refresh string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		refresh = cookie.Value
	}

	access, err := h.auth.RefreshAccess(r.Context(), refresh)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenExpired):
			render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Refresh token expired, please login again")
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
			render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Invalid refresh token")
		default:
			render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			h.logger.Error("error during token refresh", "error", err.Error())
		}
		return
	}

	render.JSON(w, refreshResponse{AccessToken: access.Value})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	var refresh string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		refresh = cookie.Value
	}

	if err := h.auth.Logout(r.Context(), refresh); err != nil {
		render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
		h.logger.Error("error during logout", "error", err.Error())
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, refresh models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refresh.Value,
		Path:     refreshCookiePath,
		MaxAge:   int(time.Until(refresh.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
