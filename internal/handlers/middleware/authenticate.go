package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/handlers"
	"github.com/avelichko/inkwell/internal/handlers/render"
)

type authenticator interface {
	// Resolve subject id from the Authorization header value
	Authenticate(ctx context.Context, authHeader string) (uuid.UUID, error)
}

// Authenticate verifies the bearer access token and attaches the resolved
// subject id to the request context. The user store is not consulted here
func Authenticate(as authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := as.Authenticate(r.Context(), r.Header.Get("Authorization"))

			switch {
			case err == nil:
				ctx := handlers.NewContextWithSubject(r.Context(), userID)
				next.ServeHTTP(w, r.WithContext(ctx))
			case errors.Is(err, apperrors.ErrAccessTokenMissing):
				render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
			case errors.Is(err, apperrors.ErrAccessTokenExpired):
				render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, token expired")
			case errors.Is(err, apperrors.ErrAccessTokenInvalid):
				render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access token invalid")
			default:
				render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
			}
		})
	}
}
