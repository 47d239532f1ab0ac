package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/handlers"
	"github.com/avelichko/inkwell/internal/handlers/render"
	"github.com/avelichko/inkwell/internal/models"
)

type authorizer interface {
	// Check subject's current role against required ones
	// Must re-read the role from the user store on every call
	Authorize(ctx context.Context, userID uuid.UUID, roles ...models.Role) (models.User, error)
}

// AuthorizeFunc builds a role gate for a set of allowed roles
type AuthorizeFunc func(roles ...models.Role) func(http.Handler) http.Handler

// Authorize gates a route by role. Requires Authenticate to have run first.
// The fresh user record is attached to the context for downstream handlers,
// so role changes apply on the very next request
func Authorize(as authorizer) AuthorizeFunc {
	return func(roles ...models.Role) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				userID, ok := handlers.SubjectFromContext(r.Context())
				if !ok {
					render.Error(w, http.StatusUnauthorized, render.CodeAuthenticationError, "Access denied, no token provided")
					return
				}

				user, err := as.Authorize(r.Context(), userID, roles...)

				switch {
				case err == nil:
					ctx := handlers.NewContextWithUser(r.Context(), user)
					next.ServeHTTP(w, r.WithContext(ctx))
				case errors.Is(err, apperrors.ErrUserNotFound):
					render.Error(w, http.StatusNotFound, render.CodeNotFound, "User not found")
				case errors.Is(err, apperrors.ErrInsufficientRole):
					render.Error(w, http.StatusForbidden, render.CodeAuthorizationError, "Access denied, insufficient permissions")
				default:
					render.Error(w, http.StatusInternalServerError, render.CodeServerError, "Internal server error")
				}
			})
		}
	}
}
