package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/models"
)

type ctxKey string

const (
	subjectKey ctxKey = "subject"
	userKey    ctxKey = "user"
)

// NewContextWithSubject stores the authenticated identity id.
// Set by the authentication middleware, the user record itself is not loaded
func NewContextWithSubject(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, subjectKey, userID)
}

func SubjectFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(subjectKey).(uuid.UUID)
	return id, ok
}

// NewContextWithUser stores the full user record.
// Set by the authorization middleware after the fresh role read
func NewContextWithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
