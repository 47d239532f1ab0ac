package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID
	BlogID    uuid.UUID
	UserID    uuid.UUID
	Content   string
	CreatedAt time.Time
}

type Like struct {
	ID        uuid.UUID
	BlogID    uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}
