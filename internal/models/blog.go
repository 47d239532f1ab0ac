package models

import (
	"time"

	"github.com/google/uuid"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

func (s BlogStatus) Valid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

// Banner holds metadata of an already uploaded blog banner image.
// File storage itself is out of scope, only the reference is kept.
type Banner struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Blog struct {
	ID            uuid.UUID
	AuthorID      uuid.UUID
	Title         string
	Slug          string
	Content       string
	Banner        Banner
	Status        BlogStatus
	ViewsCount    int64
	LikesCount    int64
	CommentsCount int64
	PublishedAt   time.Time
	UpdatedAt     time.Time
}
