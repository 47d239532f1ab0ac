package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrAccessTokenMissing = errors.New("no access token provided")
	ErrAccessTokenExpired = errors.New("access token is expired")
	ErrAccessTokenInvalid = errors.New("access token is invalid")

	ErrAdminNotWhitelisted = errors.New("email is not allowed to register as admin")
	ErrInsufficientRole    = errors.New("insufficient permissions")

	ErrBlogNotFound    = errors.New("blog not found")
	ErrSlugTaken       = errors.New("blog slug already taken")
	ErrCommentNotFound = errors.New("comment not found")
	ErrLikeNotFound    = errors.New("like not found")
	ErrAlreadyLiked    = errors.New("blog already liked")
)
