package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/repository"
	"github.com/avelichko/inkwell/internal/service/auth/tokencodec"
)

type Config struct {
	// Hasher to use during user registration or login process
	// Defaults to BcryptHasher
	Hasher PasswordHasher

	// Emails allowed to register with the admin role
	AdminEmails []string
}

// AuthService orchestrates credential verification, token issuance,
// ledger bookkeeping and the authentication/authorization gates.
// It holds no mutable state between calls: everything lives in the
// user store and the refresh token ledger
type AuthService struct {
	codec       *tokencodec.Codec
	hasher      PasswordHasher
	adminEmails []string

	userRepo    repository.UserRepo
	refreshRepo repository.RefreshTokenRepo
}

func NewService(cfg Config, codec *tokencodec.Codec, userRepo repository.UserRepo, refreshRepo repository.RefreshTokenRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if codec == nil {
		return nil, errors.New("token codec must not be nil")
	}
	if userRepo == nil || refreshRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	return &AuthService{
		codec:       codec,
		hasher:      hasher,
		adminEmails: cfg.AdminEmails,
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
	}, nil
}

// Register creates a user and issues the same token pair as Login.
// Registering with the admin role is allowed for whitelisted emails only
func (s *AuthService) Register(ctx context.Context, email string, password string, role models.Role) (models.User, models.TokenPair, error) {
	if role == "" {
		role = models.RoleUser
	}

	if role == models.RoleAdmin && !slices.Contains(s.adminEmails, email) {
		return models.User{}, models.TokenPair{}, fmt.Errorf("register %q: %w", email, apperrors.ErrAdminNotWhitelisted)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	username, err := generateUsername()
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	user, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
		Role:           role,
	})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair.
// Every successful login gets an independent ledger entry, concurrent
// sessions for the same account are permitted
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.User, models.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("login %q: %w", email, apperrors.ErrInvalidCredentials)
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// RefreshAccess exchanges a refresh token for a new access token.
// The ledger existence check comes first: a cryptographically valid token
// that was logged out is rejected before its signature is even looked at.
// The refresh token itself is not rotated, only logout or expiry ends it
func (s *AuthService) RefreshAccess(ctx context.Context, refresh string) (models.IssuedToken, error) {
	exists, err := s.refreshRepo.Exists(ctx, refresh)
	if err != nil {
		return models.IssuedToken{}, err
	}
	if !exists {
		return models.IssuedToken{}, fmt.Errorf("refresh: %w", apperrors.ErrRefreshTokenNotFound)
	}

	userID, err := s.codec.VerifyRefresh(refresh)
	switch {
	case err == nil:
	case errors.Is(err, tokencodec.ErrExpired):
		return models.IssuedToken{}, fmt.Errorf("refresh: %w", apperrors.ErrRefreshTokenExpired)
	default:
		return models.IssuedToken{}, fmt.Errorf("refresh: %w", apperrors.ErrRefreshTokenNotFound)
	}

	value, expiresAt, err := s.codec.IssueAccess(userID)
	if err != nil {
		return models.IssuedToken{}, err
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Logout removes the refresh token from the ledger.
// Idempotent: an absent or empty token is not an error
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	if refresh == "" {
		return nil
	}
	return s.refreshRepo.DeleteByValue(ctx, refresh)
}

// Authenticate resolves the subject id from an Authorization header value.
// Trusts a valid unexpired signature, the user store is not consulted
func (s *AuthService) Authenticate(ctx context.Context, authHeader string) (uuid.UUID, error) {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return uuid.Nil, fmt.Errorf("authenticate: %w", apperrors.ErrAccessTokenMissing)
	}

	userID, err := s.codec.VerifyAccess(token)
	switch {
	case err == nil:
		return userID, nil
	case errors.Is(err, tokencodec.ErrExpired):
		return uuid.Nil, fmt.Errorf("authenticate: %w", apperrors.ErrAccessTokenExpired)
	default:
		return uuid.Nil, fmt.Errorf("authenticate: %w", apperrors.ErrAccessTokenInvalid)
	}
}

// Authorize checks the authenticated subject against required roles.
// The role is always re-read from the user store, never taken from a token,
// so role changes apply on the very next call
func (s *AuthService) Authorize(ctx context.Context, userID uuid.UUID, roles ...models.Role) (models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if !slices.Contains(roles, user.Role) {
		return models.User{}, fmt.Errorf("authorize user %s: %w", userID, apperrors.ErrInsufficientRole)
	}

	return user, nil
}

func (s *AuthService) issuePair(ctx context.Context, userID uuid.UUID) (models.TokenPair, error) {
	var pair models.TokenPair

	access, accessExpiresAt, err := s.codec.IssueAccess(userID)
	if err != nil {
		return pair, fmt.Errorf("error while issuing access token. Err: %w", err)
	}

	refresh, refreshExpiresAt, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return pair, fmt.Errorf("error while issuing refresh token. Err: %w", err)
	}

	err = s.refreshRepo.Save(ctx, models.RefreshToken{
		Token:     refresh,
		UserID:    userID,
		CreatedAt: refreshExpiresAt.Add(-s.codec.RefreshTTL()),
		ExpiresAt: refreshExpiresAt,
	})
	if err != nil {
		return pair, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{
		Access:  models.IssuedToken{Value: access, ExpiresAt: accessExpiresAt},
		Refresh: models.IssuedToken{Value: refresh, ExpiresAt: refreshExpiresAt},
	}, nil
}

// Usernames are generated, not user supplied, and may be changed later
// through the profile update
func generateUsername() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating username. Err: %w", err)
	}
	return "user-" + hex.EncodeToString(b), nil
}
