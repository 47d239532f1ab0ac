package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/repository"
	"github.com/avelichko/inkwell/internal/service/auth"
)

type UserService struct {
	hasher   auth.PasswordHasher
	userRepo repository.UserRepo
}

func NewService(hasher auth.PasswordHasher, userRepo repository.UserRepo) *UserService {
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}

	return &UserService{
		hasher:   hasher,
		userRepo: userRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, limit int, offset int) ([]models.User, int64, error) {
	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}

	users, err := s.userRepo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateParams carries profile changes, nil fields stay untouched
type UpdateParams struct {
	Username    *string
	Email       *string
	Password    *string
	FirstName   *string
	LastName    *string
	SocialLinks *models.SocialLinks
}

// UpdateUser applies the non-nil fields.
// The password is hashed here and only when it is actually changing,
// an unchanged record never gets re-hashed
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, params UpdateParams) (models.User, error) {
	arg := repository.UpdateUserParams{
		Username:    params.Username,
		Email:       params.Email,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		SocialLinks: params.SocialLinks,
	}

	if params.Password != nil {
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
		}
		arg.HashedPassword = &hash
	}

	return s.userRepo.UpdateUser(ctx, userID, arg)
}

// DeleteUser removes the account. Refresh tokens and owned content go away
// with it through the database cascade
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.DeleteUser(ctx, userID)
}
