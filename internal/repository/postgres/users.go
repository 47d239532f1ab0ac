package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avelichko/inkwell/internal/apperrors"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, updated_at, username, email, password_hash, role,
	first_name, last_name, social_links`

const createUser = `-- name: CreateUser
INSERT INTO users (username, email, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, arg.Username, arg.Email, arg.HashedPassword, arg.Role)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, fmt.Errorf("repo error: %w", apperrors.ErrUserAlreadyExists)
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT ` + userColumns + `
FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT ` + userColumns + `
FROM users
WHERE username = $1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	return collectUser(rows)
}

const updateUser = `-- name: UpdateUser
UPDATE users
SET username      = COALESCE($2, username),
    email         = COALESCE($3, email),
    password_hash = COALESCE($4, password_hash),
    first_name    = COALESCE($5, first_name),
    last_name     = COALESCE($6, last_name),
    social_links  = COALESCE($7, social_links),
    updated_at    = now()
WHERE id = $1
RETURNING ` + userColumns

func (r *UserRepo) UpdateUser(ctx context.Context, userID uuid.UUID, arg repository.UpdateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateUser,
		userID,
		arg.Username,
		arg.Email,
		arg.HashedPassword,
		arg.FirstName,
		arg.LastName,
		arg.SocialLinks,
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, fmt.Errorf("repo error: %w", apperrors.ErrUserAlreadyExists)
		}
		return user, fmt.Errorf("db error: %w", err)
	}
}

const listUsers = `-- name: ListUsers
SELECT ` + userColumns + `
FROM users
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

func (r *UserRepo) ListUsers(ctx context.Context, limit int, offset int) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, listUsers, limit, offset)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

const countUsers = `-- name: CountUsers
SELECT count(*) FROM users
`

func (r *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.QueryRow(ctx, countUsers).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

const deleteUser = `-- name: DeleteUser
DELETE FROM users
WHERE id = $1
`

func (r *UserRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteUser, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
	}
	return nil
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.SocialLinks,
	)
	return u, err
}
