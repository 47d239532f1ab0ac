package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/inkwell/internal/logger"
	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/repository"
	"github.com/avelichko/inkwell/internal/repository/postgres"
	"github.com/avelichko/inkwell/internal/testutil"
)

func Test_Sweeper(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	saveToken := func(t *testing.T, repo repository.RefreshTokenRepo, userID uuid.UUID, expiresAt time.Time) string {
		t.Helper()

		token := uuid.NewString()
		err := repo.Save(t.Context(), models.RefreshToken{
			Token:     token,
			UserID:    userID,
			CreatedAt: time.Now(),
			ExpiresAt: expiresAt,
		})
		require.NoError(t, err)
		return token
	}

	t.Run("sweeps expired entries on start", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}
			refreshRepo := &postgres.RefreshTokenRepo{DB: tx}

			user, err := userRepo.CreateUser(t.Context(), repository.CreateUserParams{
				Username:       "sweeped",
				Email:          "sweeped@example.com",
				HashedPassword: "hash",
				Role:           models.RoleUser,
			})
			require.NoError(t, err)

			expired := saveToken(t, refreshRepo, user.ID, time.Now().Add(-time.Hour))
			alive := saveToken(t, refreshRepo, user.ID, time.Now().Add(time.Hour))

			sweeper := NewSweeper(refreshRepo, logger.NewNoOp(), time.Hour)
			sweeper.Start()
			sweeper.Stop()

			exists, err := refreshRepo.Exists(t.Context(), expired)
			require.NoError(t, err)
			require.False(t, exists, "expired entry should be swept")

			exists, err = refreshRepo.Exists(t.Context(), alive)
			require.NoError(t, err)
			require.True(t, exists, "unexpired entry should survive the sweep")
		})
	})

	t.Run("default interval applied", func(t *testing.T) {
		sweeper := NewSweeper(nil, logger.NewNoOp(), 0)
		require.Equal(t, defaultSweepInterval, sweeper.interval)
	})
}
