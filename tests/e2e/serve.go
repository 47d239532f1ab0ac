package e2e

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/avelichko/inkwell/internal/handlers"
	"github.com/avelichko/inkwell/internal/handlers/middleware"
	"github.com/avelichko/inkwell/internal/logger"
	"github.com/avelichko/inkwell/internal/repository/postgres"
	"github.com/avelichko/inkwell/internal/service/auth"
	"github.com/avelichko/inkwell/internal/service/auth/tokencodec"
	"github.com/avelichko/inkwell/internal/service/blog"
	"github.com/avelichko/inkwell/internal/service/user"
	"github.com/avelichko/inkwell/internal/testutil"
)

const (
	// Emails allowed to take the admin role in tests
	AdminEmail = "admin@example.com"

	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type Services struct {
	AuthService *auth.AuthService
	UserService *user.UserService
	BlogService *blog.BlogService
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories over the transaction
		storage := postgres.NewStorage(tx)

		// Initialize services
		codec, err := tokencodec.New(tokencodec.Config{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessTTL:     AccessTTL,
			RefreshTTL:    RefreshTTL,
		})
		require.NoError(t, err, "token codec should be created without errors")

		as, err := auth.NewService(auth.Config{AdminEmails: []string{AdminEmail}}, codec, storage.User(), storage.Refresh())
		require.NoError(t, err, "auth service starting error")

		us := user.NewService(nil, storage.User())
		bs := blog.NewService(storage.Blog(), storage.Comment(), storage.Like())

		// Initialize handlers
		log := logger.NewNoOp()
		authHandler := handlers.NewAuth(as, false, log)
		userHandler := handlers.NewUser(us, log)
		blogHandler := handlers.NewBlog(bs, log)

		// Complete all together as router
		router := handlers.NewRouter(
			authHandler,
			userHandler,
			blogHandler,
			middleware.Authenticate(as),
			middleware.Authorize(as),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			UserService: us,
			BlogService: bs,
		})
	})
}
