package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avelichko/inkwell/internal/db"
	"github.com/avelichko/inkwell/internal/handlers"
	"github.com/avelichko/inkwell/internal/handlers/middleware"
	"github.com/avelichko/inkwell/internal/logger"
	"github.com/avelichko/inkwell/internal/repository/postgres"
	"github.com/avelichko/inkwell/internal/service/auth"
	"github.com/avelichko/inkwell/internal/service/auth/tokencodec"
	"github.com/avelichko/inkwell/internal/service/blog"
	"github.com/avelichko/inkwell/internal/service/user"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	sweeper *auth.Sweeper
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	codec, err := tokencodec.New(tokencodec.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token codec. Err: %w", err)
	}
	authService, err := auth.NewService(auth.Config{AdminEmails: c.AdminEmails}, codec, storage.User(), storage.Refresh())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(nil, storage.User())
	blogService := blog.NewService(storage.Blog(), storage.Comment(), storage.Like())

	// Initialize handlers and middlewares
	secureCookie := c.Environment == logger.EnvProduction
	authHandler := handlers.NewAuth(authService, secureCookie, log)
	userHandler := handlers.NewUser(userService, log)
	blogHandler := handlers.NewBlog(blogService, log)

	mux := handlers.NewRouter(
		authHandler,
		userHandler,
		blogHandler,
		middleware.Authenticate(authService),
		middleware.Authorize(authService),
		middleware.Logger(log),
		middleware.RateLimit(c.RateLimitRPS, c.RateLimitBurst),
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     log,
		sweeper:    auth.NewSweeper(storage.Refresh(), log, c.SweepInterval),
	}, nil
}

// Run starts the http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	s.sweeper.Start()
	defer s.sweeper.Stop()

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close connections gracefully
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
