package auth

import (
	"context"
	"time"

	"github.com/avelichko/inkwell/internal/logger"
	"github.com/avelichko/inkwell/internal/repository"
)

const defaultSweepInterval = 1 * time.Hour

// Sweeper periodically deletes expired ledger entries so the refresh token
// table does not grow without bound. Purely operational: ledger presence is
// necessary but cryptographic expiry remains the binding control, a lingering
// expired entry is harmless
type Sweeper struct {
	refreshRepo repository.RefreshTokenRepo
	logger      logger.Logger
	interval    time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewSweeper(refreshRepo repository.RefreshTokenRepo, l logger.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &Sweeper{
		refreshRepo: refreshRepo,
		logger:      l,
		interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start begins the background worker. Non blocking, call Stop to shut down
func (s *Sweeper) Start() {
	go s.run()
	s.logger.Info("refresh token sweeper started", "interval", s.interval)
}

// Stop shuts the worker down and blocks until any in-progress sweep finishes
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("refresh token sweeper stopped")
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	deleted, err := s.refreshRepo.DeleteExpired(context.Background(), time.Now())
	if err != nil {
		s.logger.Error("error while sweeping expired refresh tokens", "error", err.Error())
		return
	}

	if deleted > 0 {
		s.logger.Info("expired refresh tokens deleted", "count", deleted)
	}
}
