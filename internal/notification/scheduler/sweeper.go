package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/web5lab/customer-bot-app/internal/notification/repository"
)

// StaleTokenSweeper periodically drops device tokens that have not been
// used within the retention window. Registrations refresh last-used, so
// only abandoned devices age out.
type StaleTokenSweeper struct {
	log       *zap.Logger
	tokens    repository.TokenRepository
	retention time.Duration
	interval  time.Duration
	stopChan  chan struct{}
}

// NewStaleTokenSweeper creates a new sweeper
func NewStaleTokenSweeper(log *zap.Logger, tokens repository.TokenRepository, retention, interval time.Duration) *StaleTokenSweeper {
	return &StaleTokenSweeper{
		log:       log,
		tokens:    tokens,
		retention: retention,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *StaleTokenSweeper) Start() {
	s.log.Info("Starting stale token sweeper",
		zap.Duration("retention", s.retention),
		zap.Duration("interval", s.interval),
	)

	go func() {
		// Run immediately on start
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				s.log.Info("Stale token sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper
func (s *StaleTokenSweeper) Stop() {
	close(s.stopChan)
}

func (s *StaleTokenSweeper) sweep() {
	cutoff := time.Now().Add(-s.retention)

	removed, err := s.tokens.RemoveStale(context.Background(), cutoff)
	if err != nil {
		s.log.Warn("Failed to remove stale tokens", zap.Error(err))
		return
	}

	if removed > 0 {
		s.log.Info("Removed stale device tokens",
			zap.Int64("count", removed),
			zap.Time("cutoff", cutoff),
		)
	}
}
