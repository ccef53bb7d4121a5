package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/store"
)

// PendingFactorMaxAge is how long an abandoned enrollment survives.
const PendingFactorMaxAge = 24 * time.Hour

// HousekeepingService periodically deletes expired sessions, challenges and
// email codes, and enrollments nobody finished.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to one hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pass. Each deletion is independent; a failure in one
// does not stop the others. It returns the number of rows removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	now := s.Now()

	tasks := []struct {
		name string
		fn   func() (int64, error)
	}{
		{"sessions", func() (int64, error) { return s.Store.Sessions().DeleteExpiredSessions(ctx, now) }},
		{"mfa_challenges", func() (int64, error) { return s.Store.Challenges().DeleteExpiredChallenges(ctx, now) }},
		{"email_codes", func() (int64, error) { return s.Store.EmailCodes().DeleteExpiredEmailCodes(ctx, now) }},
		{"pending_factors", func() (int64, error) {
			return s.Store.Factors().DeleteUnverifiedFactorsBefore(ctx, now.Add(-PendingFactorMaxAge))
		}},
	}

	var total int64
	for _, task := range tasks {
		n, err := task.fn()
		if err != nil {
			s.Logger.Error("housekeeping delete failed", "table", task.name, "error", err)
			continue
		}
		if n > 0 {
			s.Logger.Debug("housekeeping deleted rows", "table", task.name, "rows", n)
		}
		total += n
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted", total)
	return total
}
