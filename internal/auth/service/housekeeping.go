package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/giftwallet/internal/auth/store"
)

// HousekeepingService periodically scrubs the hashes of OTP challenges that
// expired without being consumed.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep scrubs every expired challenge once and returns how many accounts
// were touched.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	n, err := s.Store.Accounts().ScrubExpiredChallenges(ctx, s.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to scrub expired challenges", "err", err)
		return 0
	}
	s.Logger.Info("housekeeping sweep completed", "scrubbed_challenges", n)
	return n
}
