package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/bizdesk/internal/account/store"
)

// HousekeepingService periodically reports provider accounts left without a
// profile by a failed signup and purges accounts never confirmed.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// UnconfirmedRetention is how long an unconfirmed account is kept.
	// Zero disables the purge.
	UnconfirmedRetention time.Duration

	Now func() time.Time

	// stopCh and doneCh belong to the running worker; nil while stopped.
	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

// HousekeepingReport is the outcome of a single pass.
type HousekeepingReport struct {
	OrphanedAccounts []string
	PurgedAccounts   int64
}

// NewHousekeepingService defaults a non-positive interval to one hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:                st,
		Logger:               logger,
		Interval:             interval,
		UnconfirmedRetention: retention,
		Now:                  time.Now,
	}
}

// Start runs a pass immediately and then every Interval until Stop. Starting
// a running service does nothing; a stopped service can be started again.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	if s.stopCh != nil {
		s.mu.Unlock()
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(s.stopCh, s.doneCh)
	s.mu.Unlock()

	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress pass has finished. Stopping a service
// that is not running does nothing.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-stopCh:
			return
		}
	}
}

// RunOnce performs one pass. Each step is independent; a failure in one is
// logged and does not stop the other.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingReport {
	var report HousekeepingReport

	orphans, err := s.Store.Accounts().ListOrphaned(ctx)
	if err != nil {
		s.Logger.Error("failed to list orphaned accounts", "error", err)
	} else {
		for _, a := range orphans {
			report.OrphanedAccounts = append(report.OrphanedAccounts, a.ID)
		}
		if len(orphans) > 0 {
			s.Logger.Warn("provider accounts without profile",
				"count", len(orphans), "account_ids", report.OrphanedAccounts)
		}
	}

	if s.UnconfirmedRetention > 0 {
		cutoff := s.Now().Add(-s.UnconfirmedRetention)
		var n int64
		err := s.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			n, err = tx.Accounts().DeleteUnconfirmedBefore(ctx, cutoff)
			return err
		})
		if err != nil {
			s.Logger.Error("failed to purge unconfirmed accounts", "error", err)
		} else {
			report.PurgedAccounts = n
			s.Logger.Debug("purged unconfirmed accounts", "count", n, "cutoff", cutoff)
		}
	}

	s.Logger.Info("housekeeping pass completed",
		"orphaned", len(report.OrphanedAccounts), "purged", report.PurgedAccounts)
	return report
}
