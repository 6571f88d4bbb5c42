package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/pkg/idx"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingReportsOrphans(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	require.True(t, e.auth.Signup(ctx, service.SignupInput{Email: "ok@x.com", Password: "pw123456"}).Success)

	e.profiles.set(true, false, false)
	require.False(t, e.auth.Signup(ctx, service.SignupInput{Email: "orphan@x.com", Password: "pw123456"}).Success)

	orphan, err := e.store.Accounts().GetByEmail(ctx, "orphan@x.com")
	require.NoError(t, err)

	hk := service.NewHousekeepingService(e.store, slogx.Discard(), time.Hour, 0)
	report := hk.RunOnce(ctx)
	require.Equal(t, []string{orphan.ID}, report.OrphanedAccounts)
	require.Zero(t, report.PurgedAccounts)
}

func TestHousekeepingPurgesUnconfirmed(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	confirmed := time.Now().UTC()
	require.NoError(t, e.store.Accounts().Create(ctx, domain.Account{ID: idx.New().String(), Email: "stale@x.com", PasswordHash: "h"}))
	require.NoError(t, e.store.Accounts().Create(ctx, domain.Account{ID: idx.New().String(), Email: "done@x.com", PasswordHash: "h", ConfirmedAt: &confirmed}))

	hk := service.NewHousekeepingService(e.store, slogx.Discard(), time.Hour, 24*time.Hour)
	hk.Now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	report := hk.RunOnce(ctx)
	require.EqualValues(t, 1, report.PurgedAccounts)

	_, err := e.store.Accounts().GetByEmail(ctx, "done@x.com")
	require.NoError(t, err)
}

func TestHousekeepingStartStop(t *testing.T) {
	e := newEnv(t)

	hk := service.NewHousekeepingService(e.store, slogx.Discard(), 0, 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Stop() // never started

	hk.Start()
	hk.Start()
	hk.Stop()
}

func TestHousekeepingRestart(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	hk := service.NewHousekeepingService(e.store, slogx.Discard(), time.Hour, 24*time.Hour)
	hk.Now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	hk.Start()
	hk.Stop()

	require.NoError(t, e.store.Accounts().Create(ctx, domain.Account{ID: idx.New().String(), Email: "late@x.com", PasswordHash: "h"}))

	// A restarted worker runs its first pass before Stop returns.
	hk.Start()
	hk.Stop()

	_, err := e.store.Accounts().GetByEmail(ctx, "late@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
