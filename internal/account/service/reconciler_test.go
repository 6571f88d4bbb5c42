package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/internal/identity"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var alice = domain.Profile{
	ID:               "u1",
	Email:            "a@x.com",
	Name:             "Alice",
	BusinessName:     "Alice Co",
	SubscriptionPlan: domain.PlanBasic,
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	r := &service.Reconciler{Profiles: newMemProfiles(alice), Logger: slogx.Discard()}

	t.Run("no session", func(t *testing.T) {
		u, err := r.Resolve(ctx, identity.Identity{}, false)
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("session with profile", func(t *testing.T) {
		u, err := r.Resolve(ctx, identity.Identity{ID: "u1"}, true)
		require.NoError(t, err)
		require.Equal(t, alice.User(), u)
	})

	t.Run("session without profile", func(t *testing.T) {
		u, err := r.Resolve(ctx, identity.Identity{ID: "u2"}, true)
		require.Nil(t, u)
		require.ErrorIs(t, err, service.ErrReconciliationGap)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		p    *stubProvider
		want *domain.User
	}{
		{
			name: "signed in",
			p:    &stubProvider{session: identity.Identity{ID: "u1"}, active: true},
			want: alice.User(),
		},
		{
			name: "signed out",
			p:    &stubProvider{},
		},
		{
			name: "profile missing looks signed out",
			p:    &stubProvider{session: identity.Identity{ID: "u2"}, active: true},
		},
		{
			name: "provider error looks signed out",
			p: &stubProvider{getUser: func() (identity.Identity, bool, error) {
				return identity.Identity{}, false, errors.New("boom")
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &service.Reconciler{Provider: tc.p, Profiles: newMemProfiles(alice), Logger: slogx.Discard()}
			require.Equal(t, tc.want, r.CurrentUser(ctx))
		})
	}
}

func TestCurrentUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	res := e.auth.Signup(ctx, service.SignupInput{Email: "a@x.com", Password: "pw123456", Name: "Alice", BusinessName: "Alice Co"})
	require.True(t, res.Success, res.Message)

	first := e.recon.CurrentUser(ctx)
	second := e.recon.CurrentUser(ctx)
	require.NotNil(t, first)
	require.Equal(t, first, second)
	require.NotSame(t, first, second)
}
