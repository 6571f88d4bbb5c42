package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/internal/identity"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
)

// ErrReconciliationGap means the provider reports a session but the profile
// row could not be produced. Callers of CurrentUser only ever see nil.
var ErrReconciliationGap = errors.New("session has no matching profile")

// Reconciler joins the provider session with its profile row.
type Reconciler struct {
	Provider identity.Provider
	Profiles store.Profiles
	Logger   *slog.Logger
}

// Resolve produces the user for a session. No session yields nil, nil.
func (r *Reconciler) Resolve(ctx context.Context, id identity.Identity, active bool) (*domain.User, error) {
	if !active || id.IsZero() {
		return nil, nil
	}

	profile, err := r.Profiles.GetByID(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s: %w", ErrReconciliationGap, id.ID, err)
	}
	return profile.User(), nil
}

// CurrentUser resolves the provider's active session. Every failure is
// logged and reported as nil, the same as being signed out.
func (r *Reconciler) CurrentUser(ctx context.Context) *domain.User {
	id, active, err := r.Provider.GetUser(ctx)
	if err != nil {
		r.logger(ctx).Warn("get provider session", "error", err)
		return nil
	}

	u, err := r.Resolve(ctx, id, active)
	if err != nil {
		r.logger(ctx).Warn("reconcile session", "user_id", id.ID, "error", err)
		return nil
	}
	return u
}

func (r *Reconciler) logger(ctx context.Context) *slog.Logger {
	return slogx.FromContextOr(ctx, r.Logger)
}
