// Package service implements the account operations the UI shell calls:
// signup, login, logout, profile edits and the reconciled current user.
package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/internal/identity"
	"github.com/aussiebroadwan/bizdesk/pkg/slogx"
)

const (
	MsgSignupSucceeded = "Signup successful. Please check your email to confirm your account."
	MsgSignupFailed    = "Signup failed"
	MsgLoginSucceeded  = "Login successful"
	MsgLoginFailed     = "Login failed"
	MsgLogoutSucceeded = "Logout successful"
	MsgUpdateSucceeded = "User updated successfully"
	MsgUpdateRefetch   = "Failed to fetch updated user data"
	MsgUserIDRequired  = "User id is required"
)

type SignupInput struct {
	Email        string
	Password     string
	Name         string
	BusinessName string
}

// AuthService never commits the current user itself; it returns results
// and the caller hands successful users to the Observer.
type AuthService struct {
	Provider   identity.Provider
	Profiles   store.Profiles
	Reconciler *Reconciler
	Logger     *slog.Logger
}

// Signup registers with the provider and then writes the profile row. A
// failed profile write leaves the provider account in place.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) domain.AuthResult {
	log := s.logger(ctx, "signup")

	id, err := s.Provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		log.Info("provider signup failed", "error", err)
		return domain.Failed(err.Error())
	}
	if id.IsZero() {
		log.Warn("provider signup returned no user")
		return domain.Failed(MsgSignupFailed)
	}

	profile := domain.Profile{
		ID:               id.ID,
		Email:            in.Email,
		Name:             in.Name,
		BusinessName:     in.BusinessName,
		SubscriptionPlan: domain.PlanFree,
	}
	if err := s.Profiles.Insert(ctx, profile); err != nil {
		log.Error("profile insert failed; provider account left without profile", "user_id", id.ID, "error", err)
		return domain.Failed(err.Error())
	}

	log.Info("signup complete", "user_id", id.ID)
	return domain.Succeeded(MsgSignupSucceeded, profile.User())
}

// Login authenticates and loads the profile. A missing profile fails the
// login but leaves the provider session signed in.
func (s *AuthService) Login(ctx context.Context, email, password string) domain.AuthResult {
	log := s.logger(ctx, "login")

	id, err := s.Provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		log.Info("provider sign-in failed", "error", err)
		return domain.Failed(err.Error())
	}
	if id.IsZero() {
		log.Warn("provider sign-in returned no user")
		return domain.Failed(MsgLoginFailed)
	}

	profile, err := s.Profiles.GetByID(ctx, id.ID)
	if err != nil {
		log.Warn("profile fetch failed after sign-in", "user_id", id.ID, "error", err)
		return domain.Failed(err.Error())
	}

	log.Info("login complete", "user_id", id.ID)
	return domain.Succeeded(MsgLoginSucceeded, profile.User())
}

// Logout ends the provider session. The caller clears the current user
// only when the result is successful.
func (s *AuthService) Logout(ctx context.Context) domain.AuthResult {
	log := s.logger(ctx, "logout")

	if err := s.Provider.SignOut(ctx); err != nil {
		log.Warn("provider sign-out failed", "error", err)
		return domain.Failed(err.Error())
	}
	return domain.Succeeded(MsgLogoutSucceeded, nil)
}

// UpdateUser writes the set fields of upd and returns the re-reconciled
// user. Email and plan cannot be changed here.
func (s *AuthService) UpdateUser(ctx context.Context, upd domain.ProfileUpdate) domain.AuthResult {
	log := s.logger(ctx, "update_user")

	if upd.ID == "" {
		return domain.Failed(MsgUserIDRequired)
	}

	if !upd.Empty() {
		if err := s.Profiles.Update(ctx, upd); err != nil {
			log.Warn("profile update failed", "user_id", upd.ID, "error", err)
			return domain.Failed(err.Error())
		}
	}

	u := s.Reconciler.CurrentUser(ctx)
	if u == nil {
		log.Warn("no current user after update", "user_id", upd.ID)
		return domain.Failed(MsgUpdateRefetch)
	}
	return domain.Succeeded(MsgUpdateSucceeded, u)
}

// GetCurrentUser is the reconciled current user, or nil.
func (s *AuthService) GetCurrentUser(ctx context.Context) *domain.User {
	return s.Reconciler.CurrentUser(ctx)
}

func (s *AuthService) logger(ctx context.Context, op string) *slog.Logger {
	return slogx.FromContextOr(ctx, s.Logger).With("op", op)
}
