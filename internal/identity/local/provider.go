// Package local is a self-hosted identity provider. Credentials live in the
// accounts table; the active session is an EdDSA-signed token held in memory,
// one per process, the way a browser client holds its session.
package local

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/store"
	"github.com/aussiebroadwan/bizdesk/internal/identity"
	"github.com/aussiebroadwan/bizdesk/pkg/cryptox"
	"github.com/aussiebroadwan/bizdesk/pkg/idx"
	"github.com/aussiebroadwan/bizdesk/pkg/jwtx"
	"golang.org/x/time/rate"
)

const MinPasswordLength = 6

const (
	msgInvalidEmail       = "Unable to validate email address: invalid format"
	msgWeakPassword       = "Password should be at least 6 characters"
	msgUserExists         = "User already registered"
	msgInvalidCredentials = "Invalid login credentials"
	msgEmailNotConfirmed  = "Email not confirmed"
	msgRateLimited        = "Too many sign-in attempts"
	msgUnexpected         = "Database error querying schema"
	msgSessionFailed      = "Failed to create session"
)

type Config struct {
	Issuer     string
	SessionTTL time.Duration

	// AutoConfirm confirms accounts at signup and signs them straight in.
	AutoConfirm bool

	// Per-email sign-in attempts: SignInBurst attempts, refilled at SignInRate.
	SignInRate  rate.Limit
	SignInBurst int
}

type Provider struct {
	accounts store.Accounts
	hasher   cryptox.PasswordHasher
	signer   jwtx.Signer
	verifier jwtx.Verifier
	cfg      Config
	logger   *slog.Logger

	// Now is the provider clock; tests override it together with the verifier's.
	Now func() time.Time

	mu    sync.Mutex
	token string

	subs     subscriptions
	limiters *attemptLimiter
}

var _ identity.Provider = (*Provider)(nil)

func New(accounts store.Accounts, hasher cryptox.PasswordHasher, signer jwtx.Signer, verifier jwtx.Verifier, cfg Config, logger *slog.Logger) *Provider {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = jwtx.DefaultSessionTTL
	}
	if cfg.SignInRate <= 0 {
		cfg.SignInRate = rate.Every(12 * time.Second)
	}
	if cfg.SignInBurst <= 0 {
		cfg.SignInBurst = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		accounts: accounts,
		hasher:   hasher,
		signer:   signer,
		verifier: verifier,
		cfg:      cfg,
		logger:   logger.With("component", "identity.local"),
		Now:      time.Now,
		limiters: newAttemptLimiter(cfg.SignInRate, cfg.SignInBurst),
	}
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	email, ok := normaliseEmail(email)
	if !ok {
		return identity.Identity{}, identity.NewError(identity.CodeInvalidEmail, msgInvalidEmail)
	}
	if len(password) < MinPasswordLength {
		return identity.Identity{}, identity.NewError(identity.CodeWeakPassword, msgWeakPassword)
	}

	hash, err := p.hasher.HashPassword(password)
	if err != nil {
		p.logger.Error("hash password", "error", err)
		return identity.Identity{}, identity.NewError(identity.CodeUnexpected, msgUnexpected)
	}

	acct := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
	}
	if p.cfg.AutoConfirm {
		at := p.Now().UTC()
		acct.ConfirmedAt = &at
	}

	if err := p.accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return identity.Identity{}, identity.NewError(identity.CodeUserExists, msgUserExists)
		}
		p.logger.Error("create account", "error", err)
		return identity.Identity{}, identity.NewError(identity.CodeUnexpected, msgUnexpected)
	}

	id := identity.Identity{ID: acct.ID, Email: acct.Email}
	if acct.Confirmed() {
		if err := p.startSession(id); err != nil {
			return identity.Identity{}, err
		}
	}
	return id, nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (identity.Identity, error) {
	email, ok := normaliseEmail(email)
	if !ok {
		return identity.Identity{}, identity.NewError(identity.CodeInvalidCredentials, msgInvalidCredentials)
	}
	if !p.limiters.allow(email) {
		return identity.Identity{}, identity.NewError(identity.CodeRateLimited, msgRateLimited)
	}

	acct, err := p.accounts.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return identity.Identity{}, identity.NewError(identity.CodeInvalidCredentials, msgInvalidCredentials)
	}
	if err != nil {
		p.logger.Error("load account", "error", err)
		return identity.Identity{}, identity.NewError(identity.CodeUnexpected, msgUnexpected)
	}

	if err := p.hasher.VerifyPassword(password, acct.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			p.logger.Error("verify password", "account_id", acct.ID, "error", err)
		}
		return identity.Identity{}, identity.NewError(identity.CodeInvalidCredentials, msgInvalidCredentials)
	}
	if !acct.Confirmed() {
		return identity.Identity{}, identity.NewError(identity.CodeEmailNotConfirmed, msgEmailNotConfirmed)
	}

	id := identity.Identity{ID: acct.ID, Email: acct.Email}
	if err := p.startSession(id); err != nil {
		return identity.Identity{}, err
	}
	return id, nil
}

// SignOut ends the current session. Without a session it does nothing.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	had := p.token != ""
	p.token = ""
	p.mu.Unlock()

	if had {
		p.subs.emit(identity.Event{Type: identity.EventSignedOut})
	}
	return nil
}

// GetUser verifies the held session token. An invalid or expired token, or
// one whose account no longer exists, is dropped and reported as no session.
func (p *Provider) GetUser(ctx context.Context) (identity.Identity, bool, error) {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	if token == "" {
		return identity.Identity{}, false, nil
	}

	claims, err := p.verifier.Verify(token)
	if err != nil {
		p.logger.Info("session token rejected", "error", err)
		p.dropSession(token)
		return identity.Identity{}, false, nil
	}

	acct, err := p.accounts.GetByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		p.logger.Info("session account gone", "account_id", claims.Subject)
		p.dropSession(token)
		return identity.Identity{}, false, nil
	}
	if err != nil {
		return identity.Identity{}, false, identity.NewError(identity.CodeUnexpected, msgUnexpected)
	}

	return identity.Identity{ID: acct.ID, Email: acct.Email}, true, nil
}

// RefreshSession reissues the current session token with a fresh expiry.
func (p *Provider) RefreshSession(ctx context.Context) error {
	id, ok, err := p.GetUser(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return identity.NewError(identity.CodeInvalidCredentials, "Auth session missing!")
	}

	token, err := p.issue(id)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	p.subs.emit(identity.Event{Type: identity.EventTokenRefreshed, Identity: id})
	return nil
}

// ConfirmEmail marks an account confirmed so it may sign in.
func (p *Provider) ConfirmEmail(ctx context.Context, accountID string) error {
	if err := p.accounts.Confirm(ctx, accountID, p.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return identity.NewError(identity.CodeInvalidCredentials, "User not found")
		}
		return err
	}

	id, ok, err := p.GetUser(ctx)
	if err == nil && ok && id.ID == accountID {
		p.subs.emit(identity.Event{Type: identity.EventUserUpdated, Identity: id})
	}
	return nil
}

func (p *Provider) OnSessionChange(h identity.Handler) identity.Subscription {
	return p.subs.add(h)
}

func (p *Provider) startSession(id identity.Identity) error {
	token, err := p.issue(id)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.token = token
	p.mu.Unlock()

	p.subs.emit(identity.Event{Type: identity.EventSignedIn, Identity: id})
	return nil
}

func (p *Provider) issue(id identity.Identity) (string, error) {
	sid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		p.logger.Error("generate session id", "error", err)
		return "", identity.NewError(identity.CodeUnexpected, msgSessionFailed)
	}
	claims := jwtx.NewSessionClaims(id.ID, sid, id.Email, p.cfg.Issuer, p.cfg.SessionTTL, p.Now().UTC())
	token, err := p.signer.Sign(claims)
	if err != nil {
		p.logger.Error("sign session token", "error", err)
		return "", identity.NewError(identity.CodeUnexpected, msgSessionFailed)
	}
	return token, nil
}

// dropSession clears the session only if it is still the one that was checked.
func (p *Provider) dropSession(token string) {
	p.mu.Lock()
	dropped := p.token == token
	if dropped {
		p.token = ""
	}
	p.mu.Unlock()

	if dropped {
		p.subs.emit(identity.Event{Type: identity.EventSignedOut})
	}
}

func normaliseEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}
