package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Profiles are the application's
// records; Accounts back the local identity provider and live in the same
// database so housekeeping can join the two.
type Store interface {
	Profiles() Profiles
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Profiles is the Profile Store surface consumed by the account service.
type Profiles interface {
	// Insert writes a new row. A duplicate id yields ErrAlreadyExists.
	Insert(ctx context.Context, p domain.Profile) error

	// GetByID returns the row for a provider user id or ErrNotFound.
	GetByID(ctx context.Context, id string) (domain.Profile, error)

	// Update writes the non-nil fields of u and bumps updated_at. Returns
	// ErrNotFound when no row matches u.ID.
	Update(ctx context.Context, u domain.ProfileUpdate) error
}

// Accounts holds local identity provider credentials.
type Accounts interface {
	// Create inserts an account. A duplicate email yields ErrAlreadyExists.
	Create(ctx context.Context, a domain.Account) error

	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByEmail looks up by the normalised (lower-case) email.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// Confirm sets confirmed_at if it is not already set.
	Confirm(ctx context.Context, id string, at time.Time) error

	// ListOrphaned returns accounts that have no profile row.
	ListOrphaned(ctx context.Context) ([]domain.Account, error)

	// DeleteUnconfirmedBefore removes unconfirmed accounts created before
	// cutoff, together with their profile rows, and reports how many accounts
	// were removed. Run it inside WithTx so both deletes commit together.
	DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
