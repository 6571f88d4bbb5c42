// Package identity defines the client surface of an identity provider: the
// service that owns credentials and the active session.
package identity

import (
	"context"
	"errors"
)

// EventType names a session change reported by a provider.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventUserUpdated    EventType = "USER_UPDATED"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Identity is the provider's view of a user. ID is the provider user id.
type Identity struct {
	ID    string
	Email string
}

// IsZero reports whether no identity was returned.
func (i Identity) IsZero() bool { return i.ID == "" }

// Event is delivered to session subscribers. Identity is zero on sign-out.
type Event struct {
	Type     EventType
	Identity Identity
}

// Handler receives session change events.
type Handler func(Event)

// Subscription is returned by OnSessionChange.
type Subscription interface {
	// Unsubscribe stops delivery. It is safe to call more than once.
	Unsubscribe()
}

// Provider is what the account layer needs from an identity provider.
type Provider interface {
	// SignUp registers credentials. Depending on the provider the account may
	// need confirming before it can sign in.
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context) error
	// GetUser returns the identity of the active session; ok is false when
	// there is none.
	GetUser(ctx context.Context) (id Identity, ok bool, err error)
	OnSessionChange(h Handler) Subscription
}

// Error is a failure reported by the provider. Message is user facing and is
// passed through to callers unchanged.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Error codes used by providers in this repository.
const (
	CodeInvalidEmail       = "invalid_email"
	CodeWeakPassword       = "weak_password"
	CodeUserExists         = "user_already_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailNotConfirmed  = "email_not_confirmed"
	CodeRateLimited        = "over_request_rate_limit"
	CodeUnexpected         = "unexpected_failure"
)

// NewError builds a provider error.
func NewError(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// HasCode reports whether err is a provider Error with the given code.
func HasCode(err error, code string) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == code
}
