package domain

import "time"

// Account is a credential record owned by the local identity provider.
type Account struct {
	ID           string
	Email        string
	PasswordHash string     // argon2id PHC string
	ConfirmedAt  *time.Time // nil until the email is confirmed
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Confirmed reports whether the account may sign in.
func (a Account) Confirmed() bool { return a.ConfirmedAt != nil }
