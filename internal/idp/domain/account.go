package domain

import (
	"errors"
	"time"
)

// Account is an identity-provider user record. Staff accounts carry a password
// hash; IT-admin accounts do not (their uid is the peppered hash of an
// identification number and they sign in via custom token).
type Account struct {
	UID          string
	Email        string
	PasswordHash string // empty for IT-admin accounts
	DisplayName  string
	Admin        bool // elevated claim, stamped into every token minted for the account
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the account for persistence. Returns an error describing the
// first validation failure.
func (a *Account) Validate() error {
	if a.UID == "" {
		return errors.New("uid is required")
	}
	if a.Email == "" {
		return errors.New("email is required")
	}
	return nil
}
