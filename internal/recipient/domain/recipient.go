package domain

import (
	"errors"
	"time"
)

// Recipient is a person the organization issues ARC cards to.
type Recipient struct {
	ID             string
	FirstName      string
	SecondName     string
	GenderIdentity string
	Aliases        []string
	DateOfBirth    string
	Address        string
	PostalCode     string
	Banned         bool
	BanReason      string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks required fields.
func (r *Recipient) Validate() error {
	if r.ID == "" {
		return errors.New("id is required")
	}
	if r.FirstName == "" || r.SecondName == "" {
		return errors.New("first and second name are required")
	}
	if r.CreatedBy == "" {
		return errors.New("created_by is required")
	}
	return nil
}
