package domain

import (
	"errors"
	"time"
)

// Kind discriminates the two principal types the portal knows.
type Kind string

const (
	KindStaff   Kind = "staff"
	KindITAdmin Kind = "it_admin"
)

// StaffRecord is a provisioned administrative staff member. uid is assigned by the
// identity provider; CreatedBy references the IT admin that registered them.
type StaffRecord struct {
	UID       string
	Email     string
	FirstName string
	LastName  string
	Role      string
	CreatedBy string
	CreatedAt time.Time
}

// Validate validates the staff record for persistence.
func (s *StaffRecord) Validate() error {
	if s.UID == "" {
		return errors.New("uid is required")
	}
	if s.Email == "" {
		return errors.New("email is required")
	}
	if s.FirstName == "" || s.LastName == "" {
		return errors.New("first and last name are required")
	}
	if s.Role == "" {
		s.Role = "staff"
	}
	return nil
}

// AdminRecord is a provisioned IT admin. ID is the peppered hash of the
// identification number and doubles as the account uid.
type AdminRecord struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// Validate validates the admin record for persistence.
func (a *AdminRecord) Validate() error {
	if a.ID == "" {
		return errors.New("id is required")
	}
	if a.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// Principal is the tagged union over the two record kinds, so callers handle one
// closed set instead of probing two collections independently. Exactly one of
// Staff and Admin is non-nil, matching Kind.
type Principal struct {
	Kind  Kind
	Staff *StaffRecord
	Admin *AdminRecord
}

// ID returns the principal id regardless of kind.
func (p *Principal) ID() string {
	switch p.Kind {
	case KindStaff:
		return p.Staff.UID
	case KindITAdmin:
		return p.Admin.ID
	}
	return ""
}

// StaffPrincipal wraps a staff record as a Principal.
func StaffPrincipal(s *StaffRecord) *Principal {
	return &Principal{Kind: KindStaff, Staff: s}
}

// AdminPrincipal wraps an admin record as a Principal.
func AdminPrincipal(a *AdminRecord) *Principal {
	return &Principal{Kind: KindITAdmin, Admin: a}
}
