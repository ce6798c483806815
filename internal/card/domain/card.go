package domain

import (
	"errors"
	"time"
)

// Status of an ARC card.
type Status string

const (
	StatusActive       Status = "Active"
	StatusUnattributed Status = "Unattributed"
	StatusExpired      Status = "Expired"
	StatusUnloaded     Status = "Unloaded"
)

// ValidStatus reports whether s is one of the known card statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusUnattributed, StatusExpired, StatusUnloaded:
		return true
	}
	return false
}

// Card is a transit ARC card issued to a recipient.
type Card struct {
	ID              string
	RecipientID     string
	ArcCardNumber   string
	SecurityCode    string
	Department      string
	AllocationDate  string
	Status          Status
	MonthsRemaining int32
	IssuedAt        time.Time
}

// Validate checks required fields and the status value.
func (c *Card) Validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.RecipientID == "" {
		return errors.New("recipient_id is required")
	}
	if c.ArcCardNumber == "" {
		return errors.New("arc_card_number is required")
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !ValidStatus(c.Status) {
		return errors.New("invalid status")
	}
	if c.MonthsRemaining < 0 {
		return errors.New("months_remaining must not be negative")
	}
	return nil
}
