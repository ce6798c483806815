package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	// ErrInvalidIDNumber is returned when the identification number is empty after trimming.
	ErrInvalidIDNumber = errors.New("invalid identification number")
	// ErrMissingPepper is returned when no hashing pepper is configured.
	ErrMissingPepper = errors.New("identification hashing pepper is not configured")
)

// IDHasher derives a deterministic principal id from an IT identification number.
// The hex SHA-256 output doubles as the IT-admin account uid, so the pepper must be
// a fixed server-side secret: changing it orphans every provisioned IT admin.
type IDHasher struct {
	pepper string
}

// NewIDHasher returns an IDHasher using the given pepper. The pepper may be empty;
// Hash then fails with ErrMissingPepper. Config validation should reject an empty
// pepper at startup so this only happens in misconfigured processes.
func NewIDHasher(pepper string) *IDHasher {
	return &IDHasher{pepper: pepper}
}

// Hash normalizes the identification number (trim, uppercase), concatenates the
// pepper, and returns the hex-encoded SHA-256 digest. Equal normalized inputs always
// produce equal output for the same pepper. The pepper never leaves the server.
func (h *IDHasher) Hash(identificationNumber string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(identificationNumber))
	if normalized == "" {
		return "", ErrInvalidIDNumber
	}
	if h.pepper == "" {
		return "", ErrMissingPepper
	}
	sum := sha256.Sum256([]byte(normalized + h.pepper))
	return hex.EncodeToString(sum[:]), nil
}
