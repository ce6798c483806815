package security

import (
	"errors"
	"testing"
)

func TestIDHasher_Deterministic(t *testing.T) {
	h := NewIDHasher("PEPPER1")
	a, err := h.Hash("abc-123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash("  ABC-123  ")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Errorf("hashes of equivalent inputs differ: %s vs %s", a, b)
	}
}

func TestIDHasher_PinnedVector(t *testing.T) {
	// Pins the algorithm: hex SHA-256 of normalized input + pepper.
	h := NewIDHasher("PEPPER1")
	got, err := h.Hash("abc123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	want := "8e924d5b57d3b0cea6b7d161df5eba9b6eafe3e94ed341627834957fe3838a3d"
	if got != want {
		t.Errorf("Hash(\"abc123\") = %s, want %s", got, want)
	}
}

func TestIDHasher_PepperChangesOutput(t *testing.T) {
	a, err := NewIDHasher("PEPPER1").Hash("ABC123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := NewIDHasher("PEPPER2").Hash("ABC123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Error("different peppers produced the same hash")
	}
}

func TestIDHasher_EmptyInput(t *testing.T) {
	h := NewIDHasher("PEPPER1")
	for _, in := range []string{"", "   ", "\t\n"} {
		if _, err := h.Hash(in); !errors.Is(err, ErrInvalidIDNumber) {
			t.Errorf("Hash(%q) error = %v, want ErrInvalidIDNumber", in, err)
		}
	}
}

func TestIDHasher_MissingPepper(t *testing.T) {
	h := NewIDHasher("")
	if _, err := h.Hash("ABC123"); !errors.Is(err, ErrMissingPepper) {
		t.Errorf("Hash error = %v, want ErrMissingPepper", err)
	}
}
