package crypto

import (
	"strings"
	"testing"
)

func TestRandomPassword(t *testing.T) {
	pw, err := RandomPassword(16)
	if err != nil {
		t.Fatalf("RandomPassword() unexpected error: %v", err)
	}
	if len(pw) != 16 {
		t.Errorf("RandomPassword() length = %d, want 16", len(pw))
	}

	checks := map[string]string{
		"lowercase": lowercaseChars,
		"uppercase": uppercaseChars,
		"digit":     numberChars,
		"symbol":    symbolChars,
	}
	for name, charset := range checks {
		if !strings.ContainsAny(pw, charset) {
			t.Errorf("RandomPassword() missing %s character: %q", name, pw)
		}
	}
}

func TestRandomPasswordTooShort(t *testing.T) {
	if _, err := RandomPassword(4); err != ErrLengthTooShort {
		t.Errorf("RandomPassword(4) error = %v, want ErrLengthTooShort", err)
	}
}

func TestRandomPasswordUnique(t *testing.T) {
	a, err := RandomPassword(32)
	if err != nil {
		t.Fatalf("RandomPassword() unexpected error: %v", err)
	}
	b, err := RandomPassword(32)
	if err != nil {
		t.Fatalf("RandomPassword() unexpected error: %v", err)
	}
	if a == b {
		t.Error("two random passwords should not match")
	}
}
