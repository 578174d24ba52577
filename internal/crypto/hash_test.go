package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}
	return h
}

func TestHashPassword(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if hash == "" {
		t.Fatal("Hash() returned empty string")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() = %q, want bcrypt format", hash)
	}
}

func TestHasherUsesConfiguredCost(t *testing.T) {
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}

	hash, err := h.Hash("some-password1!")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() unexpected error: %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Errorf("cost = %d, want %d", cost, bcrypt.MinCost)
	}
}

func TestNewHasherRejectsBogusCost(t *testing.T) {
	h, err := NewHasher(99)
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}

	hash, err := h.Hash("some-password1!")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() unexpected error: %v", err)
	}
	if cost != DefaultCost {
		t.Errorf("cost = %d, want DefaultCost %d", cost, DefaultCost)
	}
}

func TestVerifyPasswordCorrect(t *testing.T) {
	h := newTestHasher(t)
	password := "my-secure-password1!"

	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if !h.Verify(password, hash) {
		t.Error("Verify() returned false for correct password")
	}
}

func TestVerifyPasswordWrong(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("correct-password1!")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if h.Verify("wrong-password1!", hash) {
		t.Error("Verify() returned true for wrong password")
	}
}

func TestHashPasswordProducesDifferentHashes(t *testing.T) {
	h := newTestHasher(t)
	password := "same-password1!"

	hash1, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestHashAcceptsLongPassword(t *testing.T) {
	h := newTestHasher(t)
	password := "a1!" + strings.Repeat("x", 97) // 100 chars, over the bcrypt limit

	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !h.Verify(password, hash) {
		t.Error("Verify() returned false for the password that was hashed")
	}
}

func TestLongPasswordsMatchOnFirst72Bytes(t *testing.T) {
	// bcrypt only reads 72 bytes; passwords differing beyond that verify
	// as equal.
	h := newTestHasher(t)
	prefix := strings.Repeat("x", 72)

	hash, err := h.Hash(prefix + "tail-one")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !h.Verify(prefix+"tail-two", hash) {
		t.Error("Verify() should ignore bytes past the bcrypt limit")
	}
	if h.Verify(prefix[:71]+"Y", hash) {
		t.Error("Verify() accepted a password differing within the limit")
	}
}

func TestVerifyDummyAlwaysFalse(t *testing.T) {
	h := newTestHasher(t)

	for _, pw := range []string{"", "anything", "Password123!"} {
		if h.VerifyDummy(pw) {
			t.Errorf("VerifyDummy(%q) returned true", pw)
		}
	}
}
