package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer passwords are
// truncated before hashing, the behavior most bcrypt bindings share;
// x/crypto/bcrypt instead rejects them, so the cut happens here.
const maxPasswordBytes = 72

// Hasher wraps bcrypt password hashing with a fixed cost. It also carries a
// throwaway hash so callers can burn comparable CPU time on lookups for
// accounts that do not exist, keeping the signin code path timing-uniform.
type Hasher struct {
	cost      int
	dummyHash string
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside the
// supported range fall back to DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	// The dummy hash is derived from a random password generated at startup,
	// so it can never match any real credential.
	pw, err := RandomPassword(32)
	if err != nil {
		return nil, fmt.Errorf("generating dummy password: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return nil, fmt.Errorf("hashing dummy password: %w", err)
	}

	return &Hasher{cost: cost, dummyHash: string(dummy)}, nil
}

// Hash produces a salted bcrypt hash of the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the plaintext password matches the stored hash.
// A plain mismatch is not an error, only false.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

// VerifyDummy performs a bcrypt comparison against the throwaway hash and
// always returns false. Call it when the user lookup came up empty so that
// "unknown user" and "wrong password" take a comparable amount of time.
func (h *Hasher) VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(h.dummyHash), truncate(password))
	return false
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
