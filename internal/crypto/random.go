package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var ErrLengthTooShort = errors.New("random password length must be at least 8")

// RandomPassword creates a cryptographically secure random password drawing
// from lowercase, uppercase, digit, and symbol characters, with at least one
// of each class present.
func RandomPassword(length int) (string, error) {
	if length < 8 {
		return "", ErrLengthTooShort
	}

	pool := lowercaseChars + uppercaseChars + numberChars + symbolChars
	required := []string{lowercaseChars, uppercaseChars, numberChars, symbolChars}

	result := make([]byte, length)

	// Guarantee one character from each class.
	for i, charset := range required {
		ch, err := randChar(charset)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	for i := len(required); i < length; i++ {
		ch, err := randChar(pool)
		if err != nil {
			return "", err
		}
		result[i] = ch
	}

	if err := secureShuffle(result); err != nil {
		return "", err
	}

	return string(result), nil
}

// randChar picks a random character from charset using crypto/rand.
func randChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}

// secureShuffle performs a Fisher-Yates shuffle using crypto/rand.
func secureShuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
