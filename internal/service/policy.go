package service

import (
	"strings"
	"unicode/utf8"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 128

	// ASCII punctuation accepted as password symbols.
	passwordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	loginIDMinLength  = 4
	loginIDMaxLength  = 20
	nicknameMinLength = 2
	nicknameMaxLength = 20
)

// ValidationError reports every violated signup rule at once, so a client
// can surface the full list instead of fixing rules one at a time.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// validatePassword returns one message per violated password rule.
func validatePassword(password string) []string {
	var violations []string

	if n := utf8.RuneCountInString(password); n < passwordMinLength || n > passwordMaxLength {
		violations = append(violations, "password must be between 8 and 128 characters")
	}

	var hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	if !hasLower {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain at least one digit")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain at least one symbol")
	}

	return violations
}

func validateLoginID(loginID string) []string {
	if n := utf8.RuneCountInString(loginID); n < loginIDMinLength || n > loginIDMaxLength {
		return []string{"user id must be between 4 and 20 characters"}
	}
	return nil
}

func validateNickname(nickname string) []string {
	if n := utf8.RuneCountInString(nickname); n < nicknameMinLength || n > nicknameMaxLength {
		return []string{"nickname must be between 2 and 20 characters"}
	}
	return nil
}
