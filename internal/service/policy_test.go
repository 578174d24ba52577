package service

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string // substrings that must each appear in one violation
	}{
		{
			name:     "valid password",
			password: "Password123!",
			want:     nil,
		},
		{
			name:     "seven characters fails length only",
			password: "short1!",
			want:     []string{"between 8 and 128"},
		},
		{
			name:     "no symbol fails symbol rule only",
			password: "alllowercase1",
			want:     []string{"symbol"},
		},
		{
			name:     "no digit",
			password: "alllowercase!",
			want:     []string{"digit"},
		},
		{
			name:     "no lowercase",
			password: "ALLUPPER123!",
			want:     []string{"lowercase"},
		},
		{
			name:     "multiple rules reported together",
			password: "ABC",
			want:     []string{"between 8 and 128", "lowercase", "digit", "symbol"},
		},
		{
			name:     "all listed symbols accepted",
			password: "abc123" + `!"#$%&'()*+,-./:;<=>?@[\]^_` + "`{|}~",
			want:     nil,
		},
		{
			name:     "129 characters fails length",
			password: strings.Repeat("a1!", 43), // 129 chars
			want:     []string{"between 8 and 128"},
		},
		{
			name:     "multibyte characters counted as one",
			password: "한한한a1!", // 6 characters, 12 bytes
			want:     []string{"between 8 and 128"},
		},
		{
			name:     "eight multibyte characters pass length",
			password: "한한한한한a1!x",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validatePassword(tt.password)
			if len(got) != len(tt.want) {
				t.Fatalf("validatePassword(%q) = %v, want %d violations", tt.password, got, len(tt.want))
			}
			for _, substr := range tt.want {
				found := false
				for _, v := range got {
					if strings.Contains(v, substr) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("violations %v missing rule mentioning %q", got, substr)
				}
			}
		})
	}
}

func TestValidateLoginID(t *testing.T) {
	if v := validateLoginID("abc"); len(v) != 1 {
		t.Errorf("validateLoginID(short) = %v, want one violation", v)
	}
	if v := validateLoginID("alice"); v != nil {
		t.Errorf("validateLoginID(valid) = %v, want nil", v)
	}
	if v := validateLoginID(strings.Repeat("x", 21)); len(v) != 1 {
		t.Errorf("validateLoginID(long) = %v, want one violation", v)
	}
}

func TestValidateNickname(t *testing.T) {
	if v := validateNickname("a"); len(v) != 1 {
		t.Errorf("validateNickname(short) = %v, want one violation", v)
	}
	if v := validateNickname("Alice"); v != nil {
		t.Errorf("validateNickname(valid) = %v, want nil", v)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Violations: []string{"a", "b"}}
	if !strings.Contains(err.Error(), "a; b") {
		t.Errorf("Error() = %q, want joined violations", err.Error())
	}
}
