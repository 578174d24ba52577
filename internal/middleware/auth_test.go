package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devfolio/devfolio-api/internal/token"
)

func protectedHandler(t *testing.T, codec *token.Codec) http.Handler {
	t.Helper()
	return JWTAuth(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			t.Error("user id missing from context in protected handler")
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestJWTAuthValidToken(t *testing.T) {
	codec := token.NewCodec("test-secret", 15*time.Minute, time.Hour)
	access, err := codec.IssueAccess(42, "alice")
	if err != nil {
		t.Fatalf("IssueAccess() unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()

	protectedHandler(t, codec).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestJWTAuthRejections(t *testing.T) {
	codec := token.NewCodec("test-secret", 15*time.Minute, time.Hour)
	expiredCodec := token.NewCodec("test-secret", -time.Minute, -time.Minute)

	refresh, err := codec.IssueRefresh(42, "alice")
	if err != nil {
		t.Fatalf("IssueRefresh() unexpected error: %v", err)
	}
	expired, err := expiredCodec.IssueAccess(42, "alice")
	if err != nil {
		t.Fatalf("IssueAccess() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer garbage"},
		{"expired token", "Bearer " + expired},
		{"refresh token where access is required", "Bearer " + refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := JWTAuth(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("protected handler must not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			// Uniform body regardless of the rejection reason.
			if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"unauthorized"}` {
				t.Errorf("body = %q, want uniform unauthorized body", body)
			}
		})
	}
}

func TestUserIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Error("UserIDFromContext() = ok on a bare context")
	}
}
