package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/devfolio/devfolio-api/internal/token"
)

type contextKey string

const userIDKey contextKey = "userID"

// JWTAuth returns middleware that validates a Bearer access token from the
// Authorization header. Every rejection produces the same 401 body; the
// specific reason (missing, malformed, expired, wrong kind) only shows up
// in the logs.
func JWTAuth(codec *token.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				rejectUnauthorized(w, r, "missing authorization header")
				return
			}

			raw, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || raw == "" {
				rejectUnauthorized(w, r, "invalid authorization format")
				return
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				rejectUnauthorized(w, r, err.Error())
				return
			}

			if claims.Kind != token.KindAccess {
				rejectUnauthorized(w, r, "wrong token kind: "+claims.Kind)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func rejectUnauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Debug("request rejected", "path", r.URL.Path, "reason", reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
