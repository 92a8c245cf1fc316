package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// OperatorKey carries the authenticated operator name through the request
// context for downstream handlers.
const OperatorKey contextKey = "operator"

// Middleware validates the Authorization bearer token on protected routes
// and injects the operator identity into the request context.
func Middleware(manager TokenManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "authorization token is missing", http.StatusUnauthorized)
			return
		}

		// Expecting the standard "Bearer <token>" format
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := manager.Validate(tokenStr)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), OperatorKey, claims.Operator)
		next(w, r.WithContext(ctx))
	}
}
