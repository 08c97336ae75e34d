package middleware

import (
	"context"
	"net/http"

	"hrpayroll/internal/auth"
	"hrpayroll/internal/transport/http/api"
)

// AccountStore answers whether an account is still active. Tokens outlive
// account deactivation, so every protected route re-checks the store.
type AccountStore interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// RequireUser gates a route behind a valid token and an active account.
func RequireUser(store AccountStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			active, err := store.IsActive(r.Context(), user.UserID)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "account_check_failed", "account check failed", GetRequestID(r.Context()))
				return
			}
			if !active {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "account disabled", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole layers a role check on top of RequireUser.
func RequireRole(store AccountStore, roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	requireUser := RequireUser(store)
	return func(next http.Handler) http.Handler {
		return requireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := GetUser(r.Context())
			if _, ok := allowed[user.Role]; !ok {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
