package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// AdminAuthMiddleware guards the admin diagnostics routes with a bearer
// token. An empty configured token disables the routes outright.
func AdminAuthMiddleware(adminToken string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				http.Error(w, "Admin access disabled", http.StatusForbidden)
				return
			}
			token := r.Header.Get("Authorization")
			if !strings.HasPrefix(token, "Bearer ") || strings.TrimPrefix(token, "Bearer ") != adminToken {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
