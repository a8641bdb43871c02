package httpx

import (
	"net/http"
	"strings"

	"github.com/bekzodm/oshxona/internal/orders"
	"github.com/bekzodm/oshxona/internal/staff"
)

type Auth struct{ Secret []byte }

// Require authenticates the staff token and, when roles are given,
// restricts access to them.
func (a *Auth) Require(roles ...orders.Role) func(http.Handler) http.Handler {
	allowed := make(map[orders.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				writeJSON(w, http.StatusUnauthorized, errBody("missing bearer token"))
				return
			}
			actor, err := staff.ParseToken(a.Secret, raw)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errBody("invalid or expired token"))
				return
			}
			if len(allowed) > 0 && !allowed[actor.Role] {
				writeJSON(w, http.StatusForbidden, errBody("role not permitted"))
				return
			}
			next.ServeHTTP(w, r.WithContext(staff.WithActor(r.Context(), actor)))
		})
	}
}
