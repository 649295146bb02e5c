// File: internal/middleware/admin.go
package middleware

import (
	"log"
	"net/http"

	"github.com/medassist-ng/ai-service/internal/services/admin"
)

// RequireAdmin checks that the authenticated staff user has the admin role.
// It MUST run after the JWT middleware.
func RequireAdmin(authService *admin.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(UserIDKey).(uint)
			if !ok || userID == 0 {
				log.Printf("[AdminMiddleware] Forbidden: no valid userID in context for path %s", r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			staff, err := authService.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("[AdminMiddleware] Forbidden: could not load user %d: %v", userID, err)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			if staff.Role != admin.RoleAdmin {
				log.Printf("[AdminMiddleware] FORBIDDEN: user '%s' (ID: %d) attempted admin route: %s",
					staff.Username, staff.ID, r.URL.Path)
				http.Error(w, "Forbidden: You do not have permission to access this resource.", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
