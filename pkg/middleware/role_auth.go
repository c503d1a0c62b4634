package middleware

import (
	"net/http"
)

// Role names carried in JWT claims.
const (
	RoleBroker      = "BROKER"
	RoleHouseSeeker = "HOUSESEEKER"
)

// RoleAuthMiddleware checks if the user has one of the required roles
func RoleAuthMiddleware(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := GetRoleFromContext(r.Context())
			if !ok {
				sendUnauthorized(w, "User role not found")
				return
			}

			for _, allowed := range allowedRoles {
				if userRole == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			sendForbidden(w, "Insufficient permissions")
		})
	}
}

// RequireBroker middleware that requires the BROKER role
func RequireBroker(next http.Handler) http.Handler {
	return RoleAuthMiddleware(RoleBroker)(next)
}

func sendForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"success": false, "error": {"code": "FORBIDDEN", "message": "` + message + `"}}`))
}
