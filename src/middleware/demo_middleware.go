package middleware

import (
	"net/http"
)

// DemoModeMiddleware makes the API read-only when demo mode is on. It must be
// mounted after JWTAuthMiddleware so the super-admin claim is in the context;
// login and register stay writable by living outside the protected group.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if superAdmin, ok := r.Context().Value("super_admin").(bool); ok && superAdmin {
				next.ServeHTTP(w, r)
				return
			}

			if isDemo && r.Method != http.MethodGet {
				http.Error(w, "Demo mode: only GET requests are allowed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
