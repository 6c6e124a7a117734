package middleware

import (
	"net/http"

	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/Jakababa94/kenya-liga-hub/pkg/logger"
)

// UserContext tags the request logger with the authenticated user. Mount it after AuthMiddleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
