package auth

import (
	"log/slog"
	"net/http"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/transport"
)

// RBACAuthorization guards routes by app_role. It must run after AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// RequireRole admits callers holding any of roles. super_admin always passes.
func (ra *RBACAuthorization) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				ra.HandleServiceError(w, internal.ErrUnauthenticated)
				return
			}

			if !user.IsSuperAdmin() && !user.HasAnyRole(roles...) {
				ra.Logger.WarnContext(r.Context(), "access denied: missing role",
					"user_id", user.ID,
					"required_roles", roles,
					"user_roles", user.Roles)
				ra.HandleServiceError(w, internal.NewForbiddenError("Forbidden: insufficient permissions", internal.ErrCodeForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
