package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
)

// RequirePermission lets the request through only when the caller's role
// grants permission. Unknown roles are treated as having no permissions.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := jwt.ActorFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(actor.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Role '%s' lacks permission '%s'", actor.Role, permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
