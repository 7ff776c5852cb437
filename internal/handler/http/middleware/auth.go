package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token carrying a
// user id. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if tokenType, ok := claims["type"].(string); !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if _, err := jwt.ActorFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
