package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/requestctx"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates or assigns a request id and records the caller's
// address and user agent for the audit log. Run it after RealIP.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, rid)

		ctx := requestctx.WithRequestID(r.Context(), rid)
		ctx = requestctx.WithClient(ctx, r.RemoteAddr, r.UserAgent())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
