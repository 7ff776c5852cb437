package middleware

import (
	"net/http"
	"sync"

	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
	"golang.org/x/time/rate"
)

// UserRateLimiter hands out one token bucket per key.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

func NewUserRateLimiter(r rate.Limit, b int) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (l *UserRateLimiter) Limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.limiters[key] = limiter
	}
	return limiter
}

// RateLimitByUser throttles authenticated callers by user id. It must run
// after AuthRequired; requests without an actor pass through.
func RateLimitByUser(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewUserRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			actor, err := jwt.ActorFromContext(req.Context())
			if err != nil {
				next.ServeHTTP(w, req)
				return
			}
			if !limiter.Limiter(actor.UserID).Allow() {
				response.TooManyRequests(w, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
