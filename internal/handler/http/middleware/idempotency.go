package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
	idempotencyLockTTL     = 30 * time.Second
	idempotencyLockValue   = "locked"
	idempotencyProcessing  = "PROCESSING"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

func idempotencyKeys(r *http.Request, key string) (cacheKey, lockKey string) {
	userID := ""
	if actor, err := jwt.ActorFromContext(r.Context()); err == nil {
		userID = actor.UserID
	}
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", r.URL.Path, userID, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the first successful response of a POST carrying an
// Idempotency-Key header. A duplicate that arrives while the first is still
// running gets 409 PROCESSING. Redis failures let the request through.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if rdb == nil || key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey, lockKey := idempotencyKeys(r, key)

			val, err := rdb.Get(ctx, cacheKey).Bytes()
			switch {
			case err == nil:
				var cached cachedResponse
				if err := json.Unmarshal(val, &cached); err == nil {
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set(IdempotentReplayHeader, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
				slog.WarnContext(ctx, "discarding unreadable idempotency entry", "key", cacheKey)
			case !errors.Is(err, redis.Nil):
				slog.WarnContext(ctx, "idempotency lookup failed", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, idempotencyLockValue, idempotencyLockTTL).Result()
			if err != nil {
				slog.WarnContext(ctx, "idempotency lock failed", "key", lockKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.ConflictWithCode(w, idempotencyProcessing, "A request with this idempotency key is still being processed")
				return
			}
			defer func() {
				if err := rdb.Del(ctx, lockKey).Err(); err != nil {
					slog.WarnContext(ctx, "failed to release idempotency lock", "key", lockKey, "error", err)
				}
			}()

			var buf bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)

			next.ServeHTTP(ww, r)

			if ww.Status() < 200 || ww.Status() >= 300 {
				return
			}
			payload, err := encodeCachedResponse(ww.Status(), ww.Header().Get("Content-Type"), buf.Bytes())
			if err != nil {
				return
			}
			if err := rdb.Set(ctx, cacheKey, payload, ttl).Err(); err != nil {
				slog.WarnContext(ctx, "failed to store idempotent response", "key", cacheKey, "error", err)
			}
		})
	}
}

func encodeCachedResponse(status int, contentType string, body []byte) ([]byte, error) {
	return json.Marshal(cachedResponse{Status: status, ContentType: contentType, Body: body})
}
