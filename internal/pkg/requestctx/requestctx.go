// Package requestctx carries per-request metadata used by the audit log.
package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	clientIPKey  ctxKey = "client_ip"
	userAgentKey ctxKey = "user_agent"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	return getString(ctx, requestIDKey)
}

// WithClient stores the caller's address and user agent.
func WithClient(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, ip)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func GetClientIP(ctx context.Context) string {
	return getString(ctx, clientIPKey)
}

func GetUserAgent(ctx context.Context) string {
	return getString(ctx, userAgentKey)
}

func getString(ctx context.Context, key ctxKey) string {
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}
