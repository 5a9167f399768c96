package types

import "context"

// ContextKey is the type of request-scoped values stored by the server.
type ContextKey string

const (
	// ContextKeyRequestID carries the X-Request-ID of the current request.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyRequestSource names the surface that issued the call (server, cli).
	ContextKeyRequestSource ContextKey = "request_source"
)

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// RequestSource returns the request source stored in ctx, or "".
func RequestSource(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestSource).(string); ok {
		return v
	}
	return ""
}
