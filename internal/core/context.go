package core

import "context"

type contextKey string

const ctxKeyClientIP contextKey = "client_ip"

// ContextWithClientIP records the uploading client's address so conversion
// logs can be correlated with the request.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP, ip)
}

// ClientIPFromContext returns the address stored by ContextWithClientIP.
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return v
	}
	return ""
}
