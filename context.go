package shopAuth

import "context"

// requestMeta is the per-request caller information copied onto audit
// events. It travels as one context value so both fields can be layered
// independently.
type requestMeta struct {
	ip        string
	userAgent string
}

type requestMetaKey struct{}

func metaFrom(ctx context.Context) requestMeta {
	if ctx == nil {
		return requestMeta{}
	}
	m, _ := ctx.Value(requestMetaKey{}).(requestMeta)
	return m
}

// WithClientIP records the caller's address for audit events emitted under ctx.
func WithClientIP(ctx context.Context, ip string) context.Context {
	m := metaFrom(ctx)
	m.ip = ip
	return context.WithValue(ctx, requestMetaKey{}, m)
}

// WithUserAgent records the caller's User-Agent for audit events emitted
// under ctx.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	m := metaFrom(ctx)
	m.userAgent = userAgent
	return context.WithValue(ctx, requestMetaKey{}, m)
}
