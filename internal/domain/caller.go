package domain

import "context"

type callerKey struct{}

// WithCaller attaches an opaque caller identity token to ctx. The token is
// supplied by the authentication collaborator and is never interpreted here.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller token, or "" when none is attached
func CallerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(callerKey{}).(string); ok {
		return v
	}
	return ""
}
