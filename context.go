package goCred

import "context"

type clientIPContextKey struct{}
type referenceContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The Engine records it on
// audit events emitted during rotation.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithReference attaches a caller reference (e.g. the name of the invoking
// workflow) to ctx. It overrides the configured default reference recorded on
// revoke factors sent to the credential backend.
func WithReference(ctx context.Context, reference string) context.Context {
	return context.WithValue(ctx, referenceContextKey{}, reference)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func referenceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	reference, _ := ctx.Value(referenceContextKey{}).(string)
	return reference
}
