// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// OfficerKey is the context key for the security officer operating the desk.
type OfficerKey struct{}

// WithOfficer returns a context with the officer name embedded.
func WithOfficer(ctx context.Context, officer string) context.Context {
	return context.WithValue(ctx, OfficerKey{}, officer)
}

// OfficerFromContext returns the officer from context, or empty string if not set.
func OfficerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(OfficerKey{}).(string); ok {
		return v
	}
	return ""
}
