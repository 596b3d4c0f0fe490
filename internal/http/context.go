package http

import (
	"context"

	"github.com/example/cleanops/internal/application"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	staffIDContextKey   contextKey = "staff_id"
	jobIDContextKey     contextKey = "job_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithStaffID injects the staff identifier resolved from the request path.
func ContextWithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffIDContextKey, staffID)
}

// StaffIDFromContext extracts a staff identifier previously associated with the context.
func StaffIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(staffIDContextKey).(string)
	return id, ok
}

// ContextWithJobID injects the job identifier resolved from the request path.
func ContextWithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDContextKey, jobID)
}

// JobIDFromContext extracts a job identifier previously associated with the context.
func JobIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(jobIDContextKey).(string)
	return id, ok
}
