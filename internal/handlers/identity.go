package handlers

import "context"

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// WithIdentity stores the authenticated caller on the request context.
func WithIdentity(ctx context.Context, id int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, roleKey, role)
}

// Identity returns the caller set by WithIdentity.
func Identity(ctx context.Context) (id int64, role string, ok bool) {
	id, ok = ctx.Value(userIDKey).(int64)
	role, _ = ctx.Value(roleKey).(string)
	return id, role, ok && id > 0
}
