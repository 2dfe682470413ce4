package logging

import "context"

type userIDKey struct{}

// WithUserID returns a context carrying the authenticated user's id. Every
// SlogLogger record written with that context gets a user_id attribute.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the id stored by WithUserID, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
