package contextx

import "context"

// Key is a private type to avoid collisions in request context keys.
type Key string

// UserIDKey is the context key used to store the authenticated user's ID (string).
const UserIDKey Key = "userID"

// SessionIDKey is the context key used to store the opaque session ID carried
// by the access token's "sid" claim.
const SessionIDKey Key = "sessionID"

// UserID extracts the authenticated user's ID from the context.
// Returns "" and false when no authenticated user is present.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// SessionID extracts the session ID from the context.
// Returns "" and false when no session is present.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}
