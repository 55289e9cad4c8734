package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GrantContextKey is the fiber Locals key under which RequireAuth stores the
// verified access grant.
const GrantContextKey = "auth_grant"

var grantCtxKey = &contextKey{"grant"}
var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithGrantContext sets the AccessGrant in the given context
func WithGrantContext(r context.Context, grant AccessGrant) context.Context {
	return context.WithValue(r, grantCtxKey, grant)
}

// GrantFromContext finds the grant from the context.
func GrantFromContext(ctx context.Context) (AccessGrant, bool) {
	raw, ok := ctx.Value(grantCtxKey).(AccessGrant)
	return raw, ok
}

// WithUserContext sets the User in the given context
func WithUserContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// UserFromContext finds the user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// GrantFromFiber extracts the AccessGrant stashed in fiber Locals by the
// RequireAuth middleware.
func GrantFromFiber(c *fiber.Ctx) (AccessGrant, error) {
	raw := c.Locals(GrantContextKey)
	if raw == nil {
		return nil, ErrUnableToFindSession
	}

	grant, ok := raw.(AccessGrant)
	if !ok {
		return nil, ErrUnableToParseData
	}

	return grant, nil
}

// GrantUserUUID parses the subject of a grant as a UUID.
func GrantUserUUID(grant AccessGrant) (uuid.UUID, error) {
	if grant == nil {
		return uuid.Nil, ErrUnableToFindSession
	}
	return uuid.Parse(grant.UserID())
}
