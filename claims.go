package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessGrant is the decoded, verified payload of an access token. It exists
// only for the duration of a request and is never persisted.
type AccessGrant interface {
	UserID() string
	Name() string
	Role() Role
	// RefreshToken returns the opaque refresh value this grant was issued
	// alongside, so the grant can be correlated with its SessionToken record.
	RefreshToken() string
	Expires() time.Time
	IssuedAt() time.Time
}

// AccessClaims is the concrete JWT claim set behind an AccessGrant.
type AccessClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserName string `json:"name,omitempty"`
	UserRole Role   `json:"role,omitempty"`
	Refresh  string `json:"refresh_token,omitempty"`
}

var _ AccessGrant = (*AccessClaims)(nil)

// UserID returns the user ID, falling back to the subject claim.
func (c *AccessClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Name returns the display name carried by the token.
func (c *AccessClaims) Name() string {
	return c.UserName
}

// Role returns the account role carried by the token.
func (c *AccessClaims) Role() Role {
	return c.UserRole
}

// RefreshToken returns the correlated refresh value.
func (c *AccessClaims) RefreshToken() string {
	return c.Refresh
}

// Expires returns the expiration time.
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time.
func (c *AccessClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// TokenUser converts the grant back into the minimal claim set shape.
func (c *AccessClaims) TokenUser() TokenUser {
	return TokenUser{
		ID:   c.UserID(),
		Name: c.UserName,
		Role: c.UserRole,
	}
}
