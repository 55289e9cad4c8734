package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options. The signing secret must be present; processes
// refuse to start without it.
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	// GetRequireVerifiedEmail decides whether unverified accounts may log in.
	GetRequireVerifiedEmail() bool
	GetSecureCookies() bool
	// GetOrigin is the public base URL embedded into verification links.
	GetOrigin() string
}

// ClientInfo captures the requesting client's metadata persisted on a session.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// UserStore is the credential store the session manager consumes.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	// MarkVerified flips the verified flag and clears the token iff the stored
	// token still equals the supplied one. Returns ErrVerificationFailed when
	// the token was already burned.
	MarkVerified(ctx context.Context, id uuid.UUID, token string, at time.Time) error
}

// SessionTokenStore is the per-user session descriptor store.
type SessionTokenStore interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*SessionToken, error)
	Upsert(ctx context.Context, record *SessionToken) (*SessionToken, error)
	// DeleteByUser is idempotent; deleting an absent session is not an error.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// VerificationEmail carries everything the out-of-band message needs.
type VerificationEmail struct {
	To     string
	Name   string
	Token  string
	Origin string
}

// VerificationSender dispatches the account verification message. Delivery is
// at-least-once from the caller's point of view: a failure is reported but the
// account it refers to stays created.
type VerificationSender interface {
	SendVerification(ctx context.Context, msg VerificationEmail) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
