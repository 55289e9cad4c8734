package auth

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventRegistered      ActivityEventType = "auth.user.registered"
	ActivityEventEmailVerified   ActivityEventType = "auth.email.verified"
	ActivityEventLoginSuccess    ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure    ActivityEventType = "auth.login.failure"
	ActivityEventLogout          ActivityEventType = "auth.logout"
	ActivityEventMailFailure     ActivityEventType = "auth.mail.failure"
	ActivityEventPasswordChanged ActivityEventType = "auth.password.changed"
	ActivityEventSessionRevoked  ActivityEventType = "auth.session.revoked"
)

// ActivityEvent captures audit-friendly information about an auth action.
// Events are published explicitly after successful writes rather than hanging
// side effects off the persistence layer.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
