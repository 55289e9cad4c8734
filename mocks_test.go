package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/storekit/auth"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if rf, ok := args.Get(0).(func(context.Context, *auth.User) (*auth.User, error)); ok {
		return rf(ctx, user)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) MarkVerified(ctx context.Context, id uuid.UUID, token string, at time.Time) error {
	args := m.Called(ctx, id, token, at)
	return args.Error(0)
}

// MockSessionStore implements auth.SessionTokenStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) GetByUser(ctx context.Context, userID uuid.UUID) (*auth.SessionToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SessionToken), args.Error(1)
}

func (m *MockSessionStore) Upsert(ctx context.Context, record *auth.SessionToken) (*auth.SessionToken, error) {
	args := m.Called(ctx, record)
	if rf, ok := args.Get(0).(func(context.Context, *auth.SessionToken) (*auth.SessionToken, error)); ok {
		return rf(ctx, record)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SessionToken), args.Error(1)
}

func (m *MockSessionStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionStore) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockMailer implements auth.VerificationSender
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerification(ctx context.Context, msg auth.VerificationEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// recordingSink captures activity events for assertions
type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *recordingSink) Record(ctx context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Types() []auth.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]auth.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.EventType)
	}
	return types
}

// testConfig is a plain auth.Config implementation for tests
type testConfig struct {
	signingKey           string
	issuer               string
	audience             []string
	accessTTL            time.Duration
	refreshTTL           time.Duration
	requireVerifiedEmail bool
	secureCookies        bool
	origin               string
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey:           "test-signing-key",
		issuer:               "test-issuer",
		audience:             []string{"test:audience"},
		accessTTL:            15 * time.Minute,
		refreshTTL:           30 * 24 * time.Hour,
		requireVerifiedEmail: true,
		secureCookies:        true,
		origin:               "http://localhost:8080",
	}
}

func (c *testConfig) GetSigningKey() string { return c.signingKey }
func (c *testConfig) GetIssuer() string { return c.issuer }
func (c *testConfig) GetAudience() []string { return c.audience }
func (c *testConfig) GetAccessTokenTTL() time.Duration { return c.accessTTL }
func (c *testConfig) GetRefreshTokenTTL() time.Duration { return c.refreshTTL }
func (c *testConfig) GetRequireVerifiedEmail() bool { return c.requireVerifiedEmail }
func (c *testConfig) GetSecureCookies() bool { return c.secureCookies }
func (c *testConfig) GetOrigin() string { return c.origin }
