package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Auther orchestrates the credential/session lifecycle: registration, email
// verification, login, logout, and per-request authentication. It owns no
// state of its own; everything durable lives behind the store interfaces.
type Auther struct {
	users                UserStore
	sessions             SessionTokenStore
	tokens               TokenService
	mailer               VerificationSender
	sink                 ActivitySink
	logger               Logger
	origin               string
	accessTTL            time.Duration
	refreshTTL           time.Duration
	requireVerifiedEmail bool
	useHashid            bool
}

// LoginResult is everything a transport needs to finish a successful login:
// the minimal claim set for the response body plus both token values and
// their lifetimes for the cookies.
type LoginResult struct {
	User           TokenUser
	AccessToken    string
	RefreshToken   string
	AccessExpires  time.Time
	RefreshExpires time.Time
}

// NewAuthenticator returns a new Auther wired to the given stores.
func NewAuthenticator(users UserStore, sessions SessionTokenStore, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Auther{
		users:                users,
		sessions:             sessions,
		tokens:               tokenService,
		mailer:               NoopVerificationSender{},
		sink:                 noopActivitySink{},
		logger:               defLogger{},
		origin:               cfg.GetOrigin(),
		accessTTL:            cfg.GetAccessTokenTTL(),
		refreshTTL:           cfg.GetRefreshTokenTTL(),
		requireVerifiedEmail: cfg.GetRequireVerifiedEmail(),
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMailer configures the out-of-band verification sender.
func (s *Auther) WithMailer(mailer VerificationSender) *Auther {
	if mailer != nil {
		s.mailer = mailer
	}
	return s
}

// WithTokenService overrides the default token codec.
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.sink = normalizeActivitySink(sink)
	return s
}

// WithDeterministicIDs derives user IDs from the registration email instead of
// random UUIDs.
func (s *Auther) WithDeterministicIDs() *Auther {
	s.useHashid = true
	return s
}

// TokenService returns the codec used by this Auther.
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Register creates a new unverified account and dispatches the verification
// message. A delivery failure is reported alongside the created user; the
// account is NOT rolled back.
func (s *Auther) Register(ctx context.Context, email, name, password string) (*User, error) {
	email = NormalizeEmail(email)

	hash, err := HashPassword(password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	// Optimization only; the unique constraint on users.email is what actually
	// decides races.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !repository.IsRecordNotFound(err) {
		return nil, storageFailure(err)
	}

	verificationToken, err := NewVerificationToken()
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:             email,
		Name:              name,
		PasswordHash:      hash,
		VerificationToken: verificationToken,
	}

	if s.useHashid {
		if id, err := hashid.NewUUID(email); err == nil {
			user.ID = id
		}
	}

	user, err = s.users.Register(ctx, user)
	if err != nil {
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventRegistered, user.ID.String(), map[string]any{
		"email": user.Email,
	})

	if err := s.mailer.SendVerification(ctx, VerificationEmail{
		To:     user.Email,
		Name:   user.Name,
		Token:  verificationToken,
		Origin: s.origin,
	}); err != nil {
		s.logger.Error("verification dispatch failed email=%s error=%v", user.Email, err)
		s.emitAuthEvent(ctx, ActivityEventMailFailure, user.ID.String(), map[string]any{
			"email": user.Email,
			"error": err.Error(),
		})
		return user, deliveryFailure(err)
	}

	return user, nil
}

// VerifyEmail burns the single-use verification token and marks the account
// verified. Unknown email and token mismatch are indistinguishable to the
// caller.
func (s *Auther) VerifyEmail(ctx context.Context, email, token string) error {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrVerificationFailed
		}
		return storageFailure(err)
	}

	if token == "" || user.VerificationToken != token {
		return ErrVerificationFailed
	}

	if err := s.users.MarkVerified(ctx, user.ID, token, time.Now()); err != nil {
		return err
	}

	s.emitAuthEvent(ctx, ActivityEventEmailVerified, user.ID.String(), map[string]any{
		"email": user.Email,
	})

	return nil
}

// Login authenticates credentials and returns the token pair. An existing
// valid session is reused rather than regenerated; an existing session flagged
// invalid blocks the login entirely.
func (s *Auther) Login(ctx context.Context, email, password string, client ClientInfo) (*LoginResult, error) {
	email = NormalizeEmail(email)

	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, s.failLogin(ctx, email, "", ErrInvalidCredentials)
		}
		return nil, storageFailure(err)
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, s.failLogin(ctx, email, user.ID.String(), ErrInvalidCredentials)
	}

	if s.requireVerifiedEmail && !user.IsVerified {
		return nil, s.failLogin(ctx, email, user.ID.String(), ErrEmailNotVerified)
	}

	refreshToken := ""

	existing, err := s.sessions.GetByUser(ctx, user.ID)
	switch {
	case err == nil:
		if !existing.IsValid {
			return nil, s.failLogin(ctx, email, user.ID.String(), ErrInvalidCredentials)
		}
		refreshToken = existing.RefreshToken
	case repository.IsRecordNotFound(err):
		refreshToken, err = NewRefreshToken()
		if err != nil {
			return nil, err
		}

		if _, err := s.sessions.Upsert(ctx, &SessionToken{
			UserID:       user.ID,
			RefreshToken: refreshToken,
			IP:           client.IP,
			UserAgent:    client.UserAgent,
			IsValid:      true,
		}); err != nil {
			return nil, storageFailure(err)
		}
	default:
		return nil, storageFailure(err)
	}

	tokenUser := NewTokenUser(user)

	accessToken, err := s.tokens.IssueAccessToken(tokenUser, refreshToken, s.accessTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, user.ID.String(), map[string]any{
		"email": email,
		"ip":    client.IP,
	})

	return &LoginResult{
		User:           tokenUser,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		AccessExpires:  now.Add(s.accessTTL),
		RefreshExpires: now.Add(s.refreshTTL),
	}, nil
}

// UpdatePassword rotates the account password after re-checking the current
// one. The active session is left alone; existing tokens keep working.
func (s *Auther) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrInvalidCredentials
		}
		return storageFailure(err)
	}

	if err := ComparePasswordAndHash(currentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash

	if _, err := s.users.Update(ctx, user); err != nil {
		return storageFailure(err)
	}

	s.emitAuthEvent(ctx, ActivityEventPasswordChanged, user.ID.String(), map[string]any{
		"email": user.Email,
	})

	return nil
}

// RevokeSession flags the user's session invalid without deleting it. The
// flagged row rejects authentication AND blocks further logins until a logout
// clears it, which is stronger than a plain logout.
func (s *Auther) RevokeSession(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.Invalidate(ctx, userID); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUnableToFindSession
		}
		return storageFailure(err)
	}

	s.emitAuthEvent(ctx, ActivityEventSessionRevoked, userID.String(), nil)
	return nil
}

// Logout drops the user's session. It is idempotent: logging out twice, or
// without a session, never errors.
func (s *Auther) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return storageFailure(err)
	}

	s.emitAuthEvent(ctx, ActivityEventLogout, userID.String(), nil)
	return nil
}

// Authenticate validates a raw access token AND verifies the session it was
// issued alongside still exists and is valid. A logged-out or revoked session
// rejects an otherwise cryptographically valid token.
func (s *Auther) Authenticate(ctx context.Context, rawToken string) (AccessGrant, error) {
	grant, err := s.tokens.Validate(rawToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(grant.UserID())
	if err != nil {
		return nil, ErrTokenMalformed
	}

	session, err := s.sessions.GetByUser(ctx, userID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrSessionRevoked
		}
		return nil, storageFailure(err)
	}

	if !session.IsValid || session.RefreshToken != grant.RefreshToken() {
		return nil, ErrSessionRevoked
	}

	return grant, nil
}

func (s *Auther) failLogin(ctx context.Context, email, userID string, cause *goerrors.Error) error {
	s.logger.Info("login rejected email=%s reason=%s", email, cause.TextCode)
	s.emitAuthEvent(ctx, ActivityEventLoginFailure, userID, map[string]any{
		"email": email,
		"error": cause.Message,
	})
	return cause
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := s.sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

func storageFailure(err error) error {
	return goerrors.Wrap(err, ErrStorageUnavailable.Category, ErrStorageUnavailable.Message).
		WithTextCode(ErrStorageUnavailable.TextCode)
}

// deliveryFailure normalizes any sender error to the delivery taxonomy; errors
// a sender already tagged pass through untouched.
func deliveryFailure(err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeDeliveryFailed {
		return err
	}
	return goerrors.Wrap(err, ErrDeliveryFailed.Category, ErrDeliveryFailed.Message).
		WithTextCode(ErrDeliveryFailed.TextCode)
}
