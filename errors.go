package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Stable text codes for every error we surface to clients.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeMissingCreds       = "MISSING_CREDENTIALS"
	TextCodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	TextCodeVerificationFailed = "VERIFICATION_FAILED"
	TextCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	TextCodeNotPermitted       = "NOT_PERMITTED"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeSessionNotFound    = "SESSION_NOT_FOUND"
	TextCodeSessionRevoked     = "SESSION_REVOKED"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeDataParseError     = "DATA_PARSE_ERROR"
	TextCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	TextCodeDeliveryFailed     = "DELIVERY_FAILED"
)

// ErrInvalidCredentials is returned for a wrong password AND for an unknown
// email. Both paths must return this exact value so a caller cannot tell which
// one happened.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrMissingCredentials is returned when email or password is absent from a login.
var ErrMissingCredentials = errors.New("please provide email and password", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingCreds).
	WithCode(errors.CodeBadRequest)

// ErrEmailNotVerified is returned when policy requires a verified email for login.
var ErrEmailNotVerified = errors.New("please verify your email", errors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(errors.CodeUnauthorized)

// ErrVerificationFailed covers both an unknown email and a token mismatch
// during email verification, again to avoid account enumeration.
var ErrVerificationFailed = errors.New("verification failed", errors.CategoryAuth).
	WithTextCode(TextCodeVerificationFailed).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateEmail is returned when registering an email that already exists.
// The unique constraint on users.email is the authority; the pre-insert lookup
// is only an optimization.
var ErrDuplicateEmail = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrNotPermitted is returned when a role or ownership check denies access.
var ErrNotPermitted = errors.New("not permitted to access this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeNotPermitted).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired marks an access token past its expiry.
var ErrTokenExpired = errors.New("authentication token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed marks a token whose signature or structure does not check out.
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is returned when a request carries no access cookie.
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrSessionRevoked is returned when the access token is valid but its backing
// session record was deleted or flagged invalid.
var ErrSessionRevoked = errors.New("session is no longer valid", errors.CategoryAuth).
	WithTextCode(TextCodeSessionRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyPassword rejects empty passwords before hashing.
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrUnableToParseData is returned for malformed request payloads.
var ErrUnableToParseData = errors.New("unable to parse data", errors.CategoryBadInput).
	WithTextCode(TextCodeDataParseError).
	WithCode(errors.CodeBadRequest)

// ErrStorageUnavailable marks a transient persistence failure, as opposed to a
// record simply not existing.
var ErrStorageUnavailable = errors.New("storage unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeStorageUnavailable).
	WithCode(errors.CodeInternal)

// ErrDeliveryFailed marks a failed outbound verification message. The account
// it refers to is NOT rolled back.
var ErrDeliveryFailed = errors.New("failed to deliver verification message", errors.CategoryOperation).
	WithTextCode(TextCodeDeliveryFailed)

// IsTokenExpiredError will check for expired tokens, including legacy string
// matches coming out of the JWT parser.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed token errors.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// isUniqueViolation detects a uniqueness constraint failure across the drivers
// we run against (sqlite in tests, postgres in deployments).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
