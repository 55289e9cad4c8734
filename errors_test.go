package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/storekit/auth"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      *goerrors.Error
		category goerrors.Category
		textCode string
		code     int
	}{
		{
			name:     "invalid credentials",
			err:      auth.ErrInvalidCredentials,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeInvalidCreds,
			code:     goerrors.CodeUnauthorized,
		},
		{
			name:     "missing credentials",
			err:      auth.ErrMissingCredentials,
			category: goerrors.CategoryBadInput,
			textCode: auth.TextCodeMissingCreds,
			code:     goerrors.CodeBadRequest,
		},
		{
			name:     "email not verified",
			err:      auth.ErrEmailNotVerified,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeEmailNotVerified,
			code:     goerrors.CodeUnauthorized,
		},
		{
			name:     "verification failed",
			err:      auth.ErrVerificationFailed,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeVerificationFailed,
			code:     goerrors.CodeUnauthorized,
		},
		{
			name:     "duplicate email",
			err:      auth.ErrDuplicateEmail,
			category: goerrors.CategoryConflict,
			textCode: auth.TextCodeDuplicateEmail,
			code:     goerrors.CodeConflict,
		},
		{
			name:     "not permitted",
			err:      auth.ErrNotPermitted,
			category: goerrors.CategoryAuthz,
			textCode: auth.TextCodeNotPermitted,
			code:     goerrors.CodeForbidden,
		},
		{
			name:     "session revoked",
			err:      auth.ErrSessionRevoked,
			category: goerrors.CategoryAuth,
			textCode: auth.TextCodeSessionRevoked,
			code:     goerrors.CodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestEnumerationResistance(t *testing.T) {
	// Unknown account and wrong password must be the same error value, and
	// both verification failure modes must share one value too.
	assert.Equal(t, auth.ErrInvalidCredentials.Message, "the credentials provided are invalid")
	assert.Equal(t, auth.ErrVerificationFailed.Message, "verification failed")
}

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "structured token expired error",
			err:      auth.ErrTokenExpired,
			expected: true,
		},
		{
			name:     "legacy token expired error (string match)",
			err:      errors.New("some wrapper: token is expired"),
			expected: true,
		},
		{
			name:     "different structured error",
			err:      auth.ErrInvalidCredentials,
			expected: false,
		},
		{
			name:     "different legacy error",
			err:      errors.New("invalid token"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := auth.IsTokenExpiredError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "structured malformed error",
			err:      auth.ErrTokenMalformed,
			expected: true,
		},
		{
			name:     "legacy malformed error (string match)",
			err:      errors.New("token is malformed"),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := auth.IsMalformedError(tt.err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
