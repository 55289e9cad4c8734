package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenService creates and validates signed, expiring access tokens.
type TokenService interface {
	IssueAccessToken(user TokenUser, refreshToken string, ttl time.Duration) (string, error)
	SignClaims(claims *AccessClaims) (string, error)
	Validate(tokenString string) (AccessGrant, error)
}

// TokenServiceImpl implements the TokenService interface using HMAC-SHA256.
type TokenServiceImpl struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(signingKey []byte, issuer string, audience []string, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		issuer:     issuer,
		audience:   audience,
		logger:     logger,
	}
}

// IssueAccessToken signs a short-lived access token carrying the minimal claim
// set plus the refresh value it was issued alongside.
func (ts *TokenServiceImpl) IssueAccessToken(user TokenUser, refreshToken string, ttl time.Duration) (string, error) {
	now := time.Now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.ID,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:      user.ID,
		UserName: user.Name,
		UserRole: user.Role,
		Refresh:  refreshToken,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary access claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *AccessClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string. Malformed or attacker-mangled
// input never panics; it comes back as a typed error.
func (ts *TokenServiceImpl) Validate(tokenString string) (AccessGrant, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method alg=%v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("token validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}

// refreshTokenBytes matches the 40 random bytes the verification token uses.
const refreshTokenBytes = 40

// NewRefreshToken generates the opaque refresh value. It is NOT a signed
// token; it only means something when looked up against the session store.
func NewRefreshToken() (string, error) {
	return randomHexToken(refreshTokenBytes)
}

// NewVerificationToken generates the single-use email verification token.
func NewVerificationToken() (string, error) {
	return randomHexToken(refreshTokenBytes)
}

func randomHexToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to read random bytes")
	}
	return hex.EncodeToString(buf), nil
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
