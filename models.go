package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record for a single account.
//
// The password is only ever stored as a bcrypt hash and is never serialized;
// the verification token is single-use and cleared once the email is verified.
type User struct {
	bun.BaseModel     `bun:"table:users,alias:usr"`
	ID                uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email             string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Name              string     `bun:"name,notnull" json:"name,omitempty"`
	PasswordHash      string     `bun:"password_hash,notnull" json:"-"`
	Role              Role       `bun:"user_role,notnull" json:"user_role,omitempty"`
	IsVerified        bool       `bun:"is_verified" json:"is_verified"`
	VerificationToken string     `bun:"verification_token" json:"-"`
	VerifiedAt        *time.Time `bun:"verified_at,nullzero" json:"verified_at,omitempty"`
	CreatedAt         *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt         *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// MarkVerified flips the record into its verified state and burns the token.
func (u *User) MarkVerified(at time.Time) *User {
	u.IsVerified = true
	u.VerificationToken = ""
	u.VerifiedAt = &at
	return u
}

// SessionToken is the one long-lived session descriptor a user may hold.
//
// The unique constraint on user_id is what enforces the at-most-one-session
// invariant; concurrent logins resolve through it rather than through
// application-level locking. A record with IsValid=false must fail
// authentication even when the raw refresh value matches.
type SessionToken struct {
	bun.BaseModel `bun:"table:session_tokens,alias:st"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,unique,type:uuid" json:"user_id,omitempty"`
	RefreshToken  string     `bun:"refresh_token,notnull" json:"-"`
	IP            string     `bun:"ip" json:"ip,omitempty"`
	UserAgent     string     `bun:"user_agent" json:"user_agent,omitempty"`
	IsValid       bool       `bun:"is_valid" json:"is_valid"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// TokenUser is the minimal claim set issued into access tokens and returned
// by login responses. Nothing sensitive belongs here.
type TokenUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// NewTokenUser builds the claim set for a user record.
func NewTokenUser(u *User) TokenUser {
	return TokenUser{
		ID:   u.ID.String(),
		Name: u.Name,
		Role: u.Role,
	}
}

// NormalizeEmail applies the canonical form used for both storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
