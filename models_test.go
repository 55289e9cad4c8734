package auth

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestMarkVerified(t *testing.T) {
	u := &User{
		IsVerified:        false,
		VerificationToken: "pending-token",
	}

	at := time.Now()
	u.MarkVerified(at)

	if !u.IsVerified {
		t.Fatal("expected user to be verified")
	}
	if u.VerificationToken != "" {
		t.Fatalf("expected verification token to be cleared, got %q", u.VerificationToken)
	}
	if u.VerifiedAt == nil || !u.VerifiedAt.Equal(at) {
		t.Fatalf("expected verified_at %v, got %v", at, u.VerifiedAt)
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Tester@Example.COM", "tester@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeEmail(tc.input); got != tc.expected {
			t.Errorf("NormalizeEmail(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestUserSerializationHidesSecrets(t *testing.T) {
	u := &User{
		Email:             "tester@example.com",
		PasswordHash:      "$2a$14$abcdefghijklmnopqrstuv",
		VerificationToken: "secret-verification-token",
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}

	body := string(raw)
	if strings.Contains(body, "$2a$14$") {
		t.Error("password hash leaked into JSON")
	}
	if strings.Contains(body, "secret-verification-token") {
		t.Error("verification token leaked into JSON")
	}
}

func TestSessionTokenSerializationHidesRefresh(t *testing.T) {
	st := &SessionToken{
		RefreshToken: "opaque-refresh-value",
		IP:           "203.0.113.7",
	}

	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(string(raw), "opaque-refresh-value") {
		t.Error("refresh token leaked into JSON")
	}
}

func TestNewTokenUser(t *testing.T) {
	u := &User{
		Name: "Tester",
		Role: RoleAdmin,
	}

	tu := NewTokenUser(u)

	if tu.Name != "Tester" || tu.Role != RoleAdmin {
		t.Fatalf("unexpected token user: %+v", tu)
	}
}
