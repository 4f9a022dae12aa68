package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundtrip(t *testing.T) {
	keys, err := NewKeys("test-secret", 60)
	if err != nil {
		t.Fatal(err)
	}

	token, err := keys.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := keys.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("subject = %q, want alice@example.com", claims.Subject)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	keys, _ := NewKeys("secret-one", 60)
	other, _ := NewKeys("secret-two", 60)

	token, err := keys.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	keys, _ := NewKeys("test-secret", 60)
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := keys.ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ValidateToken(%q) err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	keys := &Keys{secret: []byte("test-secret"), expiry: -time.Minute}
	token, err := keys.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := keys.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken for expired token", err)
	}
}

func TestNewKeysRejectsBadConfig(t *testing.T) {
	if _, err := NewKeys("", 60); err == nil {
		t.Error("empty secret accepted")
	}
	if _, err := NewKeys("secret", 0); err == nil {
		t.Error("zero expiry accepted")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"shop", RoleShop, false},
		{"member", RoleMember, false},
		{" Admin ", RoleAdmin, false},
		{"SHOP", RoleShop, false},
		{"root", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidRole) {
				t.Errorf("ParseRole(%q) err = %v, want ErrInvalidRole", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseRole(%q) = %s, %v, want %s", tc.in, got, err, tc.want)
		}
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	long := strings.Repeat("a", 73)
	if _, err := HashPassword(long); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("err = %v, want ErrPasswordTooLong", err)
	}

	// exactly 72 bytes is still fine
	if _, err := HashPassword(strings.Repeat("a", 72)); err != nil {
		t.Errorf("72-byte password rejected: %v", err)
	}
}
