package security

import (
	"testing"
	"time"
)

func TestTokenIssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue("guardian@example.com", "guardian")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Subject != "guardian@example.com" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "guardian@example.com")
	}
	if claims.Role != "guardian" {
		t.Errorf("Role = %q, want %q", claims.Role, "guardian")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", time.Hour)
	verifier := NewTokenManager("secret-two", time.Hour)

	token, err := issuer.Issue("user@example.com", "teacher")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() with wrong secret should fail")
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue("user@example.com", "guardian")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := manager.Verify(token); err != ErrTokenExpired {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	if _, err := manager.Verify("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("Verify() error = %v, want ErrTokenInvalid", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == "correct horse battery" {
		t.Fatal("HashPassword() returned empty or unhashed value")
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Error("CheckPassword() should accept the original password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword() should reject a different password")
	}
}
