package auth

import (
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	InitializeJWT("test-secret")

	token, err := GenerateToken("user-1", "user@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("Role = %q, want ADMIN", claims.Role)
	}

	exp := claims.ExpiresAt.Time
	if remaining := time.Until(exp); remaining > AccessTokenTTL || remaining < AccessTokenTTL-time.Minute {
		t.Errorf("token expires in %v, want ~%v", remaining, AccessTokenTTL)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	InitializeJWT("secret-a")
	token, err := GenerateToken("user-1", "user@example.com", "USER")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	InitializeJWT("secret-b")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	InitializeJWT("test-secret")
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("garbage token was accepted")
	}
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	jwtSecret = nil
	defer InitializeJWT("test-secret")

	if _, err := GenerateToken("user-1", "user@example.com", "USER"); err == nil {
		t.Error("token generated without a secret")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" || !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash does not look like bcrypt: %q", hash)
	}

	if err := VerifyPassword("secret123", hash); err != nil {
		t.Errorf("VerifyPassword rejected correct password: %v", err)
	}
	if err := VerifyPassword("wrong", hash); err == nil {
		t.Error("VerifyPassword accepted wrong password")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	a, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	b, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}
