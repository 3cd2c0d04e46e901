package commands

import (
	"testing"

	"school/backend/internal/auth"
	"school/backend/internal/repository/postgres/user"
)

const testKey = "test-signing-key"

func TestGenTokenRoundTrip(t *testing.T) {
	access, refresh, err := GenToken(user.AuthClaims{ID: 42, Role: auth.RoleTeacher}, testKey)
	if err != nil {
		t.Fatalf("GenToken: %v", err)
	}

	accessClaims, refreshClaims, err := VerifyTokens(access, refresh, testKey)
	if err != nil {
		t.Fatalf("VerifyTokens: %v", err)
	}

	if accessClaims.UserId != 42 || refreshClaims.UserId != 42 {
		t.Errorf("user id = %d/%d, want 42", accessClaims.UserId, refreshClaims.UserId)
	}
	if accessClaims.Role != auth.RoleTeacher {
		t.Errorf("role = %q, want %q", accessClaims.Role, auth.RoleTeacher)
	}
	if accessClaims.Type != "access" {
		t.Errorf("access type = %q", accessClaims.Type)
	}
	if refreshClaims.Type != "refresh" {
		t.Errorf("refresh type = %q", refreshClaims.Type)
	}
}

func TestVerifyTokensRejectsWrongKey(t *testing.T) {
	access, refresh, err := GenToken(user.AuthClaims{ID: 1, Role: auth.RoleAdmin}, testKey)
	if err != nil {
		t.Fatalf("GenToken: %v", err)
	}

	if _, _, err := VerifyTokens(access, refresh, "some-other-key"); err == nil {
		t.Error("expected verification to fail with wrong key")
	}
}

func TestVerifyTokensRejectsSwappedPair(t *testing.T) {
	access, refresh, err := GenToken(user.AuthClaims{ID: 1, Role: auth.RoleAdmin}, testKey)
	if err != nil {
		t.Fatalf("GenToken: %v", err)
	}

	if _, _, err := VerifyTokens(refresh, access, testKey); err == nil {
		t.Error("expected verification to fail with access and refresh swapped")
	}
}

func TestVerifyTokensRejectsMismatchedUsers(t *testing.T) {
	access, _, err := GenToken(user.AuthClaims{ID: 1, Role: auth.RoleAdmin}, testKey)
	if err != nil {
		t.Fatalf("GenToken: %v", err)
	}
	_, refresh, err := GenToken(user.AuthClaims{ID: 2, Role: auth.RoleAdmin}, testKey)
	if err != nil {
		t.Fatalf("GenToken: %v", err)
	}

	if _, _, err := VerifyTokens(access, refresh, testKey); err == nil {
		t.Error("expected verification to fail for tokens of different users")
	}
}
