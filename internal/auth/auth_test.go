package auth_test

import (
	"testing"

	"school/backend/internal/auth"
	"school/backend/internal/commands"
	"school/backend/internal/repository/postgres/user"
)

func TestClaimsAuthorized(t *testing.T) {
	claims := auth.Claims{Role: auth.RoleTeacher}

	if !claims.Authorized(auth.RoleAdmin, auth.RoleTeacher) {
		t.Error("teacher should be authorized when teacher role is allowed")
	}
	if claims.Authorized(auth.RoleAdmin) {
		t.Error("teacher should not be authorized for admin-only access")
	}
}

func TestValidateToken(t *testing.T) {
	const key = "unit-test-key"
	a := auth.New(key)

	access, _, err := commands.GenToken(user.AuthClaims{ID: 7, Role: auth.RoleStudent}, key)
	if err != nil {
		t.Fatalf("GenToken: %v", err)
	}

	claims, err := a.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserId != 7 {
		t.Errorf("user id = %d, want 7", claims.UserId)
	}
	if claims.Role != auth.RoleStudent {
		t.Errorf("role = %q, want %q", claims.Role, auth.RoleStudent)
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	a := auth.New("unit-test-key")

	access, _, err := commands.GenToken(user.AuthClaims{ID: 7, Role: auth.RoleStudent}, "another-key")
	if err != nil {
		t.Fatalf("GenToken: %v", err)
	}

	if _, err := a.ValidateToken(access); err == nil {
		t.Error("expected token signed with a different key to be rejected")
	}
}
