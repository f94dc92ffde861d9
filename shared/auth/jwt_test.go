package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-admin-secret"

func newClaims(role string, expiresIn time.Duration) AdminClaims {
	now := time.Now()
	return AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "member-registry",
			Audience:  jwt.ClaimStrings{"member-registry-admin"},
			Subject:   "operator-1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func TestValidateAdminToken(t *testing.T) {
	a := NewJWTAuthenticator("member-registry-admin", "member-registry")

	token, err := a.GenerateToken(newClaims(RoleAdmin, time.Minute), testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := a.ValidateAdminToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAdminToken() error: %v", err)
	}
	if claims.Subject != "operator-1" {
		t.Errorf("Subject = %q, want operator-1", claims.Subject)
	}
}

func TestValidateAdminToken_Rejects(t *testing.T) {
	a := NewJWTAuthenticator("member-registry-admin", "member-registry")
	other := NewJWTAuthenticator("someone-else", "member-registry")

	userToken, _ := a.GenerateToken(newClaims("user", time.Minute), testSecret)
	expired, _ := a.GenerateToken(newClaims(RoleAdmin, -time.Minute), testSecret)
	wrongAudience, _ := other.GenerateToken(AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "member-registry",
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, testSecret)
	valid, _ := a.GenerateToken(newClaims(RoleAdmin, time.Minute), testSecret)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "non admin role", token: userToken, secret: testSecret},
		{name: "expired", token: expired, secret: testSecret},
		{name: "wrong audience", token: wrongAudience, secret: testSecret},
		{name: "wrong secret", token: valid, secret: "other-secret"},
		{name: "garbage", token: "not-a-jwt", secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.ValidateAdminToken(tt.token, tt.secret); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateAdminToken_NotAdmin(t *testing.T) {
	a := NewJWTAuthenticator("member-registry-admin", "member-registry")
	token, _ := a.GenerateToken(newClaims("user", time.Minute), testSecret)

	_, err := a.ValidateAdminToken(token, testSecret)
	if !errors.Is(err, ErrNotAdmin) {
		t.Errorf("err = %v, want ErrNotAdmin", err)
	}
}
