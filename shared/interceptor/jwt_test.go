package interceptor

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/shared/auth"
)

const testSecret = "test-admin-secret"

func signToken(t *testing.T, a auth.JWTAuthenticator, role string) string {
	t.Helper()

	token, err := a.GenerateToken(auth.AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "member-registry",
			Audience:  jwt.ClaimStrings{"member-registry-admin"},
			Subject:   "operator-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	return token
}

func TestNewJWTMiddleware(t *testing.T) {
	a := auth.NewJWTAuthenticator("member-registry-admin", "member-registry")
	logger := zerolog.Nop()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "non admin", header: "Bearer " + signToken(t, a, "user"), wantStatus: http.StatusForbidden},
		{name: "admin", header: "Bearer " + signToken(t, a, auth.RoleAdmin), wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := AdminClaimsFromContext(r.Context())
				if !ok {
					t.Error("expected admin claims in context")
				} else {
					subject = claims.Subject
				}
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/admin/reconciliations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			NewJWTMiddleware(a, testSecret, &logger)(next).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusNoContent && subject != "operator-1" {
				t.Errorf("subject = %q, want operator-1", subject)
			}
		})
	}
}
