package interceptor

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/shared/apperror"
	"github.com/vasapolrittideah/member-registry/shared/auth"
)

type contextKey struct{}

var AdminClaimsKey = contextKey{}

// NewJWTMiddleware rejects requests that do not carry a valid admin bearer token.
func NewJWTMiddleware(
	jwtAuth auth.JWTAuthenticator,
	secret string,
	logger *zerolog.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractBearerToken(r)
			if err != nil {
				apperror.Write(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := jwtAuth.ValidateAdminToken(tokenString, secret)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected admin token")

				if errors.Is(err, auth.ErrNotAdmin) {
					apperror.Write(w, http.StatusForbidden, "admin role required")
					return
				}
				apperror.Write(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), AdminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaimsFromContext returns the claims stored by NewJWTMiddleware.
func AdminClaimsFromContext(ctx context.Context) (*auth.AdminClaims, bool) {
	claims, ok := ctx.Value(AdminClaimsKey).(*auth.AdminClaims)
	return claims, ok
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
