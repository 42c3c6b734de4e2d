package middleware

import (
	"context"
	"errors"
	"net/http"

	"IG_DIRECTORY_BACK-END/internal/services"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

type claimsKey struct{}

// Authenticator validates admin session tokens
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.SessionClaims, error)
}

// AuthMiddleware requires a valid admin session token in the Authorization header
func AuthMiddleware(next http.HandlerFunc, auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required")
			return
		}

		token, ok := utils.BearerToken(r)
		if !ok {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid authorization header format")
			return
		}

		claims, err := auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrBackendUnavailable) {
				utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Service Unavailable", "Session store unavailable")
				return
			}
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the session claims stored by AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*services.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*services.SessionClaims)
	return claims, ok && claims != nil
}

// WithClaims stores claims on ctx the same way AuthMiddleware does
func WithClaims(ctx context.Context, claims *services.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}
