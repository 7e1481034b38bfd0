package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"solarsite/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the verified identity claims.
	IdentityKey contextKey = "identity"
)

// TokenVerifier validates an identity token string and returns its claims.
// *auth.Verifier satisfies this; tests substitute fakes.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.IdentityClaims, error)
}

// RequireAdmin gates privileged routes behind the identity provider's
// admin custom claim. The gate is stateless: every request presents a
// bearer token and is re-verified in full.
//
// Failure modes: missing or malformed Authorization header → 401;
// failed verification (bad signature, expired, wrong issuer) → 403;
// verified token without admin == true → 403.
func RequireAdmin(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "malformed Authorization header")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusForbidden, "invalid token")
				return
			}

			if !auth.Authorized(claims) {
				writeError(w, http.StatusForbidden, "admin privileges required")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromCtx extracts the verified identity claims from the request
// context. Returns nil outside an admin-gated handler.
func IdentityFromCtx(ctx context.Context) *auth.IdentityClaims {
	claims, _ := ctx.Value(IdentityKey).(*auth.IdentityClaims)
	return claims
}

// writeError sends the API's JSON error envelope. Handlers have their own
// copy of this helper; middleware keeps one to avoid the import cycle.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
