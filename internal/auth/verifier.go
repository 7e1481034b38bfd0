// Package auth verifies identity-provider bearer tokens and defines the
// capability check used to gate the privileged API surface. The identity
// provider signs tokens with a shared HS256 secret and may attach a
// boolean "admin" custom claim; this package never issues tokens.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// IdentityClaims is the decoded identity token payload. Admin is the
// custom claim the identity provider attaches to back-office users.
type IdentityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Verifier validates identity tokens against the provider's signing
// material. It is stateless; every privileged request is re-verified.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier for the given shared secret and expected
// issuer. An empty issuer disables the issuer check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates a token string: signature, expiry, and
// issuer. Returns the decoded claims on success.
func (v *Verifier) Verify(tokenString string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("verify token: token invalid")
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("verify token: unexpected issuer %q", claims.Issuer)
	}
	return claims, nil
}

// Authorized is the capability check shared by every enforcement tier:
// only a verified identity whose admin claim is strictly true may write.
func Authorized(claims *IdentityClaims) bool {
	return claims != nil && claims.Admin
}
