// Package auth verifies bearer tokens and scopes requests to a tenant.
// Tokens are issued elsewhere; this package only validates RS256
// signatures against a configured public key.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims the service cares about. TenantID binds
// every operation in the request to one tenant's books.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string   `json:"tenant_id"`
	Scopes   []string `json:"scope"`
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	Subject  string
	TenantID string
	Scopes   map[string]struct{}
}

type identityKey struct{}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok
}

// ContextWithIdentity attaches an identity to the context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Verifier validates RS256 bearer tokens.
type Verifier struct {
	PublicKey *rsa.PublicKey
	Issuer    string
}

// NewVerifier parses a PEM-encoded RSA public key.
func NewVerifier(publicKeyPEM, issuer string) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, err
	}
	return &Verifier{PublicKey: key, Issuer: issuer}, nil
}

// Verify parses and validates a token string and returns its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if v.PublicKey == nil {
		return nil, errors.New("no verification key configured")
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	if v.Issuer != "" && claims.Issuer != v.Issuer {
		return nil, errors.New("invalid issuer")
	}
	if claims.TenantID == "" {
		return nil, errors.New("token has no tenant")
	}
	return claims, nil
}

// ErrorWriter writes an authentication failure response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code string)

// Authenticate rejects requests without a valid bearer token and attaches
// the caller's identity to the context.
func Authenticate(v *Verifier, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				onError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				onError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := v.Verify(strings.TrimSpace(authz[len("Bearer "):]))
			if err != nil {
				onError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			scopes := make(map[string]struct{}, len(claims.Scopes))
			for _, s := range claims.Scopes {
				scopes[s] = struct{}{}
			}

			id := &Identity{
				Subject:  claims.Subject,
				TenantID: claims.TenantID,
				Scopes:   scopes,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}

// RequireScopes rejects authenticated requests missing any required scope.
func RequireScopes(onError ErrorWriter, required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				onError(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}

			for _, s := range required {
				if _, ok := id.Scopes[s]; !ok {
					onError(w, r, http.StatusForbidden, "forbidden")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
