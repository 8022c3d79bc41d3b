package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://auth.test"

func newTestKeypair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(pemBytes)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims *Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func testClaims(tenantID string, scopes ...string) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: tenantID,
		Scopes:   scopes,
	}
}

func errWriter(w http.ResponseWriter, r *http.Request, status int, code string) {
	http.Error(w, code, status)
}

func TestVerify(t *testing.T) {
	key, pub := newTestKeypair(t)
	v, err := NewVerifier(pub, testIssuer)
	require.NoError(t, err)

	claims, err := v.Verify(signToken(t, key, testClaims("tenant-a", "posting:write")))
	require.NoError(t, err)
	assert.Equal(t, "tenant-a", claims.TenantID)
	assert.Equal(t, []string{"posting:write"}, claims.Scopes)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	key, pub := newTestKeypair(t)
	v, err := NewVerifier(pub, testIssuer)
	require.NoError(t, err)

	otherKey, _ := newTestKeypair(t)

	t.Run("wrong key", func(t *testing.T) {
		_, err := v.Verify(signToken(t, otherKey, testClaims("tenant-a")))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := testClaims("tenant-a")
		c.Issuer = "https://other.test"
		_, err := v.Verify(signToken(t, key, c))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		c := testClaims("tenant-a")
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := v.Verify(signToken(t, key, c))
		assert.Error(t, err)
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := v.Verify(signToken(t, key, testClaims("")))
		assert.Error(t, err)
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	key, pub := newTestKeypair(t)
	v, err := NewVerifier(pub, testIssuer)
	require.NoError(t, err)

	var seen *Identity
	handler := Authenticate(v, errWriter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, testClaims("tenant-a", "posting:write")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "tenant-a", seen.TenantID)
	assert.Equal(t, "user-1", seen.Subject)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing header is rejected")
}

func TestRequireScopes(t *testing.T) {
	key, pub := newTestKeypair(t)
	v, err := NewVerifier(pub, testIssuer)
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(v, errWriter)(RequireScopes(errWriter, "reports:read")(ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, testClaims("tenant-a", "posting:write")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing scope is forbidden")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, key, testClaims("tenant-a", "reports:read")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
