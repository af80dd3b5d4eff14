package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func sign(t *testing.T, key *rsa.PrivateKey, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(sub string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "https://clerk.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Azp: "http://localhost:3000",
	}
}

func TestJWTVerifier(t *testing.T) {
	key := newKey(t)
	v := NewJWTVerifierWithKey(&key.PublicKey, "https://clerk.example.com", []string{"http://localhost:3000"})
	ctx := context.Background()

	owner, err := v.Verify(ctx, sign(t, key, validClaims("user_123")))
	require.NoError(t, err)
	assert.Equal(t, "user_123", owner)

	t.Run("expired", func(t *testing.T) {
		c := validClaims("user_123")
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Verify(ctx, sign(t, key, c))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no expiry", func(t *testing.T) {
		c := validClaims("user_123")
		c.ExpiresAt = nil
		_, err := v.Verify(ctx, sign(t, key, c))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := validClaims("user_123")
		c.Issuer = "https://evil.example.com"
		_, err := v.Verify(ctx, sign(t, key, c))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign key", func(t *testing.T) {
		_, err := v.Verify(ctx, sign(t, newKey(t), validClaims("user_123")))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown party", func(t *testing.T) {
		c := validClaims("user_123")
		c.Azp = "https://phishing.example.com"
		_, err := v.Verify(ctx, sign(t, key, c))
		assert.ErrorIs(t, err, ErrUnauthorizedParty)
	})

	t.Run("no party", func(t *testing.T) {
		c := validClaims("user_123")
		c.Azp = ""
		_, err := v.Verify(ctx, sign(t, key, c))
		assert.ErrorIs(t, err, ErrUnauthorizedParty)

		open := NewJWTVerifierWithKey(&key.PublicKey, "https://clerk.example.com", nil)
		owner, err := open.Verify(ctx, sign(t, key, c))
		require.NoError(t, err)
		assert.Equal(t, "user_123", owner)
	})

	t.Run("no subject", func(t *testing.T) {
		_, err := v.Verify(ctx, sign(t, key, validClaims("")))
		assert.ErrorIs(t, err, ErrMissingSubjectClaim)
	})

	t.Run("hmac token", func(t *testing.T) {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user_123")).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = v.Verify(ctx, s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := v.Verify(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})
}

func TestNewJWTVerifier_PEM(t *testing.T) {
	key := newKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	singleLine := strings.ReplaceAll(string(block), "\n", `\n`)
	v, err := NewJWTVerifier(singleLine, "", nil)
	require.NoError(t, err)

	owner, err := v.Verify(context.Background(), sign(t, key, validClaims("user_9")))
	require.NoError(t, err)
	assert.Equal(t, "user_9", owner)

	_, err = NewJWTVerifier("not a key", "", nil)
	assert.Error(t, err)
}

type staticVerifier map[string]string

func (s staticVerifier) Verify(_ context.Context, token string) (string, error) {
	if owner, ok := s[token]; ok {
		return owner, nil
	}
	return "", ErrInvalidToken
}

func newRouter(opts MiddlewareOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(opts))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, OwnerID(c))
	})
	return r
}

func do(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	r := newRouter(MiddlewareOptions{Verifier: staticVerifier{"good": "user_1"}})

	w := do(r, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_1", w.Body.String())

	w = do(r, map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Authentication required"}`, w.Body.String())

	w = do(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, map[string]string{"Authorization": "Basic good"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the bypass is off outside development
	w = do(r, map[string]string{"Authorization": "Bearer test_token", "X-User-ID": "user_2"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_DevBypass(t *testing.T) {
	r := newRouter(MiddlewareOptions{Verifier: staticVerifier{}, DevBypass: true})

	w := do(r, map[string]string{"Authorization": "Bearer test_token", "X-User-ID": "user_2"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_2", w.Body.String())

	w = do(r, map[string]string{"Authorization": "Bearer test_token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
