package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/konman95/mainst.ai/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenExpiry = time.Hour
	cfg.Auth.AllowDevToken = true
	return cfg
}

func setupAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":  c.GetString(ContextUID),
			"role": c.GetString(ContextRole),
		})
	})
	r.GET("/owner-only", RequireRole(RoleOwner), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := setupAuthRouter(testConfig())
	w := doRequest(r, "", "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := setupAuthRouter(testConfig())
	w := doRequest(r, "Token abc", "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareDevToken(t *testing.T) {
	r := setupAuthRouter(testConfig())
	w := doRequest(r, "Bearer dev-alice", "/whoami")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"alice"`)
	assert.Contains(t, w.Body.String(), `"role":"Owner"`)
}

func TestAuthMiddlewareDevTokenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.AllowDevToken = false
	r := setupAuthRouter(cfg)
	w := doRequest(r, "Bearer dev-alice", "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Dev tokens are disabled")
}

func TestAuthMiddlewareEmptyDevUID(t *testing.T) {
	r := setupAuthRouter(testConfig())
	w := doRequest(r, "Bearer dev-", "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidJWT(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken("bob", "bob@example.com", RoleManager, cfg)
	require.NoError(t, err)

	r := setupAuthRouter(cfg)
	w := doRequest(r, "Bearer "+token, "/whoami")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"bob"`)
	assert.Contains(t, w.Body.String(), `"role":"Manager"`)
}

func TestAuthMiddlewareExpiredJWT(t *testing.T) {
	cfg := testConfig()
	claims := &Claims{
		UID: "bob",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)

	r := setupAuthRouter(cfg)
	w := doRequest(r, "Bearer "+signed, "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	other := testConfig()
	other.Auth.JWTSecret = "other-secret"
	token, err := GenerateToken("bob", "", RoleOwner, other)
	require.NoError(t, err)

	r := setupAuthRouter(testConfig())
	w := doRequest(r, "Bearer "+token, "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMissingUID(t *testing.T) {
	cfg := testConfig()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)

	r := setupAuthRouter(cfg)
	w := doRequest(r, "Bearer "+signed, "/whoami")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	cfg := testConfig()
	r := setupAuthRouter(cfg)

	// Dev tokens resolve to Owner, which passes.
	w := doRequest(r, "Bearer dev-alice", "/owner-only")
	assert.Equal(t, http.StatusOK, w.Code)

	// Agent tokens do not.
	token, err := GenerateToken("carol", "", RoleAgent, cfg)
	require.NoError(t, err)
	w = doRequest(r, "Bearer "+token, "/owner-only")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient role")
}

func TestGenerateTokenValidation(t *testing.T) {
	cfg := testConfig()

	_, err := GenerateToken("", "", RoleOwner, cfg)
	assert.Error(t, err)

	_, err = GenerateToken("uid", "", RoleOwner, nil)
	assert.Error(t, err)

	empty := testConfig()
	empty.Auth.JWTSecret = ""
	_, err = GenerateToken("uid", "", RoleOwner, empty)
	assert.Error(t, err)
}
