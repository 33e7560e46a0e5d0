package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/konman95/mainst.ai/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	ContextUID   = "uid"
	ContextEmail = "email"
	ContextRole  = "role"
)

// Roles. Identity itself lives outside this system; tokens arrive with the
// role already resolved.
const (
	RoleOwner   = "Owner"
	RoleManager = "Manager"
	RoleAgent   = "Agent"
)

// Claims represents the JWT claims
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the tenant identity from the Authorization
// header. Two token forms are accepted:
//
//   - "Bearer dev-<uid>": development token, enabled by config. Resolves
//     to <uid> with the Owner role.
//   - "Bearer <jwt>": HS256 JWT carrying uid/email/role claims.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization must be: Bearer <token>"})
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		if strings.HasPrefix(tokenString, "dev-") {
			if !cfg.Auth.AllowDevToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Dev tokens are disabled"})
				c.Abort()
				return
			}
			uid := strings.TrimPrefix(tokenString, "dev-")
			if uid == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				c.Abort()
				return
			}
			c.Set(ContextUID, uid)
			c.Set(ContextRole, RoleOwner)
			c.Next()
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || claims.UID == "" || claims.ExpiresAt == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		role := claims.Role
		if role == "" {
			role = RoleAgent
		}

		c.Set(ContextUID, claims.UID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the resolved role is in allowed.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this action"})
		c.Abort()
	}
}

// GenerateToken generates a new JWT token for uid with the given role.
func GenerateToken(uid, email, role string, cfg *config.Config) (string, error) {
	if uid == "" {
		return "", errors.New("uid is required")
	}
	if cfg == nil {
		return "", errors.New("config is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return "", errors.New("JWT secret is required")
	}

	claims := &Claims{
		UID:   uid,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.Auth.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Auth.JWTSecret))
}
